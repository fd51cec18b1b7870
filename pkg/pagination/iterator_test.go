package pagination

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailkit/springboard-client/pkg/client"
)

var testTenant = client.Tenant{Subdomain: "acme", Token: "secret"}

// fetcherFunc adapts a function to the Fetcher interface.
type fetcherFunc func(ctx context.Context, tenant client.Tenant, path string, page int) (*client.Page, error)

func (f fetcherFunc) FetchPage(ctx context.Context, tenant client.Tenant, path string, page int) (*client.Page, error) {
	return f(ctx, tenant, path, page)
}

// pagedFetcher serves a fixed record set split into fixed-size pages and
// records every page number it was asked for.
type pagedFetcher struct {
	records []json.RawMessage
	perPage int
	fetches []int
}

func (f *pagedFetcher) FetchPage(_ context.Context, _ client.Tenant, _ string, page int) (*client.Page, error) {
	f.fetches = append(f.fetches, page)

	pages := (len(f.records) + f.perPage - 1) / f.perPage
	if pages < 1 {
		pages = 1
	}

	start := (page - 1) * f.perPage
	end := start + f.perPage
	if start > len(f.records) {
		start = len(f.records)
	}
	if end > len(f.records) {
		end = len(f.records)
	}

	return &client.Page{Records: f.records[start:end], TotalPages: pages}, nil
}

func makeRecords(n int) []json.RawMessage {
	records := make([]json.RawMessage, n)
	for i := range records {
		records[i] = json.RawMessage(fmt.Sprintf(`{"id": %d}`, i+1))
	}
	return records
}

func TestCollect_Exhaustive(t *testing.T) {
	// The canonical scenario: "items" with 3 pages of 2 records each.
	fetcher := &pagedFetcher{records: makeRecords(6), perPage: 2}
	p := New(fetcher)

	records, err := p.Collect(context.Background(), testTenant, "items")
	require.NoError(t, err)

	require.Len(t, records, 6)
	for i, record := range records {
		assert.JSONEq(t, fmt.Sprintf(`{"id": %d}`, i+1), string(record))
	}
	assert.Equal(t, []int{1, 2, 3}, fetcher.fetches)
}

func TestCollect_SinglePage(t *testing.T) {
	fetcher := &pagedFetcher{records: makeRecords(2), perPage: 5}
	p := New(fetcher)

	records, err := p.Collect(context.Background(), testTenant, "items")
	require.NoError(t, err)

	assert.Len(t, records, 2)
	assert.Equal(t, []int{1}, fetcher.fetches)
}

func TestEachPage_EmptyCollection(t *testing.T) {
	// The sentinel bound guarantees one fetch even when nothing is there.
	fetcher := &pagedFetcher{records: nil, perPage: 2}
	p := New(fetcher)

	callbacks := 0
	err := p.EachPage(context.Background(), testTenant, "items", func(records []json.RawMessage, cursor Cursor) (bool, error) {
		callbacks++
		assert.Empty(t, records)
		assert.Equal(t, 1, cursor.Page)
		return false, nil
	})
	require.NoError(t, err)

	assert.Equal(t, 1, callbacks)
	assert.Equal(t, []int{1}, fetcher.fetches)
}

func TestEachPage_StopHaltsFetching(t *testing.T) {
	fetcher := &pagedFetcher{records: makeRecords(6), perPage: 2}
	p := New(fetcher)

	pagesSeen := 0
	err := p.EachPage(context.Background(), testTenant, "items", func(records []json.RawMessage, cursor Cursor) (bool, error) {
		pagesSeen++
		return true, nil
	})
	require.NoError(t, err)

	assert.Equal(t, 1, pagesSeen)
	assert.Equal(t, []int{1}, fetcher.fetches, "no fetch may follow a stop")
}

func TestEachPage_CursorDescribesPage(t *testing.T) {
	fetcher := &pagedFetcher{records: makeRecords(4), perPage: 2}
	p := New(fetcher)

	var cursors []Cursor
	err := p.EachPage(context.Background(), testTenant, "items", func(_ []json.RawMessage, cursor Cursor) (bool, error) {
		cursors = append(cursors, cursor)
		return false, nil
	})
	require.NoError(t, err)

	require.Len(t, cursors, 2)
	assert.Equal(t, Cursor{Subdomain: "acme", Path: "items", Page: 1}, cursors[0])
	assert.Equal(t, Cursor{Subdomain: "acme", Path: "items", Page: 2}, cursors[1])
}

func TestEachRecord_Order(t *testing.T) {
	fetcher := &pagedFetcher{records: makeRecords(5), perPage: 2}
	p := New(fetcher)

	var ids []int
	err := p.EachRecord(context.Background(), testTenant, "items", func(record json.RawMessage) (bool, error) {
		var item struct {
			ID int `json:"id"`
		}
		require.NoError(t, json.Unmarshal(record, &item))
		ids = append(ids, item.ID)
		return false, nil
	})
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3, 4, 5}, ids)
}

func TestEachRecord_CancellationPrecision(t *testing.T) {
	// Stopping on the 4th record must deliver exactly 4 records and fetch
	// no page beyond the one that contained it.
	fetcher := &pagedFetcher{records: makeRecords(6), perPage: 2}
	p := New(fetcher)

	delivered := 0
	err := p.EachRecord(context.Background(), testTenant, "items", func(record json.RawMessage) (bool, error) {
		delivered++
		return delivered == 4, nil
	})
	require.NoError(t, err)

	assert.Equal(t, 4, delivered)
	assert.Equal(t, []int{1, 2}, fetcher.fetches)
}

func TestEachRecord_MidPageStopSkipsRest(t *testing.T) {
	fetcher := &pagedFetcher{records: makeRecords(6), perPage: 3}
	p := New(fetcher)

	delivered := 0
	err := p.EachRecord(context.Background(), testTenant, "items", func(record json.RawMessage) (bool, error) {
		delivered++
		return delivered == 2, nil
	})
	require.NoError(t, err)

	assert.Equal(t, 2, delivered, "remaining records of the page must not be visited")
	assert.Equal(t, []int{1}, fetcher.fetches)
}

func TestEachPage_ShrinkingPageCount(t *testing.T) {
	// The reported total drops from 3 to 1 after the first fetch; the
	// iteration must end after page 2 instead of chasing the stale bound.
	var fetches []int
	fetcher := fetcherFunc(func(_ context.Context, _ client.Tenant, _ string, page int) (*client.Page, error) {
		fetches = append(fetches, page)
		total := 3
		if page > 1 {
			total = 1
		}
		return &client.Page{Records: makeRecords(1), TotalPages: total}, nil
	})

	err := New(fetcher).EachPage(context.Background(), testTenant, "items", func([]json.RawMessage, Cursor) (bool, error) {
		return false, nil
	})
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2}, fetches)
}

func TestEachPage_GrowingPageCount(t *testing.T) {
	var fetches []int
	fetcher := fetcherFunc(func(_ context.Context, _ client.Tenant, _ string, page int) (*client.Page, error) {
		fetches = append(fetches, page)
		total := 2
		if page >= 2 {
			total = 3
		}
		return &client.Page{Records: makeRecords(1), TotalPages: total}, nil
	})

	err := New(fetcher).EachPage(context.Background(), testTenant, "items", func([]json.RawMessage, Cursor) (bool, error) {
		return false, nil
	})
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3}, fetches)
}

func TestEachPage_FetchErrorAborts(t *testing.T) {
	fetchErr := errors.New("boom")
	calls := 0
	fetcher := fetcherFunc(func(_ context.Context, _ client.Tenant, _ string, page int) (*client.Page, error) {
		calls++
		if page == 2 {
			return nil, fetchErr
		}
		return &client.Page{Records: makeRecords(1), TotalPages: 3}, nil
	})

	pagesSeen := 0
	err := New(fetcher).EachPage(context.Background(), testTenant, "items", func([]json.RawMessage, Cursor) (bool, error) {
		pagesSeen++
		return false, nil
	})

	require.ErrorIs(t, err, fetchErr)
	assert.Equal(t, 1, pagesSeen)
	assert.Equal(t, 2, calls)
}

func TestEachRecord_CallbackErrorPropagates(t *testing.T) {
	fetcher := &pagedFetcher{records: makeRecords(4), perPage: 2}
	p := New(fetcher)

	callbackErr := errors.New("consumer failed")
	delivered := 0
	err := p.EachRecord(context.Background(), testTenant, "items", func(json.RawMessage) (bool, error) {
		delivered++
		if delivered == 3 {
			return false, callbackErr
		}
		return false, nil
	})

	require.ErrorIs(t, err, callbackErr)
	assert.Equal(t, 3, delivered)
	assert.Equal(t, []int{1, 2}, fetcher.fetches)
}

func TestEachPage_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	fetcher := fetcherFunc(func(_ context.Context, _ client.Tenant, _ string, page int) (*client.Page, error) {
		return &client.Page{Records: makeRecords(1), TotalPages: 5}, nil
	})

	pagesSeen := 0
	err := New(fetcher).EachPage(ctx, testTenant, "items", func([]json.RawMessage, Cursor) (bool, error) {
		pagesSeen++
		cancel()
		return false, nil
	})

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, pagesSeen)
}
