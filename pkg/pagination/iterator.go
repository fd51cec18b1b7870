package pagination

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/retailkit/springboard-client/pkg/client"
	"github.com/retailkit/springboard-client/pkg/logging"
)

// Fetcher is the interface the underlying client must implement for
// single-page fetching. *client.Client satisfies it.
type Fetcher interface {
	// FetchPage fetches one page of the collection at path.
	FetchPage(ctx context.Context, tenant client.Tenant, path string, page int) (*client.Page, error)
}

// PageFunc is invoked once per fetched page, with the page's records and a
// cursor naming the page just delivered. Returning stop=true terminates the
// iteration before the next fetch; returning an error aborts it.
type PageFunc func(records []json.RawMessage, cursor Cursor) (stop bool, err error)

// RecordFunc is invoked once per record in visitation order: page order,
// then position within the page. Returning stop=true terminates the
// iteration; remaining records on the current page are not visited.
type RecordFunc func(record json.RawMessage) (stop bool, err error)

// Paginator drives sequential iteration over paginated collections.
type Paginator struct {
	fetcher Fetcher
	logger  zerolog.Logger
}

// New creates a Paginator on top of a page fetcher.
func New(fetcher Fetcher) *Paginator {
	return &Paginator{
		fetcher: fetcher,
		logger:  logging.NewLogger("pagination"),
	}
}

// EachPage fetches pages starting at 1 and invokes fn once per page.
//
// The loop bound is re-read from every response: totalPages starts at a
// sentinel of 1 so even an empty collection is fetched once, and each fetch
// replaces it with the count the server reported. Already-visited pages are
// never re-fetched; only the remaining bound adapts. Any fetch or callback
// error aborts the iteration and propagates unchanged.
func (p *Paginator) EachPage(ctx context.Context, tenant client.Tenant, path string, fn PageFunc) error {
	currentPage := 0
	totalPages := 1

	for currentPage < totalPages {
		if err := ctx.Err(); err != nil {
			return err
		}

		currentPage++
		page, err := p.fetcher.FetchPage(ctx, tenant, path, currentPage)
		if err != nil {
			return err
		}
		totalPages = page.TotalPages

		stop, err := fn(page.Records, Cursor{
			Subdomain: tenant.Subdomain,
			Path:      path,
			Page:      currentPage,
		})
		if err != nil {
			return err
		}
		if stop {
			p.logger.Debug().
				Str("path", path).
				Int("page", currentPage).
				Msg("Iteration stopped by consumer")
			return nil
		}
	}

	p.logger.Debug().
		Str("path", path).
		Int("pages", currentPage).
		Msg("Iteration exhausted collection")

	return nil
}

// EachRecord fetches pages sequentially and invokes fn once per record.
// A stop requested for one record skips the rest of its page and halts
// further page fetches.
func (p *Paginator) EachRecord(ctx context.Context, tenant client.Tenant, path string, fn RecordFunc) error {
	return p.EachPage(ctx, tenant, path, func(records []json.RawMessage, _ Cursor) (bool, error) {
		for _, record := range records {
			stop, err := fn(record)
			if err != nil {
				return false, err
			}
			if stop {
				return true, nil
			}
		}
		return false, nil
	})
}

// Collect drains the whole collection into memory and returns the records
// in visitation order. Intended for collections known to be small; nothing
// bounds the result size.
func (p *Paginator) Collect(ctx context.Context, tenant client.Tenant, path string) ([]json.RawMessage, error) {
	var records []json.RawMessage
	err := p.EachRecord(ctx, tenant, path, func(record json.RawMessage) (bool, error) {
		records = append(records, record)
		return false, nil
	})
	if err != nil {
		return nil, err
	}

	p.logger.Info().
		Str("subdomain", tenant.Subdomain).
		Str("path", path).
		Int("records", len(records)).
		Msg("Collection drained")

	return records, nil
}
