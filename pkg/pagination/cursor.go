package pagination

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/retailkit/springboard-client/pkg/client"
)

// Cursor names one page of one collection on one tenant. It is a plain
// value with no reference to iteration state, so it can be serialized,
// stored, and fed back in later, including from another process. A cursor
// is only valid against a tenant whose subdomain matches its own.
type Cursor struct {
	Subdomain string `json:"subdomain"`
	Path      string `json:"path"`
	Page      int    `json:"page"`
}

// PageResult is one fetched page together with the cursor for the page
// after it. Next is nil when the fetched page was the last one at fetch
// time.
type PageResult struct {
	Records []json.RawMessage
	Next    *Cursor
}

// CursorMismatchError reports a cursor presented against a tenant it does
// not belong to. This is a programming error: it fails fast, before any
// network call, and is never retried.
type CursorMismatchError struct {
	CursorSubdomain string
	TenantSubdomain string
}

// Error implements the error interface.
func (e *CursorMismatchError) Error() string {
	return fmt.Sprintf("cursor for subdomain %q used against tenant %q",
		e.CursorSubdomain, e.TenantSubdomain)
}

// FirstPage fetches page 1 of the collection at path and returns it with
// the cursor for page 2, if one existed at fetch time.
func (p *Paginator) FirstPage(ctx context.Context, tenant client.Tenant, path string) (*PageResult, error) {
	return p.Page(ctx, tenant, Cursor{
		Subdomain: tenant.Subdomain,
		Path:      path,
		Page:      1,
	})
}

// Page fetches the single page named by the cursor. Progression is driven
// entirely by the caller feeding Next back in; no hidden iteration state
// survives the call.
func (p *Paginator) Page(ctx context.Context, tenant client.Tenant, cursor Cursor) (*PageResult, error) {
	if cursor.Subdomain != tenant.Subdomain {
		return nil, &CursorMismatchError{
			CursorSubdomain: cursor.Subdomain,
			TenantSubdomain: tenant.Subdomain,
		}
	}
	if cursor.Page < 1 {
		return nil, fmt.Errorf("invalid cursor page %d", cursor.Page)
	}

	page, err := p.fetcher.FetchPage(ctx, tenant, cursor.Path, cursor.Page)
	if err != nil {
		return nil, err
	}

	var next *Cursor
	if cursor.Page < page.TotalPages {
		n := cursor
		n.Page++
		next = &n
	}

	return &PageResult{Records: page.Records, Next: next}, nil
}
