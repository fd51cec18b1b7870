// Package pagination provides sequential iteration over page-numbered
// Springboard collections.
//
// Springboard reports the total page count in every response, and the count
// is advisory only: the collection may grow or shrink while it is being
// iterated. The iterator therefore re-reads the bound from every fetch
// rather than trusting an initial estimate. Pages are fetched strictly one
// at a time, and no fetch overlaps a running callback.
//
// Example usage:
//
//	p := pagination.New(client.New(client.DefaultConfig()))
//	err := p.EachRecord(ctx, tenant, "items", func(rec json.RawMessage) (bool, error) {
//		var item Item
//		if err := json.Unmarshal(rec, &item); err != nil {
//			return false, err
//		}
//		return item.ID == wanted, nil // stop once found
//	})
//
// Callbacks signal early termination by returning stop=true; the stop
// propagates from the record level to the page level and halts further
// fetches. Records already delivered are never revisited.
//
// For pull-based access, FirstPage and Page expose one page at a time
// together with a serializable Cursor, so a caller can persist the cursor
// and resume the walk later, even from another process.
package pagination
