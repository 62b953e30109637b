// Package store provides the durable key/value persistence port and its
// file and Redis backends. One serialized collection per key, fully
// overwritten on every save; there is no update-in-place primitive.
package store

import "context"

// Collection keys. Each holds one JSON document.
const (
	KeyProducts   = "products"
	KeyClients    = "clients"
	KeyCart       = "cart"
	KeySales      = "sales"
	KeyInvoices   = "invoices"
	KeyMerchant   = "merchant"
	KeyInvoiceSeq = "invoice_seq"
)

// Store is the persistence port. Load reports found=false when the key is
// absent or its payload cannot be decoded, so callers keep their default.
// Save failures are surfaced for logging but must never abort the mutation
// that triggered them.
type Store interface {
	Load(ctx context.Context, key string, dest any) (found bool, err error)
	Save(ctx context.Context, key string, value any) error
}
