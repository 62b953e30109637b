// Package backup exports and restores the six persisted collections as one
// JSON document. Import is destructive and replaces everything wholesale;
// the caller gates it behind explicit user confirmation.
package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kumbu-pos/kumbu-pos/internal/domain"
	"github.com/kumbu-pos/kumbu-pos/internal/shared"
	"github.com/kumbu-pos/kumbu-pos/internal/state"
)

// Archive is the backup document layout.
type Archive struct {
	ExportedAt string            `json:"exportedAt"`
	Products   []domain.Product  `json:"products"`
	Clients    []domain.Client   `json:"clients"`
	Cart       []domain.CartItem `json:"cart"`
	Sales      []domain.Sale     `json:"sales"`
	Invoices   []domain.Invoice  `json:"invoices"`
	Merchant   *domain.Merchant  `json:"merchant"`
}

// Export serializes the current state.
func Export(_ context.Context, st *state.State, now time.Time) ([]byte, error) {
	st.Lock()
	defer st.Unlock()

	archive := Archive{
		ExportedAt: now.UTC().Format(time.RFC3339),
		Products:   st.Products,
		Clients:    st.Clients,
		Cart:       st.Cart,
		Sales:      st.Sales,
		Invoices:   st.Invoices,
		Merchant:   st.Merchant,
	}
	data, err := json.MarshalIndent(archive, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode backup: %w", err)
	}
	return data, nil
}

// Import replaces all six collections with the archive's contents and
// persists each of them.
func Import(ctx context.Context, st *state.State, data []byte) error {
	var archive Archive
	if err := json.Unmarshal(data, &archive); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidBackup, err)
	}
	if archive.Products == nil || archive.Clients == nil {
		return shared.ErrInvalidBackup
	}
	if archive.Cart == nil {
		archive.Cart = []domain.CartItem{}
	}
	if archive.Sales == nil {
		archive.Sales = []domain.Sale{}
	}
	if archive.Invoices == nil {
		archive.Invoices = []domain.Invoice{}
	}

	st.Lock()
	defer st.Unlock()

	st.Products = archive.Products
	st.Clients = archive.Clients
	st.Cart = archive.Cart
	st.Sales = archive.Sales
	st.Invoices = archive.Invoices
	st.Merchant = archive.Merchant

	st.SaveProducts(ctx)
	st.SaveClients(ctx)
	st.SaveCart(ctx)
	st.SaveSales(ctx)
	st.SaveInvoices(ctx)
	st.SaveMerchant(ctx)
	return nil
}
