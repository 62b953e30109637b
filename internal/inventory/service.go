// Package inventory owns the product catalog and stock mutation.
package inventory

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/kumbu-pos/kumbu-pos/internal/domain"
	"github.com/kumbu-pos/kumbu-pos/internal/shared"
	"github.com/kumbu-pos/kumbu-pos/internal/state"
)

// Ledger coordinates product operations against the shared state.
type Ledger struct {
	state  *state.State
	logger *slog.Logger
}

// NewLedger builds Ledger.
func NewLedger(st *state.State, logger *slog.Logger) *Ledger {
	return &Ledger{state: st, logger: logger}
}

// AddProduct appends a product to the catalog. A missing ID is assigned;
// ID collisions are the caller's responsibility to avoid.
func (l *Ledger) AddProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	if strings.TrimSpace(p.Name) == "" {
		return domain.Product{}, shared.NewValidationError(shared.ErrMissingField, "product name is required")
	}
	if p.Price < 0 {
		return domain.Product{}, shared.NewValidationError(shared.ErrInvalidPrice, "got %v", p.Price)
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Category == "" {
		p.Category = domain.CategoryOutros
	}

	l.state.Lock()
	defer l.state.Unlock()
	l.state.Products = append(l.state.Products, p)
	l.state.SaveProducts(ctx)
	return p, nil
}

// AdjustStock adds delta to the product's stock. An unknown id is a logged
// no-op. The full catalog is persisted afterwards.
func (l *Ledger) AdjustStock(ctx context.Context, productID string, delta int) {
	l.state.Lock()
	defer l.state.Unlock()
	found := false
	for i := range l.state.Products {
		if l.state.Products[i].ID == productID {
			l.state.Products[i].Stock += delta
			found = true
		}
	}
	if !found {
		l.logger.Warn("adjust stock for unknown product", slog.String("product", productID))
	}
	l.state.SaveProducts(ctx)
}

// DeleteProduct removes the product and strips any cart lines that
// reference it, so the cart never points at a nonexistent product.
// Historical sales keep the id.
func (l *Ledger) DeleteProduct(ctx context.Context, productID string) {
	l.state.Lock()
	defer l.state.Unlock()

	products := l.state.Products[:0]
	for _, p := range l.state.Products {
		if p.ID != productID {
			products = append(products, p)
		}
	}
	l.state.Products = products

	cart := l.state.Cart[:0]
	for _, item := range l.state.Cart {
		if item.ProductID != productID {
			cart = append(cart, item)
		}
	}
	l.state.Cart = cart

	l.state.SaveProducts(ctx)
	l.state.SaveCart(ctx)
}

// List returns a copy of the catalog.
func (l *Ledger) List(_ context.Context) []domain.Product {
	l.state.Lock()
	defer l.state.Unlock()
	out := make([]domain.Product, len(l.state.Products))
	copy(out, l.state.Products)
	return out
}

// Get looks a product up by id. ok is false when it no longer exists;
// callers degrade to a placeholder rather than failing.
func (l *Ledger) Get(_ context.Context, productID string) (domain.Product, bool) {
	l.state.Lock()
	defer l.state.Unlock()
	for _, p := range l.state.Products {
		if p.ID == productID {
			return p, true
		}
	}
	return domain.Product{}, false
}
