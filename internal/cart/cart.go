// Package cart implements the reservation cart that stages a pending sale.
// Stock is reserved the moment a line is added and released only by an
// explicit remove or abandon; clearing after a successful sale makes the
// reservation permanent.
package cart

import (
	"context"
	"log/slog"

	"github.com/kumbu-pos/kumbu-pos/internal/domain"
	"github.com/kumbu-pos/kumbu-pos/internal/shared"
	"github.com/kumbu-pos/kumbu-pos/internal/state"
)

// Advisory is the non-blocking low-stock signal raised by AddItem.
// Critical means the product was already under the threshold before the add.
type Advisory struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Remaining int    `json:"remaining"`
	Critical  bool   `json:"critical"`
}

// Cart stages line items against the shared state.
type Cart struct {
	state  *state.State
	logger *slog.Logger
}

// New builds Cart.
func New(st *state.State, logger *slog.Logger) *Cart {
	return &Cart{state: st, logger: logger}
}

// AddItem validates quantity against current stock, merges into an existing
// line (keeping its captured price) or appends a new one at the product's
// current price, and immediately decrements the product's stock. The
// returned Advisory is nil unless the remaining stock falls under the
// threshold; it never blocks the add.
func (c *Cart) AddItem(ctx context.Context, productID string, quantity int) (*Advisory, error) {
	if quantity <= 0 {
		return nil, shared.NewValidationError(shared.ErrInvalidQuantity, "got %d", quantity)
	}

	c.state.Lock()
	defer c.state.Unlock()

	var product *domain.Product
	for i := range c.state.Products {
		if c.state.Products[i].ID == productID {
			product = &c.state.Products[i]
			break
		}
	}
	if product == nil {
		return nil, shared.NewValidationError(shared.ErrNotFound, "product %s", productID)
	}
	if quantity > product.Stock {
		return nil, shared.NewValidationError(shared.ErrInsufficientStock,
			"only %d units of %q in stock", product.Stock, product.Name)
	}

	wasCritical := product.Stock < domain.LowStockThreshold

	merged := false
	for i := range c.state.Cart {
		if c.state.Cart[i].ProductID == productID {
			c.state.Cart[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		c.state.Cart = append(c.state.Cart, domain.CartItem{
			ProductID: productID,
			Quantity:  quantity,
			Price:     product.Price,
		})
	}

	product.Stock -= quantity
	c.state.SaveCart(ctx)
	c.state.SaveProducts(ctx)

	if remaining := product.Stock; remaining < domain.LowStockThreshold {
		c.logger.Warn("low stock after reservation",
			slog.String("product", productID),
			slog.Int("remaining", remaining))
		return &Advisory{
			ProductID: productID,
			Name:      product.Name,
			Remaining: remaining,
			Critical:  wasCritical,
		}, nil
	}
	return nil, nil
}

// RemoveItem drops the line and restores its reserved quantity to stock.
// Removing an absent line is a no-op.
func (c *Cart) RemoveItem(ctx context.Context, productID string) {
	c.state.Lock()
	defer c.state.Unlock()

	out := c.state.Cart[:0]
	restored := 0
	for _, item := range c.state.Cart {
		if item.ProductID == productID {
			restored = item.Quantity
			continue
		}
		out = append(out, item)
	}
	c.state.Cart = out

	if restored > 0 {
		for i := range c.state.Products {
			if c.state.Products[i].ID == productID {
				c.state.Products[i].Stock += restored
			}
		}
	}
	c.state.SaveCart(ctx)
	c.state.SaveProducts(ctx)
}

// Clear empties the cart without restoring stock. This is the post-sale
// path: the reservation has become a sale.
func (c *Cart) Clear(ctx context.Context) {
	c.state.Lock()
	defer c.state.Unlock()
	c.state.Cart = []domain.CartItem{}
	c.state.SaveCart(ctx)
}

// Abandon empties the cart and releases every reservation back to stock.
// This is the walk-away path; products deleted since the add are skipped.
func (c *Cart) Abandon(ctx context.Context) {
	c.state.Lock()
	defer c.state.Unlock()
	for _, item := range c.state.Cart {
		for i := range c.state.Products {
			if c.state.Products[i].ID == item.ProductID {
				c.state.Products[i].Stock += item.Quantity
			}
		}
	}
	c.state.Cart = []domain.CartItem{}
	c.state.SaveCart(ctx)
	c.state.SaveProducts(ctx)
}

// Items returns a copy of the current lines.
func (c *Cart) Items(_ context.Context) []domain.CartItem {
	c.state.Lock()
	defer c.state.Unlock()
	out := make([]domain.CartItem, len(c.state.Cart))
	copy(out, c.state.Cart)
	return out
}

// Totals computes subtotal, tax and tax-inclusive total from the captured
// line prices.
func (c *Cart) Totals(_ context.Context) (subtotal, tax, total float64) {
	c.state.Lock()
	defer c.state.Unlock()
	for _, item := range c.state.Cart {
		subtotal += float64(item.Quantity) * item.Price
	}
	tax = subtotal * domain.IVARate
	total = subtotal + tax
	return subtotal, tax, total
}
