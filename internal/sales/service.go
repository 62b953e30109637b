// Package sales implements the sale completion engine: it turns the staged
// cart into an immutable Sale and its numbered Invoice.
package sales

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kumbu-pos/kumbu-pos/internal/domain"
	"github.com/kumbu-pos/kumbu-pos/internal/shared"
	"github.com/kumbu-pos/kumbu-pos/internal/state"
)

// RendererPort abstracts the document renderer.
type RendererPort interface {
	Render(inv domain.Invoice, client domain.Client, merchant domain.Merchant, catalog []domain.Product) ([]byte, error)
}

// Engine orchestrates sale completion.
type Engine struct {
	state         *state.State
	renderer      RendererPort
	logger        *slog.Logger
	renderTimeout time.Duration

	// Now is the clock used for sale timestamps and invoice years.
	// Overridable in tests.
	Now func() time.Time
}

// NewEngine builds Engine. renderTimeout bounds document rendering; expiry
// is treated as a render failure, not a sale failure.
func NewEngine(st *state.State, renderer RendererPort, logger *slog.Logger, renderTimeout time.Duration) *Engine {
	if renderTimeout <= 0 {
		renderTimeout = 10 * time.Second
	}
	return &Engine{
		state:         st,
		renderer:      renderer,
		logger:        logger,
		renderTimeout: renderTimeout,
		Now:           time.Now,
	}
}

// CompleteSale validates preconditions, resolves the client (preferring the
// directly supplied record, which covers walk-ins created in the same
// transaction), allocates the next invoice number, snapshots the cart into a
// Sale and derived Invoice, renders the document best-effort and commits
// both records. Exactly one Sale and one Invoice are appended per
// successful call; the caller decides when to clear the cart.
func (e *Engine) CompleteSale(ctx context.Context, clientID string, total, tax float64, direct *domain.Client) (*domain.Invoice, error) {
	e.state.Lock()
	defer e.state.Unlock()

	if e.state.Merchant == nil {
		return nil, shared.ErrNoMerchant
	}
	if len(e.state.Cart) == 0 {
		return nil, shared.NewValidationError(shared.ErrEmptyCart, "nothing to sell")
	}

	target, err := e.resolveClient(ctx, clientID, direct)
	if err != nil {
		return nil, err
	}

	now := e.Now()
	number := e.allocateNumber(ctx, now)

	items := make([]domain.CartItem, len(e.state.Cart))
	copy(items, e.state.Cart)

	sale := domain.Sale{
		ID:       uuid.NewString(),
		ClientID: target.ID,
		Items:    items,
		Total:    total,
		Tax:      tax,
		Date:     now.UTC().Format(time.RFC3339),
	}
	inv := domain.Invoice{Sale: sale, InvoiceNumber: number}

	doc, err := e.renderBounded(ctx, inv, target)
	if err != nil {
		// The sale must never be lost to a rendering failure; commit without
		// a document and leave regeneration to the backfill job.
		e.logger.Error("render invoice document", slog.String("invoice", number), slog.Any("error", err))
	} else {
		inv.DocumentDataURL = DocumentDataURL(doc)
	}

	e.state.Sales = append(e.state.Sales, sale)
	e.state.Invoices = append(e.state.Invoices, inv)
	e.state.SaveSales(ctx)
	e.state.SaveInvoices(ctx)

	return &inv, nil
}

// resolveClient prefers the supplied record, inserting it into the ledger
// when unknown. A walk-in record without an id gets one assigned, so two
// distinct walk-ins never collapse into the same ledger entry. Caller holds
// the state lock.
func (e *Engine) resolveClient(ctx context.Context, clientID string, direct *domain.Client) (domain.Client, error) {
	if direct != nil {
		target := *direct
		if target.ID == "" {
			target.ID = uuid.NewString()
		}
		for _, c := range e.state.Clients {
			if c.ID == target.ID {
				return target, nil
			}
		}
		e.state.Clients = append(e.state.Clients, target)
		e.state.SaveClients(ctx)
		return target, nil
	}
	for _, c := range e.state.Clients {
		if c.ID == clientID {
			return c, nil
		}
	}
	return domain.Client{}, fmt.Errorf("%w: %s", shared.ErrClientUnresolved, clientID)
}

// allocateNumber advances the durable counter and persists it before the
// sale is built, so a crash cannot reissue a number. The counter resets on
// year rollover. Caller holds the state lock.
func (e *Engine) allocateNumber(ctx context.Context, now time.Time) string {
	year := now.Year()
	if e.state.Counter.Year != year {
		e.state.Counter = domain.InvoiceCounter{Year: year}
	}
	e.state.Counter.Seq++
	e.state.SaveCounter(ctx)
	return fmt.Sprintf("INV-%d-%04d", year, e.state.Counter.Seq)
}

// renderBounded runs the renderer under the configured timeout. A hung or
// slow render degrades to the no-document path.
func (e *Engine) renderBounded(ctx context.Context, inv domain.Invoice, client domain.Client) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, e.renderTimeout)
	defer cancel()

	type result struct {
		doc []byte
		err error
	}
	done := make(chan result, 1)
	catalog := make([]domain.Product, len(e.state.Products))
	copy(catalog, e.state.Products)
	merchant := *e.state.Merchant

	go func() {
		doc, err := e.renderer.Render(inv, client, merchant, catalog)
		done <- result{doc: doc, err: err}
	}()

	select {
	case r := <-done:
		return r.doc, r.err
	case <-ctx.Done():
		return nil, fmt.Errorf("render timed out: %w", ctx.Err())
	}
}

// RegenerateDocument re-renders the document for an existing invoice
// without changing its number. A deleted client degrades to a placeholder.
func (e *Engine) RegenerateDocument(ctx context.Context, invoiceNumber string) error {
	e.state.Lock()
	defer e.state.Unlock()

	if e.state.Merchant == nil {
		return shared.ErrNoMerchant
	}

	for i := range e.state.Invoices {
		inv := e.state.Invoices[i]
		if inv.InvoiceNumber != invoiceNumber {
			continue
		}
		client := domain.Client{Name: "Cliente desconhecido"}
		for _, c := range e.state.Clients {
			if c.ID == inv.ClientID {
				client = c
				break
			}
		}
		doc, err := e.renderBounded(ctx, inv, client)
		if err != nil {
			return fmt.Errorf("regenerate %s: %w", invoiceNumber, err)
		}
		e.state.Invoices[i].DocumentDataURL = DocumentDataURL(doc)
		e.state.SaveInvoices(ctx)
		return nil
	}
	return fmt.Errorf("invoice %s: %w", invoiceNumber, shared.ErrNotFound)
}

// ListSales returns a copy of the sale history.
func (e *Engine) ListSales(_ context.Context) []domain.Sale {
	e.state.Lock()
	defer e.state.Unlock()
	out := make([]domain.Sale, len(e.state.Sales))
	copy(out, e.state.Sales)
	return out
}

// ListInvoices returns a copy of the invoice collection.
func (e *Engine) ListInvoices(_ context.Context) []domain.Invoice {
	e.state.Lock()
	defer e.state.Unlock()
	out := make([]domain.Invoice, len(e.state.Invoices))
	copy(out, e.state.Invoices)
	return out
}

// GetInvoice looks an invoice up by number.
func (e *Engine) GetInvoice(_ context.Context, number string) (domain.Invoice, bool) {
	e.state.Lock()
	defer e.state.Unlock()
	for _, inv := range e.state.Invoices {
		if inv.InvoiceNumber == number {
			return inv, true
		}
	}
	return domain.Invoice{}, false
}

// DocumentDataURL encodes a rendered document as an embeddable data URL.
func DocumentDataURL(doc []byte) string {
	return "data:text/html;base64," + base64.StdEncoding.EncodeToString(doc)
}

// DecodeDocument reverses DocumentDataURL.
func DecodeDocument(dataURL string) ([]byte, error) {
	const prefix = "data:text/html;base64,"
	if len(dataURL) < len(prefix) || dataURL[:len(prefix)] != prefix {
		return nil, fmt.Errorf("unexpected document encoding")
	}
	return base64.StdEncoding.DecodeString(dataURL[len(prefix):])
}
