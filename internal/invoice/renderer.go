// Package invoice renders an invoice into a printable HTML document.
// Rendering is pure: identical inputs produce identical bytes, and the date
// printed is the one recorded on the invoice, never the wall clock.
package invoice

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/kumbu-pos/kumbu-pos/internal/domain"
)

// Renderer lays out invoice documents.
type Renderer struct {
	tmpl    *template.Template
	printer *message.Printer
}

// NewRenderer parses the document template once.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("invoice").Parse(documentTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse invoice template: %w", err)
	}
	return &Renderer{
		tmpl:    tmpl,
		printer: message.NewPrinter(language.Portuguese),
	}, nil
}

type lineView struct {
	Name      string
	Quantity  int
	UnitPrice string
	LineTotal string
}

type documentView struct {
	Number    string
	Date      string
	Merchant  domain.Merchant
	Client    domain.Client
	Lines     []lineView
	Subtotal  string
	TaxLabel  string
	Tax       string
	Total     string
}

// money formats an amount with the Portuguese locale and the AOA suffix.
func (r *Renderer) money(amount float64) string {
	return r.printer.Sprintf("%v %s", number.Decimal(amount, number.Scale(2)), domain.Currency)
}

// Render produces the printable document. Product names are resolved via the
// catalog; lines whose product no longer exists are skipped, never an error.
func (r *Renderer) Render(inv domain.Invoice, client domain.Client, merchant domain.Merchant, catalog []domain.Product) ([]byte, error) {
	byID := make(map[string]domain.Product, len(catalog))
	for _, p := range catalog {
		byID[p.ID] = p
	}

	lines := make([]lineView, 0, len(inv.Items))
	for _, item := range inv.Items {
		product, ok := byID[item.ProductID]
		if !ok {
			continue
		}
		lines = append(lines, lineView{
			Name:      product.Name,
			Quantity:  item.Quantity,
			UnitPrice: r.money(item.Price),
			LineTotal: r.money(float64(item.Quantity) * item.Price),
		})
	}

	date := inv.Date
	if parsed, err := time.Parse(time.RFC3339, inv.Date); err == nil {
		date = parsed.Format("02/01/2006")
	}

	subtotal := inv.Total - inv.Tax
	view := documentView{
		Number:   inv.InvoiceNumber,
		Date:     date,
		Merchant: merchant,
		Client:   client,
		Lines:    lines,
		Subtotal: r.money(subtotal),
		TaxLabel: fmt.Sprintf("IVA (%.0f%%)", domain.IVARate*100),
		Tax:      r.money(inv.Tax),
		Total:    r.money(inv.Total),
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("render invoice %s: %w", inv.InvoiceNumber, err)
	}
	return buf.Bytes(), nil
}
