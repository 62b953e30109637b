package taxexport

import (
	"time"

	"github.com/kumbu-pos/kumbu-pos/internal/domain"
)

// CompanyFromMerchant maps the merchant profile onto the export header.
// The profile has no tax id field yet; the export tolerates the gap.
func CompanyFromMerchant(m domain.Merchant) Company {
	return Company{
		Name:         m.StoreName,
		Telephone:    m.Phone,
		Municipality: m.City,
	}
}

// InvoicesFromHistory converts persisted invoices into export invoices.
// Line tax codes are left empty so the product default applies at
// generation time; dates are reduced to the SAF-T day format.
func InvoicesFromHistory(history []domain.Invoice) []Invoice {
	out := make([]Invoice, 0, len(history))
	for _, inv := range history {
		date := inv.Date
		if parsed, err := time.Parse(time.RFC3339, inv.Date); err == nil {
			date = parsed.Format("2006-01-02")
		}
		lines := make([]Line, 0, len(inv.Items))
		for _, item := range inv.Items {
			lines = append(lines, Line{
				ProductID: item.ProductID,
				Quantity:  float64(item.Quantity),
				UnitPrice: item.Price,
			})
		}
		out = append(out, Invoice{
			Number:   inv.InvoiceNumber,
			Date:     date,
			ClientID: inv.ClientID,
			Currency: domain.Currency,
			Lines:    lines,
		})
	}
	return out
}
