package taxexport

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kumbu-pos/kumbu-pos/internal/domain"
)

func TestCompanyFromMerchant(t *testing.T) {
	company := CompanyFromMerchant(domain.Merchant{
		Name:      "João Luís",
		StoreName: "Loja Central",
		Phone:     "244999123456",
		City:      "Luanda",
	})
	require.Equal(t, "Loja Central", company.Name)
	require.Equal(t, "244999123456", company.Telephone)
	require.Equal(t, "Luanda", company.Municipality)
}

func TestInvoicesFromHistory(t *testing.T) {
	history := []domain.Invoice{
		{
			Sale: domain.Sale{
				ClientID: "c1",
				Items:    []domain.CartItem{{ProductID: "p1", Quantity: 3, Price: 100}},
				Date:     "2025-06-15T12:00:00Z",
			},
			InvoiceNumber: "INV-2025-0001",
		},
		{
			Sale:          domain.Sale{ClientID: "c2", Date: "not-a-date"},
			InvoiceNumber: "INV-2025-0002",
		},
	}

	out := InvoicesFromHistory(history)
	require.Len(t, out, 2)

	require.Equal(t, "INV-2025-0001", out[0].Number)
	require.Equal(t, "2025-06-15", out[0].Date)
	require.Equal(t, domain.Currency, out[0].Currency)
	require.Len(t, out[0].Lines, 1)
	require.Equal(t, 3.0, out[0].Lines[0].Quantity)
	require.Equal(t, 100.0, out[0].Lines[0].UnitPrice)
	// Empty tax code defers to the product default at generation time.
	require.Empty(t, out[0].Lines[0].TaxCode)

	// Unparseable dates pass through untouched.
	require.Equal(t, "not-a-date", out[1].Date)
}
