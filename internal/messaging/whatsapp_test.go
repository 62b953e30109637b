package messaging

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizePhone(t *testing.T) {
	require.Equal(t, "244923000111", NormalizePhone("923000111"))
	require.Equal(t, "244923000111", NormalizePhone("244923000111"))
	require.Equal(t, "244923000111", NormalizePhone("  923000111 "))
}

func TestWhatsAppLink(t *testing.T) {
	link := WhatsAppLink("923000111", "Olá Maria, a sua fatura")
	require.Equal(t, "https://wa.me/244923000111?text=Ol%C3%A1+Maria%2C+a+sua+fatura", link)
}

func TestInvoiceMessage(t *testing.T) {
	msg := InvoiceMessage("Maria", "INV-2025-0007", "570.00", "Loja Central")
	require.Contains(t, msg, "Olá Maria")
	require.Contains(t, msg, "INV-2025-0007")
	require.Contains(t, msg, "570.00 AOA")
	require.Contains(t, msg, "Loja Central")
}

func TestPendingReminderMessage(t *testing.T) {
	msg := PendingReminderMessage("Maria", "15000.00", "Loja Central")
	require.Contains(t, msg, "valor pendente de 15000.00 AOA")
	require.Contains(t, msg, "Loja Central")
}
