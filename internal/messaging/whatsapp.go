// Package messaging builds WhatsApp deep links for invoice and payment
// reminders. The link mechanism cannot embed attachments; sending the
// rendered document remains a manual step.
package messaging

import (
	"fmt"
	"net/url"
	"strings"
)

// countryCode is prefixed to numbers that lack it (Angola).
const countryCode = "244"

// NormalizePhone prefixes the country code when absent.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if strings.HasPrefix(phone, countryCode) {
		return phone
	}
	return countryCode + phone
}

// WhatsAppLink produces a wa.me deep link pre-filled with message.
func WhatsAppLink(phone, message string) string {
	return fmt.Sprintf("https://wa.me/%s?text=%s", NormalizePhone(phone), url.QueryEscape(message))
}

// InvoiceMessage is the invoice-ready template.
func InvoiceMessage(clientName, invoiceNumber, total, storeName string) string {
	return fmt.Sprintf("Olá %s,\n\nA sua fatura Nº %s no valor de %s AOA está pronta.\n\nAtenciosamente,\n%s",
		clientName, invoiceNumber, total, storeName)
}

// PendingReminderMessage is the pending-balance reminder template.
func PendingReminderMessage(clientName, pendingAmount, storeName string) string {
	return fmt.Sprintf("Olá %s,\n\nGostaríamos de lembrar que tem um valor pendente de %s AOA.\n\nPor favor, entre em contacto para regularizar.\n\nObrigado,\n%s",
		clientName, pendingAmount, storeName)
}
