// Package taxexport generates the SAF-T (AO) audit document: company header,
// master files and per-invoice tax totals aggregated by tax code.
package taxexport

import (
	"encoding/xml"
	"fmt"
	"sort"
	"time"

	"github.com/kumbu-pos/kumbu-pos/internal/domain"
)

// Company identifies the reporting merchant in the export header.
type Company struct {
	Name            string
	TaxID           string
	Address         string
	Municipality    string
	Province        string
	Telephone       string
	Email           string
	SoftwareName    string
	SoftwareVersion string
}

// TaxRate defines one tax code, e.g. IVA at 14%.
type TaxRate struct {
	Code        string
	Description string
	Percent     float64
}

// DefaultTaxRates is the rate table used when no custom table is configured.
func DefaultTaxRates() []TaxRate {
	return []TaxRate{{Code: "IVA", Description: "Imposto sobre o Valor Acrescentado", Percent: 14}}
}

// Line is one invoice line as the export sees it. TaxCode may be empty, in
// which case the product's default code applies.
type Line struct {
	ProductID   string
	Description string
	Quantity    float64
	UnitPrice   float64
	TaxCode     string
	Discount    float64
}

// Invoice is the export view of a historical invoice.
type Invoice struct {
	Number   string
	Date     string // YYYY-MM-DD
	ClientID string
	Currency string
	Notes    string
	Lines    []Line
}

type xmlHeader struct {
	CompanyName     string `xml:"CompanyName"`
	TaxID           string `xml:"TaxID"`
	Address         string `xml:"Address"`
	Municipality    string `xml:"Municipality"`
	Province        string `xml:"Province"`
	Telephone       string `xml:"Telephone"`
	Email           string `xml:"Email"`
	SoftwareName    string `xml:"SoftwareName"`
	SoftwareVersion string `xml:"SoftwareVersion"`
	FileDate        string `xml:"FileDate"`
}

type xmlCustomer struct {
	CustomerID   string `xml:"CustomerID"`
	CustomerName string `xml:"CustomerName"`
	Telephone    string `xml:"Telephone"`
	Municipality string `xml:"Municipality"`
}

type xmlProduct struct {
	ProductID          string `xml:"ProductID"`
	ProductDescription string `xml:"ProductDescription"`
	UnitPrice          string `xml:"UnitPrice"`
	UnitOfMeasure      string `xml:"UnitOfMeasure"`
	TaxCode            string `xml:"TaxCode"`
}

type xmlTax struct {
	TaxCode        string `xml:"TaxCode"`
	TaxDescription string `xml:"TaxDescription"`
	TaxPercentage  string `xml:"TaxPercentage"`
}

type xmlLine struct {
	ProductCode        string `xml:"ProductCode"`
	ProductDescription string `xml:"ProductDescription"`
	Quantity           string `xml:"Quantity"`
	UnitPrice          string `xml:"UnitPrice"`
	Discount           string `xml:"Discount"`
	TaxCode            string `xml:"TaxCode"`
	TaxPercentage      string `xml:"TaxPercentage"`
	TaxAmount          string `xml:"TaxAmount"`
	LineTotal          string `xml:"LineTotal"`
}

type xmlTotals struct {
	NetTotal   string `xml:"NetTotal"`
	TaxTotal   string `xml:"TaxTotal"`
	GrossTotal string `xml:"GrossTotal"`
}

type xmlTaxSummary struct {
	TaxCode       string `xml:"TaxCode"`
	TaxPercentage string `xml:"TaxPercentage"`
	TaxAmount     string `xml:"TaxAmount"`
}

type xmlInvoice struct {
	InvoiceNo    string          `xml:"InvoiceNo"`
	InvoiceDate  string          `xml:"InvoiceDate"`
	Currency     string          `xml:"Currency"`
	CustomerID   string          `xml:"CustomerID"`
	CustomerName string          `xml:"CustomerName"`
	Lines        []xmlLine       `xml:"Lines>Line"`
	Totals       xmlTotals       `xml:"Totals"`
	Taxes        []xmlTaxSummary `xml:"Taxes>TaxSummary"`
	Notes        string          `xml:"Notes"`
}

type xmlDocument struct {
	XMLName     xml.Name    `xml:"SAFTAO"`
	Header      xmlHeader   `xml:"Header"`
	MasterFiles struct {
		Customers []xmlCustomer `xml:"Customers>Customer"`
		Products  []xmlProduct  `xml:"Products>Product"`
		Taxes     []xmlTax      `xml:"Taxes>Tax"`
	} `xml:"MasterFiles"`
	SourceDocuments struct {
		SalesInvoices []xmlInvoice `xml:"SalesInvoices>Invoice"`
	} `xml:"SourceDocuments"`
}

func dec(n float64) string { return fmt.Sprintf("%.2f", n) }

// Generator builds SAF-T documents.
type Generator struct {
	// FileDate stamps the export header. Zero means time.Now.
	FileDate time.Time
}

// Generate serializes the export. Messy historical data never fails the
// document: unknown clients produce empty identity fields and unresolvable
// tax codes are treated as zero tax.
func (g Generator) Generate(company Company, clientList []domain.Client, catalog []domain.Product, rates []TaxRate, invoices []Invoice) ([]byte, error) {
	fileDate := g.FileDate
	if fileDate.IsZero() {
		fileDate = time.Now()
	}
	if company.SoftwareName == "" {
		company.SoftwareName = "Kumbu POS"
	}
	if company.SoftwareVersion == "" {
		company.SoftwareVersion = "1.0"
	}

	rateByCode := make(map[string]TaxRate, len(rates))
	for _, r := range rates {
		rateByCode[r.Code] = r
	}
	clientByID := make(map[string]domain.Client, len(clientList))
	for _, c := range clientList {
		clientByID[c.ID] = c
	}
	productByID := make(map[string]domain.Product, len(catalog))
	for _, p := range catalog {
		productByID[p.ID] = p
	}

	var doc xmlDocument
	doc.Header = xmlHeader{
		CompanyName:     company.Name,
		TaxID:           company.TaxID,
		Address:         company.Address,
		Municipality:    company.Municipality,
		Province:        company.Province,
		Telephone:       company.Telephone,
		Email:           company.Email,
		SoftwareName:    company.SoftwareName,
		SoftwareVersion: company.SoftwareVersion,
		FileDate:        fileDate.UTC().Format(time.RFC3339),
	}

	for _, c := range clientList {
		doc.MasterFiles.Customers = append(doc.MasterFiles.Customers, xmlCustomer{
			CustomerID:   c.ID,
			CustomerName: c.Name,
			Telephone:    c.Phone,
			Municipality: c.City,
		})
	}
	for _, p := range catalog {
		doc.MasterFiles.Products = append(doc.MasterFiles.Products, xmlProduct{
			ProductID:          p.ID,
			ProductDescription: p.Name,
			UnitPrice:          dec(p.Price),
			UnitOfMeasure:      "UN",
			TaxCode:            p.TaxCode,
		})
	}
	for _, r := range rates {
		doc.MasterFiles.Taxes = append(doc.MasterFiles.Taxes, xmlTax{
			TaxCode:        r.Code,
			TaxDescription: r.Description,
			TaxPercentage:  dec(r.Percent),
		})
	}

	for _, inv := range invoices {
		currency := inv.Currency
		if currency == "" {
			currency = domain.Currency
		}
		client := clientByID[inv.ClientID]

		var netTotal, taxTotal float64
		perCode := make(map[string]float64)
		xi := xmlInvoice{
			InvoiceNo:    inv.Number,
			InvoiceDate:  inv.Date,
			Currency:     currency,
			CustomerID:   client.ID,
			CustomerName: client.Name,
			Notes:        inv.Notes,
		}

		for _, line := range inv.Lines {
			product := productByID[line.ProductID]

			code := line.TaxCode
			if code == "" {
				code = product.TaxCode
			}
			rate, rateOK := rateByCode[code]

			base := line.Quantity*line.UnitPrice - line.Discount
			var taxAmount float64
			if rateOK {
				taxAmount = base * rate.Percent / 100
				perCode[rate.Code] += taxAmount
			}
			netTotal += base
			taxTotal += taxAmount

			description := line.Description
			if description == "" {
				description = product.Name
			}
			productCode := product.ID
			if productCode == "" {
				productCode = line.ProductID
			}
			resolvedCode, resolvedPct := "", 0.0
			if rateOK {
				resolvedCode, resolvedPct = rate.Code, rate.Percent
			}
			xi.Lines = append(xi.Lines, xmlLine{
				ProductCode:        productCode,
				ProductDescription: description,
				Quantity:           dec(line.Quantity),
				UnitPrice:          dec(line.UnitPrice),
				Discount:           dec(line.Discount),
				TaxCode:            resolvedCode,
				TaxPercentage:      dec(resolvedPct),
				TaxAmount:          dec(taxAmount),
				LineTotal:          dec(base + taxAmount),
			})
		}

		xi.Totals = xmlTotals{
			NetTotal:   dec(netTotal),
			TaxTotal:   dec(taxTotal),
			GrossTotal: dec(netTotal + taxTotal),
		}

		codes := make([]string, 0, len(perCode))
		for code := range perCode {
			codes = append(codes, code)
		}
		sort.Strings(codes)
		for _, code := range codes {
			xi.Taxes = append(xi.Taxes, xmlTaxSummary{
				TaxCode:       code,
				TaxPercentage: dec(rateByCode[code].Percent),
				TaxAmount:     dec(perCode[code]),
			})
		}

		doc.SourceDocuments.SalesInvoices = append(doc.SourceDocuments.SalesInvoices, xi)
	}

	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal saft document: %w", err)
	}
	return append([]byte(xml.Header), body...), nil
}
