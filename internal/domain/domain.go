// Package domain holds the entity definitions shared by every ledger.
// Pure data; behavior lives in the owning packages.
package domain

// Currency is the ISO code used across documents.
const Currency = "AOA"

// IVARate is the Angolan value-added tax rate applied to every sale.
const IVARate = 0.14

// LowStockThreshold is the advisory limit below which a restock warning is raised.
const LowStockThreshold = 10

// Category enumerates product categories.
type Category string

const (
	CategoryBebidas       Category = "Bebidas"
	CategoryComida        Category = "Comida"
	CategoryEletronicos   Category = "Eletrónicos"
	CategoryVestuario     Category = "Vestuário"
	CategoryHigiene       Category = "Higiene"
	CategoryFerramentas   Category = "Ferramentas"
	CategoryAgroindustria Category = "Agroindústria"
	CategoryServicos      Category = "Serviços"
	CategoryMarketing     Category = "Marketing Digital"
	CategorySoftware      Category = "IA & Software"
	CategoryConstrucao    Category = "Construção"
	CategoryPapelaria     Category = "Papelaria"
	CategorySaudeBeleza   Category = "Saúde & Beleza"
	CategoryLimpeza       Category = "Limpeza"
	CategoryInformatica   Category = "Informática"
	CategoryMobiliario    Category = "Mobiliário"
	CategoryAutomotivo    Category = "Automotivo"
	CategorySementes      Category = "Sementes & Plantas"
	CategoryFertilizantes Category = "Fertilizantes"
	CategoryMaquinaria    Category = "Maquinaria"
	CategoryConsultoria   Category = "Consultoria"
	CategoryOutros        Category = "Outros"
)

// Product is a catalog entry. ID is immutable after creation. Stock is
// mutated by cart reservations, never by sale completion.
type Product struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Price    float64  `json:"price"`
	Stock    int      `json:"stock"`
	Category Category `json:"category"`
	ImageURL string   `json:"imageUrl,omitempty"`
	TaxCode  string   `json:"taxCode,omitempty"`
}

// Client is a buyer record with a running pending balance.
type Client struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Phone         string  `json:"phone"`
	City          string  `json:"city"`
	PendingAmount float64 `json:"pendingAmount"`
}

// CartItem is a staged sale line. Price is captured at add time, so later
// catalog price changes do not alter cart totals.
type CartItem struct {
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// Sale is an immutable record of a completed checkout.
// Total is tax inclusive; Date is RFC 3339.
type Sale struct {
	ID       string     `json:"id"`
	ClientID string     `json:"clientId"`
	Items    []CartItem `json:"items"`
	Total    float64    `json:"total"`
	Tax      float64    `json:"iva"`
	Date     string     `json:"date"`
}

// Invoice is a Sale plus its sequential number and, when rendering
// succeeded, a data-URL reference to the printable document.
type Invoice struct {
	Sale
	InvoiceNumber   string `json:"invoiceNumber"`
	DocumentDataURL string `json:"documentDataUrl,omitempty"`
}

// MerchantPlan enumerates subscription tiers.
type MerchantPlan string

const (
	PlanGratis MerchantPlan = "GRÁTIS"
	PlanPro5K  MerchantPlan = "PRO5K"
	PlanVIP15K MerchantPlan = "VIP15K"
)

// Merchant is the singleton seller profile read by every sale and render.
type Merchant struct {
	Name             string       `json:"name"`
	Phone            string       `json:"phone"`
	StoreName        string       `json:"storeName"`
	City             string       `json:"city"`
	Plan             MerchantPlan `json:"plan"`
	MulticaixaActive bool         `json:"multicaixaActive"`
}

// InvoiceCounter is the durable sequence backing invoice numbers.
// Seq is the last allocated number within Year.
type InvoiceCounter struct {
	Year int `json:"year"`
	Seq  int `json:"seq"`
}
