package api

import "github.com/kumbu-pos/kumbu-pos/internal/domain"

type createProductRequest struct {
	ID       string  `json:"id"`
	Name     string  `json:"name" validate:"required"`
	Price    float64 `json:"price" validate:"gte=0"`
	Stock    int     `json:"stock" validate:"gte=0"`
	Category string  `json:"category"`
	ImageURL string  `json:"imageUrl"`
	TaxCode  string  `json:"taxCode"`
}

type adjustStockRequest struct {
	Delta int `json:"delta" validate:"required"`
}

type createClientRequest struct {
	ID            string  `json:"id"`
	Name          string  `json:"name" validate:"required"`
	Phone         string  `json:"phone"`
	City          string  `json:"city"`
	PendingAmount float64 `json:"pendingAmount"`
}

type adjustBalanceRequest struct {
	Delta float64 `json:"delta" validate:"required"`
}

type addCartItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required"`
}

type checkoutRequest struct {
	ClientID string               `json:"clientId"`
	Client   *createClientRequest `json:"client"`
}

type putMerchantRequest struct {
	Name             string `json:"name" validate:"required"`
	Phone            string `json:"phone" validate:"required"`
	StoreName        string `json:"storeName" validate:"required"`
	City             string `json:"city"`
	Plan             string `json:"plan"`
	MulticaixaActive bool   `json:"multicaixaActive"`
}

type cartResponse struct {
	Items    []domain.CartItem `json:"items"`
	Subtotal float64           `json:"subtotal"`
	Tax      float64           `json:"iva"`
	Total    float64           `json:"total"`
}

func (r createClientRequest) toDomain() domain.Client {
	return domain.Client{
		ID:            r.ID,
		Name:          r.Name,
		Phone:         r.Phone,
		City:          r.City,
		PendingAmount: r.PendingAmount,
	}
}
