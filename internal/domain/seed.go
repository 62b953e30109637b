package domain

import (
	"fmt"
	"time"
)

// SeedProducts is the starter catalog applied when the store is empty.
func SeedProducts() []Product {
	return []Product{
		{ID: "prod-001", Name: "Refrigerante Cola 1L", Price: 250, Stock: 120, Category: CategoryBebidas, ImageURL: "https://picsum.photos/100/100?random=1", TaxCode: "IVA"},
		{ID: "prod-002", Name: "Arroz Bom Gosto 5kg", Price: 4500, Stock: 50, Category: CategoryComida, ImageURL: "https://picsum.photos/100/100?random=2", TaxCode: "IVA"},
		{ID: "prod-003", Name: "Smartphone K5 Pro", Price: 75000, Stock: 15, Category: CategoryEletronicos, ImageURL: "https://picsum.photos/100/100?random=3", TaxCode: "IVA"},
		{ID: "prod-004", Name: "Água Mineral 1.5L", Price: 150, Stock: 200, Category: CategoryBebidas, ImageURL: "https://picsum.photos/100/100?random=4", TaxCode: "IVA"},
		{ID: "prod-005", Name: "Pão de Forma Nutri", Price: 600, Stock: 30, Category: CategoryComida, ImageURL: "https://picsum.photos/100/100?random=5", TaxCode: "IVA"},
	}
}

// SeedClients returns the starter pending-balance client list.
func SeedClients() []Client {
	out := make([]Client, 0, 15)
	for i := 0; i < 15; i++ {
		out = append(out, Client{
			ID:            fmt.Sprintf("client-p-%d", i),
			Name:          fmt.Sprintf("Cliente Pendente %d", i+1),
			Phone:         fmt.Sprintf("2449000000%d", i),
			City:          "Luanda",
			PendingAmount: float64(15000 + i*1000),
		})
	}
	return out
}

// SeedMerchant is the default merchant profile.
func SeedMerchant() *Merchant {
	return &Merchant{
		Name:             "João Luís",
		Phone:            "244999123456",
		StoreName:        "João Luís Marketing Digital IA Agroindústria e Serviços",
		City:             "Luanda",
		Plan:             PlanGratis,
		MulticaixaActive: false,
	}
}

// SeedSales returns the sample sale recorded on first start.
func SeedSales(now time.Time) []Sale {
	return []Sale{
		{
			ID:       "sale-init-001",
			ClientID: "client-p-0",
			Items:    []CartItem{{ProductID: "prod-003", Quantity: 1, Price: 2450000}},
			Total:    2450000,
			Tax:      343000,
			Date:     now.UTC().Format(time.RFC3339),
		},
	}
}
