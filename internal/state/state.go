// Package state owns the in-process application state: the six persisted
// collections plus the invoice counter. It is created once at startup and
// passed by handle into every component constructor; there is no ambient
// singleton. Every mutation happens under one mutex, which is the
// serialization discipline invoice allocation and stock reservation rely on.
package state

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/kumbu-pos/kumbu-pos/internal/domain"
	"github.com/kumbu-pos/kumbu-pos/internal/store"
)

// State holds the live collections. Access only while holding the lock.
type State struct {
	mu     sync.Mutex
	store  store.Store
	logger *slog.Logger

	Products []domain.Product
	Clients  []domain.Client
	Cart     []domain.CartItem
	Sales    []domain.Sale
	Invoices []domain.Invoice
	Merchant *domain.Merchant
	Counter  domain.InvoiceCounter
}

// New binds the state to its store. Call Load before use.
func New(s store.Store, logger *slog.Logger) *State {
	return &State{store: s, logger: logger}
}

// Lock acquires the state mutation lock.
func (s *State) Lock() { s.mu.Lock() }

// Unlock releases the state mutation lock.
func (s *State) Unlock() { s.mu.Unlock() }

// Load pulls every collection from the store, seeding defaults for keys that
// are absent or unreadable. A corrupt document is logged and replaced by its
// default rather than aborting startup.
func (s *State) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Products = s.loadProducts(ctx)
	s.Clients = s.loadClients(ctx)
	s.Cart = s.loadCart(ctx)
	s.Sales = s.loadSales(ctx)
	s.Invoices = s.loadInvoices(ctx)
	s.Merchant = s.loadMerchant(ctx)
	s.Counter = s.loadCounter(ctx)
	return nil
}

func (s *State) loadProducts(ctx context.Context) []domain.Product {
	var v []domain.Product
	found, err := s.store.Load(ctx, store.KeyProducts, &v)
	if err != nil {
		s.logger.Warn("load products", slog.Any("error", err))
	}
	if !found {
		return domain.SeedProducts()
	}
	return v
}

func (s *State) loadClients(ctx context.Context) []domain.Client {
	var v []domain.Client
	found, err := s.store.Load(ctx, store.KeyClients, &v)
	if err != nil {
		s.logger.Warn("load clients", slog.Any("error", err))
	}
	if !found {
		return domain.SeedClients()
	}
	return v
}

func (s *State) loadCart(ctx context.Context) []domain.CartItem {
	var v []domain.CartItem
	found, err := s.store.Load(ctx, store.KeyCart, &v)
	if err != nil {
		s.logger.Warn("load cart", slog.Any("error", err))
	}
	if !found {
		return []domain.CartItem{}
	}
	return v
}

func (s *State) loadSales(ctx context.Context) []domain.Sale {
	var v []domain.Sale
	found, err := s.store.Load(ctx, store.KeySales, &v)
	if err != nil {
		s.logger.Warn("load sales", slog.Any("error", err))
	}
	if !found {
		return domain.SeedSales(time.Now())
	}
	return v
}

func (s *State) loadInvoices(ctx context.Context) []domain.Invoice {
	var v []domain.Invoice
	found, err := s.store.Load(ctx, store.KeyInvoices, &v)
	if err != nil {
		s.logger.Warn("load invoices", slog.Any("error", err))
	}
	if !found {
		return []domain.Invoice{}
	}
	return v
}

func (s *State) loadMerchant(ctx context.Context) *domain.Merchant {
	var v domain.Merchant
	found, err := s.store.Load(ctx, store.KeyMerchant, &v)
	if err != nil {
		s.logger.Warn("load merchant", slog.Any("error", err))
	}
	if !found {
		return domain.SeedMerchant()
	}
	return &v
}

// loadCounter seeds the sequence from the historical sale count when no
// counter document exists yet, which keeps numbering continuous for datasets
// created before the counter was introduced.
func (s *State) loadCounter(ctx context.Context) domain.InvoiceCounter {
	var v domain.InvoiceCounter
	found, err := s.store.Load(ctx, store.KeyInvoiceSeq, &v)
	if err != nil {
		s.logger.Warn("load invoice counter", slog.Any("error", err))
	}
	if !found {
		return domain.InvoiceCounter{Year: time.Now().Year(), Seq: len(s.Sales)}
	}
	return v
}

// persist saves one collection, logging failure instead of propagating it;
// the in-memory mutation stands either way.
func (s *State) persist(ctx context.Context, key string, value any) {
	if err := s.store.Save(ctx, key, value); err != nil {
		s.logger.Warn("persist collection", slog.String("key", key), slog.Any("error", err))
	}
}

// SaveProducts re-serializes the full product collection. Caller holds the lock.
func (s *State) SaveProducts(ctx context.Context) { s.persist(ctx, store.KeyProducts, s.Products) }

// SaveClients re-serializes the full client collection. Caller holds the lock.
func (s *State) SaveClients(ctx context.Context) { s.persist(ctx, store.KeyClients, s.Clients) }

// SaveCart re-serializes the cart. Caller holds the lock.
func (s *State) SaveCart(ctx context.Context) { s.persist(ctx, store.KeyCart, s.Cart) }

// SaveSales re-serializes the sale history. Caller holds the lock.
func (s *State) SaveSales(ctx context.Context) { s.persist(ctx, store.KeySales, s.Sales) }

// SaveInvoices re-serializes the invoice collection. Caller holds the lock.
func (s *State) SaveInvoices(ctx context.Context) { s.persist(ctx, store.KeyInvoices, s.Invoices) }

// SaveMerchant re-serializes the merchant profile. Caller holds the lock.
func (s *State) SaveMerchant(ctx context.Context) { s.persist(ctx, store.KeyMerchant, s.Merchant) }

// SaveCounter re-serializes the invoice counter. Caller holds the lock.
func (s *State) SaveCounter(ctx context.Context) { s.persist(ctx, store.KeyInvoiceSeq, s.Counter) }
