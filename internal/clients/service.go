// Package clients owns client records and their pending balances.
package clients

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/kumbu-pos/kumbu-pos/internal/domain"
	"github.com/kumbu-pos/kumbu-pos/internal/shared"
	"github.com/kumbu-pos/kumbu-pos/internal/state"
)

// Ledger coordinates client operations against the shared state.
type Ledger struct {
	state  *state.State
	logger *slog.Logger
}

// NewLedger builds Ledger.
func NewLedger(st *state.State, logger *slog.Logger) *Ledger {
	return &Ledger{state: st, logger: logger}
}

// AddClient inserts unless a client with that id already exists.
// First write wins; the duplicate insert is a silent no-op.
func (l *Ledger) AddClient(ctx context.Context, c domain.Client) (domain.Client, error) {
	if strings.TrimSpace(c.Name) == "" {
		return domain.Client{}, shared.NewValidationError(shared.ErrMissingField, "client name is required")
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}

	l.state.Lock()
	defer l.state.Unlock()
	for _, existing := range l.state.Clients {
		if existing.ID == c.ID {
			return existing, nil
		}
	}
	l.state.Clients = append(l.state.Clients, c)
	l.state.SaveClients(ctx)
	return c, nil
}

// DeleteClient removes by id. Historical sales keep the client id; lookups
// against it degrade to an unknown-client placeholder.
func (l *Ledger) DeleteClient(ctx context.Context, clientID string) {
	l.state.Lock()
	defer l.state.Unlock()
	out := l.state.Clients[:0]
	for _, c := range l.state.Clients {
		if c.ID != clientID {
			out = append(out, c)
		}
	}
	l.state.Clients = out
	l.state.SaveClients(ctx)
}

// AdjustPendingBalance adds delta to the client's pending amount. Negative
// delta records a payment, positive new debt. An unknown id is a logged
// no-op.
func (l *Ledger) AdjustPendingBalance(ctx context.Context, clientID string, delta float64) {
	l.state.Lock()
	defer l.state.Unlock()
	found := false
	for i := range l.state.Clients {
		if l.state.Clients[i].ID == clientID {
			l.state.Clients[i].PendingAmount += delta
			found = true
		}
	}
	if !found {
		l.logger.Warn("adjust balance for unknown client", slog.String("client", clientID))
	}
	l.state.SaveClients(ctx)
}

// List returns a copy of the client collection.
func (l *Ledger) List(_ context.Context) []domain.Client {
	l.state.Lock()
	defer l.state.Unlock()
	out := make([]domain.Client, len(l.state.Clients))
	copy(out, l.state.Clients)
	return out
}

// Get looks a client up by id.
func (l *Ledger) Get(_ context.Context, clientID string) (domain.Client, bool) {
	l.state.Lock()
	defer l.state.Unlock()
	for _, c := range l.state.Clients {
		if c.ID == clientID {
			return c, true
		}
	}
	return domain.Client{}, false
}
