package sales

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kumbu-pos/kumbu-pos/internal/domain"
	"github.com/kumbu-pos/kumbu-pos/internal/shared"
	"github.com/kumbu-pos/kumbu-pos/internal/state"
	"github.com/kumbu-pos/kumbu-pos/internal/store"
)

type fakeRenderer struct {
	doc  []byte
	err  error
	slow time.Duration
}

func (f *fakeRenderer) Render(domain.Invoice, domain.Client, domain.Merchant, []domain.Product) ([]byte, error) {
	if f.slow > 0 {
		time.Sleep(f.slow)
	}
	return f.doc, f.err
}

func newTestState(t *testing.T) *state.State {
	t.Helper()
	fs, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)
	st := state.New(fs, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, st.Load(context.Background()))
	return st
}

func newTestEngine(t *testing.T, st *state.State, r RendererPort) *Engine {
	t.Helper()
	e := NewEngine(st, r, slog.New(slog.NewTextHandler(io.Discard, nil)), 2*time.Second)
	e.Now = func() time.Time { return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC) }
	return e
}

func stageCart(st *state.State) {
	st.Lock()
	st.Cart = []domain.CartItem{{ProductID: "prod-001", Quantity: 2, Price: 250}}
	st.Unlock()
}

func TestCompleteSaleHappyPath(t *testing.T) {
	st := newTestState(t)
	e := newTestEngine(t, st, &fakeRenderer{doc: []byte("<html>doc</html>")})
	stageCart(st)

	st.Lock()
	st.Counter = domain.InvoiceCounter{Year: 2025, Seq: 6}
	st.Unlock()

	inv, err := e.CompleteSale(context.Background(), "client-p-0", 570, 70, nil)
	require.NoError(t, err)
	require.Equal(t, "INV-2025-0007", inv.InvoiceNumber)
	require.Equal(t, "client-p-0", inv.ClientID)
	require.Equal(t, "2025-06-15T12:00:00Z", inv.Date)

	doc, err := DecodeDocument(inv.DocumentDataURL)
	require.NoError(t, err)
	require.Equal(t, []byte("<html>doc</html>"), doc)

	// Exactly one sale and one invoice appended to the seeded history.
	require.Len(t, e.ListSales(context.Background()), 2)
	require.Len(t, e.ListInvoices(context.Background()), 1)
}

func TestCompleteSaleRenderFailureStillCommits(t *testing.T) {
	st := newTestState(t)
	e := newTestEngine(t, st, &fakeRenderer{err: errors.New("renderer down")})
	stageCart(st)

	inv, err := e.CompleteSale(context.Background(), "client-p-0", 570, 70, nil)
	require.NoError(t, err)
	require.Empty(t, inv.DocumentDataURL)
	require.Len(t, e.ListSales(context.Background()), 2)
	require.Len(t, e.ListInvoices(context.Background()), 1)
}

func TestCompleteSaleRenderTimeoutStillCommits(t *testing.T) {
	st := newTestState(t)
	e := NewEngine(st, &fakeRenderer{doc: []byte("late"), slow: 500 * time.Millisecond},
		slog.New(slog.NewTextHandler(io.Discard, nil)), 50*time.Millisecond)
	e.Now = func() time.Time { return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC) }
	stageCart(st)

	inv, err := e.CompleteSale(context.Background(), "client-p-0", 570, 70, nil)
	require.NoError(t, err)
	require.Empty(t, inv.DocumentDataURL)
}

func TestCompleteSaleEmptyCart(t *testing.T) {
	st := newTestState(t)
	e := newTestEngine(t, st, &fakeRenderer{})

	_, err := e.CompleteSale(context.Background(), "client-p-0", 0, 0, nil)
	require.ErrorIs(t, err, shared.ErrEmptyCart)
}

func TestCompleteSaleNoMerchant(t *testing.T) {
	st := newTestState(t)
	e := newTestEngine(t, st, &fakeRenderer{})
	stageCart(st)

	st.Lock()
	st.Merchant = nil
	st.Unlock()

	_, err := e.CompleteSale(context.Background(), "client-p-0", 570, 70, nil)
	require.ErrorIs(t, err, shared.ErrNoMerchant)
}

func TestCompleteSaleUnknownClient(t *testing.T) {
	st := newTestState(t)
	e := newTestEngine(t, st, &fakeRenderer{})
	stageCart(st)

	_, err := e.CompleteSale(context.Background(), "ghost", 570, 70, nil)
	require.ErrorIs(t, err, shared.ErrClientUnresolved)
}

func TestCompleteSaleInsertsWalkInClient(t *testing.T) {
	st := newTestState(t)
	e := newTestEngine(t, st, &fakeRenderer{doc: []byte("ok")})
	stageCart(st)

	walkIn := &domain.Client{ID: "walkin-1", Name: "Consumidor Final", City: "Luanda"}
	inv, err := e.CompleteSale(context.Background(), "", 570, 70, walkIn)
	require.NoError(t, err)
	require.Equal(t, "walkin-1", inv.ClientID)

	st.Lock()
	defer st.Unlock()
	found := false
	for _, c := range st.Clients {
		if c.ID == "walkin-1" {
			found = true
		}
	}
	require.True(t, found)
}

func TestCompleteSaleWalkInWithoutIDGetsOwnRecord(t *testing.T) {
	st := newTestState(t)
	e := newTestEngine(t, st, &fakeRenderer{doc: []byte("ok")})
	ctx := context.Background()

	stageCart(st)
	first, err := e.CompleteSale(ctx, "", 570, 70, &domain.Client{Name: "Consumidor Final"})
	require.NoError(t, err)
	require.NotEmpty(t, first.ClientID)

	stageCart(st)
	second, err := e.CompleteSale(ctx, "", 570, 70, &domain.Client{Name: "Outra Cliente"})
	require.NoError(t, err)
	require.NotEmpty(t, second.ClientID)
	require.NotEqual(t, first.ClientID, second.ClientID)

	st.Lock()
	defer st.Unlock()
	names := map[string]string{}
	for _, c := range st.Clients {
		names[c.ID] = c.Name
	}
	require.Equal(t, "Consumidor Final", names[first.ClientID])
	require.Equal(t, "Outra Cliente", names[second.ClientID])
}

func TestNumberingIsSequentialPerYear(t *testing.T) {
	st := newTestState(t)
	e := newTestEngine(t, st, &fakeRenderer{doc: []byte("ok")})

	st.Lock()
	st.Counter = domain.InvoiceCounter{Year: 2025, Seq: 0}
	st.Unlock()

	for i := 1; i <= 3; i++ {
		stageCart(st)
		inv, err := e.CompleteSale(context.Background(), "client-p-0", 570, 70, nil)
		require.NoError(t, err)
		require.Equal(t, []string{"INV-2025-0001", "INV-2025-0002", "INV-2025-0003"}[i-1], inv.InvoiceNumber)
	}
}

func TestNumberingResetsOnYearRollover(t *testing.T) {
	st := newTestState(t)
	e := newTestEngine(t, st, &fakeRenderer{doc: []byte("ok")})
	stageCart(st)

	st.Lock()
	st.Counter = domain.InvoiceCounter{Year: 2024, Seq: 812}
	st.Unlock()

	inv, err := e.CompleteSale(context.Background(), "client-p-0", 570, 70, nil)
	require.NoError(t, err)
	require.Equal(t, "INV-2025-0001", inv.InvoiceNumber)
}

func TestRegenerateDocument(t *testing.T) {
	st := newTestState(t)
	e := newTestEngine(t, st, &fakeRenderer{err: errors.New("down")})
	stageCart(st)

	inv, err := e.CompleteSale(context.Background(), "client-p-0", 570, 70, nil)
	require.NoError(t, err)
	require.Empty(t, inv.DocumentDataURL)

	e.renderer = &fakeRenderer{doc: []byte("<html>v2</html>")}
	require.NoError(t, e.RegenerateDocument(context.Background(), inv.InvoiceNumber))

	got, ok := e.GetInvoice(context.Background(), inv.InvoiceNumber)
	require.True(t, ok)
	doc, err := DecodeDocument(got.DocumentDataURL)
	require.NoError(t, err)
	require.Equal(t, []byte("<html>v2</html>"), doc)
}

func TestRegenerateDocumentUnknownInvoice(t *testing.T) {
	st := newTestState(t)
	e := newTestEngine(t, st, &fakeRenderer{})

	err := e.RegenerateDocument(context.Background(), "INV-1999-0001")
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestDocumentDataURLRoundTrip(t *testing.T) {
	doc := []byte("<html>fatura</html>")
	decoded, err := DecodeDocument(DocumentDataURL(doc))
	require.NoError(t, err)
	require.Equal(t, doc, decoded)

	_, err = DecodeDocument("data:application/pdf;base64,AAAA")
	require.Error(t, err)
}
