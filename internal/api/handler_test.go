package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/kumbu-pos/kumbu-pos/internal/auth"
	"github.com/kumbu-pos/kumbu-pos/internal/cart"
	"github.com/kumbu-pos/kumbu-pos/internal/clients"
	"github.com/kumbu-pos/kumbu-pos/internal/domain"
	"github.com/kumbu-pos/kumbu-pos/internal/inventory"
	"github.com/kumbu-pos/kumbu-pos/internal/sales"
	"github.com/kumbu-pos/kumbu-pos/internal/state"
	"github.com/kumbu-pos/kumbu-pos/internal/store"
)

type stubRenderer struct{}

func (stubRenderer) Render(domain.Invoice, domain.Client, domain.Merchant, []domain.Product) ([]byte, error) {
	return []byte("<html>fatura</html>"), nil
}

func newTestServer(t *testing.T, pinHash string) (*httptest.Server, *state.State) {
	t.Helper()
	fs, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	st := state.New(fs, logger)
	require.NoError(t, st.Load(context.Background()))

	engine := sales.NewEngine(st, stubRenderer{}, logger, 2*time.Second)
	engine.Now = func() time.Time { return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC) }

	h := NewHandler(Params{
		Logger:    logger,
		State:     st,
		Inventory: inventory.NewLedger(st, logger),
		Clients:   clients.NewLedger(st, logger),
		Cart:      cart.New(st, logger),
		Engine:    engine,
		PINHash:   pinHash,
	})

	r := chi.NewRouter()
	h.MountRoutes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, st
}

func doJSON(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func TestListProducts(t *testing.T) {
	srv, _ := newTestServer(t, "")

	resp, err := http.Get(srv.URL + "/products")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list []domain.Product
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Len(t, list, 5)
}

func TestCartAndCheckoutFlow(t *testing.T) {
	srv, st := newTestServer(t, "")

	st.Lock()
	st.Counter = domain.InvoiceCounter{Year: 2025, Seq: 1}
	st.Unlock()

	resp := doJSON(t, http.MethodPost, srv.URL+"/cart/items", `{"productId":"prod-001","quantity":2}`)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp2 := doJSON(t, http.MethodPost, srv.URL+"/checkout", `{"clientId":"client-p-0"}`)
	defer resp2.Body.Close()
	require.Equal(t, http.StatusCreated, resp2.StatusCode)

	var inv domain.Invoice
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&inv))
	require.Equal(t, "INV-2025-0002", inv.InvoiceNumber)
	require.Equal(t, "client-p-0", inv.ClientID)
	require.InDelta(t, 500*1.14, inv.Total, 0.001)

	// The cart is cleared after a successful checkout.
	st.Lock()
	require.Empty(t, st.Cart)
	st.Unlock()

	docResp, err := http.Get(srv.URL + "/invoices/" + inv.InvoiceNumber + "/document")
	require.NoError(t, err)
	defer docResp.Body.Close()
	require.Equal(t, http.StatusOK, docResp.StatusCode)
	body, err := io.ReadAll(docResp.Body)
	require.NoError(t, err)
	require.Equal(t, "<html>fatura</html>", string(body))
}

func TestCheckoutEmptyCart(t *testing.T) {
	srv, _ := newTestServer(t, "")

	resp := doJSON(t, http.MethodPost, srv.URL+"/checkout", `{"clientId":"client-p-0"}`)
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestAddCartItemValidation(t *testing.T) {
	srv, _ := newTestServer(t, "")

	resp := doJSON(t, http.MethodPost, srv.URL+"/cart/items", `{"productId":"prod-001"}`)
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestMutatingRoutesRequirePIN(t *testing.T) {
	hash, err := auth.HashPIN("1234")
	require.NoError(t, err)
	srv, _ := newTestServer(t, hash)

	// Reads stay open.
	resp, err := http.Get(srv.URL + "/products")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Writes are rejected without the PIN header.
	resp2 := doJSON(t, http.MethodPost, srv.URL+"/cart/items", `{"productId":"prod-001","quantity":1}`)
	resp2.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp2.StatusCode)

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/cart/items", strings.NewReader(`{"productId":"prod-001","quantity":1}`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(auth.PinHeader, "1234")
	resp3, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp3.Body.Close()
	require.Equal(t, http.StatusCreated, resp3.StatusCode)
}

func TestExportClientsCSV(t *testing.T) {
	srv, _ := newTestServer(t, "")

	resp, err := http.Get(srv.URL + "/clients/export.csv")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(body)), "\n")
	require.Equal(t, "ID;Nome;Telefone;Cidade;Valor Pendente", lines[0])
	require.Len(t, lines, 16)
}

func TestExportSAFT(t *testing.T) {
	srv, _ := newTestServer(t, "")

	resp, err := http.Get(srv.URL + "/exports/saft.xml")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "application/xml; charset=utf-8", resp.Header.Get("Content-Type"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "<SAFTAO>")
}

func TestRestoreBackupRequiresConfirm(t *testing.T) {
	srv, _ := newTestServer(t, "")

	resp := doJSON(t, http.MethodPost, srv.URL+"/backup/restore", `{"products":[],"clients":[]}`)
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp2 := doJSON(t, http.MethodPost, srv.URL+"/backup/restore?confirm=true", `{"products":[],"clients":[]}`)
	defer resp2.Body.Close()
	require.Equal(t, http.StatusOK, resp2.StatusCode)
}

func TestBackupRoundTripOverAPI(t *testing.T) {
	srv, st := newTestServer(t, "")

	resp, err := http.Get(srv.URL + "/backup")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	st.Lock()
	st.Products = []domain.Product{}
	st.Unlock()

	resp2 := doJSON(t, http.MethodPost, srv.URL+"/backup/restore?confirm=true", string(data))
	defer resp2.Body.Close()
	require.Equal(t, http.StatusOK, resp2.StatusCode)

	st.Lock()
	defer st.Unlock()
	require.Len(t, st.Products, 5)
}

func TestWhatsAppLinkEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, "")

	resp, err := http.Get(srv.URL + "/clients/client-p-0/whatsapp?kind=reminder")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Contains(t, out["link"], "https://wa.me/244")

	resp2, err := http.Get(srv.URL + "/clients/ghost/whatsapp")
	require.NoError(t, err)
	defer resp2.Body.Close()
	require.Equal(t, http.StatusNotFound, resp2.StatusCode)
}

func TestPutAndGetMerchant(t *testing.T) {
	srv, _ := newTestServer(t, "")

	resp := doJSON(t, http.MethodPut, srv.URL+"/merchant",
		`{"name":"Ana","phone":"244922000333","storeName":"Cantina da Ana","city":"Huambo","plan":"PRO5K"}`)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp2, err := http.Get(srv.URL + "/merchant")
	require.NoError(t, err)
	defer resp2.Body.Close()

	var m domain.Merchant
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&m))
	require.Equal(t, "Cantina da Ana", m.StoreName)
	require.Equal(t, domain.PlanPro5K, m.Plan)
}

func TestInvoiceDocumentPDFUnconfigured(t *testing.T) {
	srv, _ := newTestServer(t, "")

	resp, err := http.Get(srv.URL + "/invoices/INV-2025-0001/document.pdf")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
