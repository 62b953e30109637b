package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"

	"github.com/kumbu-pos/kumbu-pos/internal/domain"
	"github.com/kumbu-pos/kumbu-pos/internal/sales"
	"github.com/kumbu-pos/kumbu-pos/internal/state"
	"github.com/kumbu-pos/kumbu-pos/internal/store"
)

type fakeRenderer struct {
	doc []byte
	err error
}

func (f *fakeRenderer) Render(domain.Invoice, domain.Client, domain.Merchant, []domain.Product) ([]byte, error) {
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

func seedInvoiceWithoutDocument(st *state.State) {
	st.Lock()
	defer st.Unlock()
	st.Invoices = append(st.Invoices, domain.Invoice{
		Sale: domain.Sale{
			ID:       "sale-x",
			ClientID: "client-p-0",
			Items:    []domain.CartItem{{ProductID: "prod-001", Quantity: 1, Price: 250}},
			Total:    285,
			Tax:      35,
			Date:     "2025-06-15T12:00:00Z",
		},
		InvoiceNumber: "INV-2025-0099",
	})
}

func TestRenderBackfillFillsMissingDocuments(t *testing.T) {
	st := newTestState(t)
	seedInvoiceWithoutDocument(st)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	engine := sales.NewEngine(st, &fakeRenderer{doc: []byte("<html>doc</html>")}, logger, 2*time.Second)

	job := NewRenderBackfillJob(engine, logger)
	task, err := NewRenderBackfillTask(RenderBackfillPayload{})
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))

	inv, ok := engine.GetInvoice(context.Background(), "INV-2025-0099")
	require.True(t, ok)
	require.NotEmpty(t, inv.DocumentDataURL)
}

func TestRenderBackfillTargetsOneInvoice(t *testing.T) {
	st := newTestState(t)
	seedInvoiceWithoutDocument(st)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	engine := sales.NewEngine(st, &fakeRenderer{doc: []byte("ok")}, logger, 2*time.Second)

	job := NewRenderBackfillJob(engine, logger)
	task, err := NewRenderBackfillTask(RenderBackfillPayload{InvoiceNumber: "INV-2025-0099"})
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))

	inv, _ := engine.GetInvoice(context.Background(), "INV-2025-0099")
	require.NotEmpty(t, inv.DocumentDataURL)
}

func TestRenderBackfillSkipsRenderedInvoices(t *testing.T) {
	st := newTestState(t)
	seedInvoiceWithoutDocument(st)
	st.Lock()
	st.Invoices[0].DocumentDataURL = sales.DocumentDataURL([]byte("cached"))
	st.Unlock()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	engine := sales.NewEngine(st, &fakeRenderer{err: errors.New("renderer down")}, logger, 2*time.Second)

	job := NewRenderBackfillJob(engine, logger)
	task, err := NewRenderBackfillTask(RenderBackfillPayload{})
	require.NoError(t, err)
	// The only invoice already has a document, so the broken renderer is
	// never invoked and the job succeeds.
	require.NoError(t, job.Handle(context.Background(), task))
}

func TestRenderBackfillRejectsBadPayload(t *testing.T) {
	st := newTestState(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	engine := sales.NewEngine(st, &fakeRenderer{}, logger, 2*time.Second)

	job := NewRenderBackfillJob(engine, logger)
	task := asynq.NewTask(TaskInvoiceRenderBackfill, []byte("{broken"))
	require.ErrorIs(t, job.Handle(context.Background(), task), asynq.SkipRetry)
}

func TestSAFTWarmupWritesExport(t *testing.T) {
	st := newTestState(t)
	dataDir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	job := NewSAFTWarmupJob(st, dataDir, logger)
	require.NoError(t, job.Handle(context.Background(), NewSAFTWarmupTask()))

	data, err := os.ReadFile(filepath.Join(dataDir, "SAFT_AO.xml"))
	require.NoError(t, err)
	require.Contains(t, string(data), "<SAFTAO>")
}

func TestSAFTWarmupSkipsWithoutMerchant(t *testing.T) {
	st := newTestState(t)
	st.Lock()
	st.Merchant = nil
	st.Unlock()

	job := NewSAFTWarmupJob(st, t.TempDir(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.ErrorIs(t, job.Handle(context.Background(), NewSAFTWarmupTask()), asynq.SkipRetry)
}

func TestRenderBackfillTaskPayloadRoundTrip(t *testing.T) {
	task, err := NewRenderBackfillTask(RenderBackfillPayload{InvoiceNumber: "INV-2025-0001"})
	require.NoError(t, err)
	require.Equal(t, TaskInvoiceRenderBackfill, task.Type())

	var payload RenderBackfillPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	require.Equal(t, "INV-2025-0001", payload.InvoiceNumber)
}
