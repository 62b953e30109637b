// Package jobs hosts the background worker: invoice document backfill and
// periodic tax-export warmup.
package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/hibiken/asynq"

	"github.com/kumbu-pos/kumbu-pos/internal/domain"
	"github.com/kumbu-pos/kumbu-pos/internal/sales"
	"github.com/kumbu-pos/kumbu-pos/internal/state"
	"github.com/kumbu-pos/kumbu-pos/internal/taxexport"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskInvoiceRenderBackfill re-renders documents for invoices that were
	// committed without one.
	TaskInvoiceRenderBackfill = "invoice:render_backfill"
	// TaskSAFTWarmup pre-generates the tax export to the data directory.
	TaskSAFTWarmup = "saft:warmup"
)

// RenderBackfillPayload optionally narrows the backfill to one invoice.
type RenderBackfillPayload struct {
	InvoiceNumber string `json:"invoiceNumber,omitempty"`
}

// NewRenderBackfillTask constructs an Asynq task.
func NewRenderBackfillTask(payload RenderBackfillPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskInvoiceRenderBackfill, data), nil
}

// NewSAFTWarmupTask constructs an Asynq task.
func NewSAFTWarmupTask() *asynq.Task {
	return asynq.NewTask(TaskSAFTWarmup, nil)
}

// RenderBackfillJob re-renders missing invoice documents. Regeneration
// reuses the stored invoice data, so numbers never change.
type RenderBackfillJob struct {
	engine *sales.Engine
	logger *slog.Logger
}

// NewRenderBackfillJob builds RenderBackfillJob.
func NewRenderBackfillJob(engine *sales.Engine, logger *slog.Logger) *RenderBackfillJob {
	return &RenderBackfillJob{engine: engine, logger: logger}
}

// Handle processes TaskInvoiceRenderBackfill tasks.
func (j *RenderBackfillJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload RenderBackfillPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
	}

	if payload.InvoiceNumber != "" {
		return j.engine.RegenerateDocument(ctx, payload.InvoiceNumber)
	}

	for _, inv := range j.engine.ListInvoices(ctx) {
		if inv.DocumentDataURL != "" {
			continue
		}
		if err := j.engine.RegenerateDocument(ctx, inv.InvoiceNumber); err != nil {
			j.logger.Warn("backfill render", slog.String("invoice", inv.InvoiceNumber), slog.Any("error", err))
		}
	}
	return nil
}

// SAFTWarmupJob writes a fresh tax export to the data directory so the
// download endpoint serves instantly after large imports.
type SAFTWarmupJob struct {
	state   *state.State
	gen     taxexport.Generator
	dataDir string
	logger  *slog.Logger
}

// NewSAFTWarmupJob builds SAFTWarmupJob.
func NewSAFTWarmupJob(st *state.State, dataDir string, logger *slog.Logger) *SAFTWarmupJob {
	return &SAFTWarmupJob{state: st, dataDir: dataDir, logger: logger}
}

// Handle processes TaskSAFTWarmup tasks.
func (j *SAFTWarmupJob) Handle(_ context.Context, _ *asynq.Task) error {
	j.state.Lock()
	merchant := j.state.Merchant
	clientsCopy := make([]domain.Client, len(j.state.Clients))
	copy(clientsCopy, j.state.Clients)
	productsCopy := make([]domain.Product, len(j.state.Products))
	copy(productsCopy, j.state.Products)
	invoicesCopy := make([]domain.Invoice, len(j.state.Invoices))
	copy(invoicesCopy, j.state.Invoices)
	j.state.Unlock()

	if merchant == nil {
		return asynq.SkipRetry
	}

	doc, err := j.gen.Generate(
		taxexport.CompanyFromMerchant(*merchant),
		clientsCopy,
		productsCopy,
		taxexport.DefaultTaxRates(),
		taxexport.InvoicesFromHistory(invoicesCopy),
	)
	if err != nil {
		return err
	}

	path := filepath.Join(j.dataDir, "SAFT_AO.xml")
	if err := os.WriteFile(path, doc, 0o644); err != nil {
		return err
	}
	j.logger.Info("saft warmup written", slog.String("path", path))
	return nil
}
