package dashboardhttp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/agentic-platform/insights/internal/dashboard"
	"github.com/agentic-platform/insights/internal/dashboard/export"
	"github.com/agentic-platform/insights/internal/dashboard/ui"
	"github.com/agentic-platform/insights/internal/dataset"
	"github.com/agentic-platform/insights/internal/platform/httpx"
	"github.com/agentic-platform/insights/internal/view"
)

const requestTimeout = 5 * time.Second

// DashboardService defines the view model contract used by the handler.
type DashboardService interface {
	Build(ctx context.Context, state dashboard.UIState) (ui.DashboardViewModel, error)
	Dataset(ctx context.Context) (dataset.Dataset, error)
}

// PDFService renders a standalone HTML document to PDF bytes.
type PDFService interface {
	Render(ctx context.Context, html []byte) ([]byte, error)
}

// ExportObserver is told about every export attempt.
type ExportObserver interface {
	ExportFinished(format string, err error)
}

// Handler serves the investor dashboard and its exports.
type Handler struct {
	logger      *slog.Logger
	service     DashboardService
	templates   *view.Engine
	pdf         PDFService
	exports     ExportObserver
	exportLimit int
	bufPool     sync.Pool
	now         func() time.Time
}

// Option customises a Handler.
type Option func(*Handler)

// WithPDF enables the PDF export.
func WithPDF(pdf PDFService) Option {
	return func(h *Handler) { h.pdf = pdf }
}

// WithExportObserver records export outcomes.
func WithExportObserver(obs ExportObserver) Option {
	return func(h *Handler) { h.exports = obs }
}

// WithExportLimit sets the per-IP export requests allowed per minute.
func WithExportLimit(n int) Option {
	return func(h *Handler) {
		if n > 0 {
			h.exportLimit = n
		}
	}
}

// NewHandler constructs the dashboard HTTP handler.
func NewHandler(logger *slog.Logger, service DashboardService, templates *view.Engine, opts ...Option) *Handler {
	h := &Handler{
		logger:      logger,
		service:     service,
		templates:   templates,
		exportLimit: 10,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.bufPool.New = func() interface{} { return new(bytes.Buffer) }
	return h
}

// WithNow overrides the handler clock for testing.
func (h *Handler) WithNow(fn func() time.Time) {
	if fn != nil {
		h.now = fn
	}
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	state, err := parseState(r)
	if err != nil {
		http.Error(w, "invalid time range", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	vm, err := h.service.Build(ctx, state)
	if err != nil {
		h.handleServerError(w, "build dashboard", err)
		return
	}

	viewData := view.TemplateData{
		Title:       dashboard.Heading + " | " + dashboard.Subheading,
		CurrentPath: r.URL.Path,
		GeneratedAt: h.now(),
		Data:        vm,
	}
	if err := h.templates.Render(w, "pages/dashboard.html", viewData); err != nil {
		h.handleServerError(w, "render template", err)
	}
}

func (h *Handler) handleAPI(w http.ResponseWriter, r *http.Request) {
	state, err := parseState(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	vm, err := h.service.Build(ctx, state)
	if err != nil {
		h.logError("build dashboard", err)
		httpx.RespondError(w, err)
		return
	}
	// The API carries data only; charts are drawn by the page.
	for i := range vm.Charts {
		vm.Charts[i].SVG = ""
	}
	httpx.JSON(w, http.StatusOK, apiResponse{State: state, Dashboard: vm})
}

type apiResponse struct {
	State     dashboard.UIState     `json:"state"`
	Dashboard ui.DashboardViewModel `json:"dashboard"`
}

func (h *Handler) handleCSV(w http.ResponseWriter, r *http.Request) {
	state, err := parseState(r)
	if err != nil {
		http.Error(w, "invalid time range", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	vm, err := h.service.Build(ctx, state)
	if err != nil {
		h.finishExport("csv", err)
		h.handleServerError(w, "build dashboard", err)
		return
	}

	buf := h.buffer()
	defer h.release(buf)

	if err := export.WriteDashboardCSV(buf, vm); err != nil {
		h.finishExport("csv", err)
		h.handleServerError(w, "write dashboard csv", err)
		return
	}
	h.finishExport("csv", nil)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", h.filename(state, "csv")))
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logError("stream csv", err)
	}
}

func (h *Handler) handlePDF(w http.ResponseWriter, r *http.Request) {
	if h.pdf == nil {
		http.Error(w, "pdf export not configured", http.StatusNotImplemented)
		return
	}
	state, err := parseState(r)
	if err != nil {
		http.Error(w, "invalid time range", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 4*requestTimeout)
	defer cancel()

	vm, err := h.service.Build(ctx, state)
	if err != nil {
		h.finishExport("pdf", err)
		h.handleServerError(w, "build dashboard", err)
		return
	}

	buf := h.buffer()
	defer h.release(buf)
	if err := h.templates.Execute(buf, "pages/export.html", view.TemplateData{
		Title:       dashboard.Heading + " " + dashboard.Subheading,
		GeneratedAt: h.now(),
		Data:        vm,
	}); err != nil {
		h.finishExport("pdf", err)
		h.handleServerError(w, "render export html", err)
		return
	}

	pdfBytes, err := h.pdf.Render(ctx, buf.Bytes())
	h.finishExport("pdf", err)
	if err != nil {
		h.logError("render pdf", err)
		if errors.Is(err, export.ErrRendererUnavailable) {
			http.Error(w, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
			return
		}
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", h.filename(state, "pdf")))
	if _, err := w.Write(pdfBytes); err != nil {
		h.logError("stream pdf", err)
	}
}

func (h *Handler) handleParquet(w http.ResponseWriter, r *http.Request) {
	series := chi.URLParam(r, "series")

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	ds, err := h.service.Dataset(ctx)
	if err != nil {
		h.finishExport("parquet", err)
		h.handleServerError(w, "load dataset", err)
		return
	}

	buf := h.buffer()
	defer h.release(buf)
	if err := export.WriteSeriesParquet(buf, ds, series); err != nil {
		if errors.Is(err, export.ErrUnknownSeries) {
			http.Error(w, "unknown series", http.StatusNotFound)
			return
		}
		h.finishExport("parquet", err)
		h.handleServerError(w, "write parquet", err)
		return
	}
	h.finishExport("parquet", nil)

	w.Header().Set("Content-Type", "application/vnd.apache.parquet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"agent-%s.parquet\"", series))
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logError("stream parquet", err)
	}
}

func parseState(r *http.Request) (dashboard.UIState, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("range"))
	if raw == "" {
		return dashboard.DefaultUIState(), nil
	}
	tr, err := dashboard.ParseTimeRange(raw)
	if err != nil {
		return dashboard.UIState{}, err
	}
	return dashboard.OnTimeRangeChange(dashboard.DefaultUIState(), tr)
}

func (h *Handler) filename(state dashboard.UIState, ext string) string {
	return fmt.Sprintf("agent-insights-%s-%s.%s", strings.ToLower(string(state.SelectedTimeRange)), h.now().UTC().Format("20060102"), ext)
}

func (h *Handler) buffer() *bytes.Buffer {
	buf := h.bufPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

func (h *Handler) release(buf *bytes.Buffer) {
	buf.Reset()
	h.bufPool.Put(buf)
}

func (h *Handler) finishExport(format string, err error) {
	if h.exports != nil {
		h.exports.ExportFinished(format, err)
	}
}

func (h *Handler) handleServerError(w http.ResponseWriter, context string, err error) {
	h.logError(context, err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (h *Handler) logError(context string, err error) {
	if h.logger != nil {
		h.logger.Error(context, slog.Any("error", err))
	}
}
