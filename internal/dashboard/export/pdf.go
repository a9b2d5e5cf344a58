package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// ErrRendererUnavailable wraps every failure to reach or use Gotenberg.
var ErrRendererUnavailable = errors.New("export: pdf renderer unavailable")

// PDFExporter wraps Gotenberg interactions for dashboard exports.
type PDFExporter struct {
	Endpoint string
	Client   *http.Client
	// WaitDelay gives the headless browser time to lay out inline SVG.
	WaitDelay time.Duration
}

// NewPDFExporter returns an exporter for the Gotenberg instance at endpoint.
func NewPDFExporter(endpoint string) *PDFExporter {
	return &PDFExporter{
		Endpoint:  endpoint,
		Client:    &http.Client{Timeout: 20 * time.Second},
		WaitDelay: 500 * time.Millisecond,
	}
}

// Render converts a standalone HTML document to PDF bytes.
func (p *PDFExporter) Render(ctx context.Context, html []byte) ([]byte, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: exporter not initialised", ErrRendererUnavailable)
	}
	endpoint := strings.TrimRight(p.Endpoint, "/")
	if endpoint == "" {
		return nil, fmt.Errorf("%w: gotenberg endpoint required", ErrRendererUnavailable)
	}
	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	// Gotenberg requires the entry document to be called index.html.
	part, err := writer.CreateFormFile("files", "index.html")
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(html); err != nil {
		return nil, err
	}
	if p.WaitDelay > 0 {
		if err := writer.WriteField("waitDelay", p.WaitDelay.String()); err != nil {
			return nil, err
		}
	}
	if err := writer.WriteField("printBackground", "true"); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint+"/forms/chromium/convert/html", body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRendererUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("%w: gotenberg response %d: %s", ErrRendererUnavailable, resp.StatusCode, string(data))
	}

	return io.ReadAll(resp.Body)
}

// Ping checks that the Gotenberg instance answers its health endpoint.
func (p *PDFExporter) Ping(ctx context.Context) error {
	if p == nil || p.Endpoint == "" {
		return fmt.Errorf("%w: gotenberg endpoint required", ErrRendererUnavailable)
	}
	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(p.Endpoint, "/")+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRendererUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("%w: gotenberg health returned %d", ErrRendererUnavailable, resp.StatusCode)
	}
	return nil
}
