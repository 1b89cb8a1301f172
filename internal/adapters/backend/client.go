// Package backend implements ports.BackendGateway against the PFC HTTP API.
package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/GibaTrindade/bot-seplag/internal/domain"
	"github.com/GibaTrindade/bot-seplag/internal/logging"
)

// Client queries the PFC API. All operations are read-only and surface
// failures as *domain.UpstreamError; a single failed attempt is final.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient injects a custom http.Client (timeouts, transports, tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithLogger configures the client logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a gateway rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    http.DefaultClient,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchSchedule retrieves the carga-horária record for a CPF.
func (c *Client) FetchSchedule(ctx context.Context, cpf string) (*domain.Schedule, error) {
	var schedule domain.Schedule
	endpoint := fmt.Sprintf("%s/api/carga-horaria/?cpf=%s", c.baseURL, url.QueryEscape(cpf))
	if err := c.getJSON(ctx, endpoint, &schedule); err != nil {
		return nil, err
	}
	return &schedule, nil
}

// FetchCourses retrieves the available-courses listing. May be empty.
func (c *Client) FetchCourses(ctx context.Context) ([]domain.Course, error) {
	var payload struct {
		Courses []domain.Course `json:"cursos"`
	}
	endpoint := c.baseURL + "/api/cursos-disponiveis/"
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, err
	}
	return payload.Courses, nil
}

// SearchParliamentarians looks up candidates by partial name. The match is
// server-side; an empty result is a valid non-error outcome.
func (c *Client) SearchParliamentarians(ctx context.Context, namePart string) ([]domain.CandidateRecord, error) {
	var payload struct {
		Parliamentarians []domain.CandidateRecord `json:"parlamentares"`
	}
	endpoint := fmt.Sprintf("%s/api/emendas/?nome=%s", c.baseURL, url.QueryEscape(namePart))
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, err
	}
	return payload.Parliamentarians, nil
}

// FetchAmendmentSummary retrieves the amendment totals for one parliamentarian.
func (c *Client) FetchAmendmentSummary(ctx context.Context, externalID string) (*domain.AmendmentSummary, error) {
	var summary domain.AmendmentSummary
	endpoint := fmt.Sprintf("%s/api/emendas/resumo/%s/", c.baseURL, url.PathEscape(externalID))
	if err := c.getJSON(ctx, endpoint, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// FetchCalendarDocument downloads the agenda PDF for year/month.
// Month must already be zero-padded to two digits.
func (c *Client) FetchCalendarDocument(ctx context.Context, year int, month string) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/gerar_curadoria/%d/%s", c.baseURL, year, month)

	resp, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.UpstreamError{Message: fmt.Sprintf("reading calendar document: %v", err)}
	}
	return data, nil
}

// get issues the request and maps transport failures and non-2xx responses
// to *domain.UpstreamError. On success the caller owns the body.
func (c *Client) get(ctx context.Context, endpoint string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &domain.UpstreamError{Message: err.Error()}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("backend request failed", "url", endpoint, "err", err)
		return nil, &domain.UpstreamError{Message: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()
		c.logger.Warn("backend returned error status",
			"url", endpoint,
			"status", resp.StatusCode,
		)
		return nil, &domain.UpstreamError{
			Status:  resp.StatusCode,
			Message: strings.TrimSpace(string(body)),
		}
	}
	return resp, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	resp, err := c.get(ctx, endpoint)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &domain.UpstreamError{Message: fmt.Sprintf("decoding response: %v", err)}
	}
	return nil
}
