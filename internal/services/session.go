// The Session [TuneSource] implementation
//
// Talks to the public JSON API of thesession.org. Every endpoint is a GET with format=json.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/tunesx/internal/models"
	"github.com/desertthunder/tunesx/internal/shared"
	"golang.org/x/time/rate"
)

const (
	defaultSessionBaseURL = "https://thesession.org"
	defaultUserAgent      = "tunesx"
	defaultTimeout        = 30 * time.Second
)

// SessionSearchPage is the body of GET /tunes/search.
type SessionSearchPage struct {
	Format string               `json:"format"`
	Page   int                  `json:"page"`
	Pages  int                  `json:"pages"`
	Total  int                  `json:"total"`
	Tunes  []models.TuneSummary `json:"tunes"`
}

// SessionOpts configures a [SessionService].
type SessionOpts struct {
	BaseURL           string
	UserAgent         string
	Timeout           time.Duration
	RequestsPerSecond float64 // 0 disables the limiter
	HTTPClient        *http.Client
}

// SessionService implements [TuneSource] for thesession.org.
type SessionService struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewSessionService creates a new client for the tune archive.
//
// A provided HTTPClient is used as-is; otherwise one is built with the configured timeout.
func NewSessionService(opts SessionOpts) *SessionService {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultSessionBaseURL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Timeout}
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}

	return &SessionService{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		userAgent:  opts.UserAgent,
		httpClient: opts.HTTPClient,
		limiter:    rate.NewLimiter(limit, 1),
	}
}

// Name returns the archive name.
func (s *SessionService) Name() string {
	return "The Session"
}

// SearchPopular retrieves one page of the popularity ranking.
//
// Calls GET /tunes/search?[type=<type>&]sort=popular&format=json&perpage=<n>&page=<p>.
func (s *SessionService) SearchPopular(ctx context.Context, tuneType string, page, perPage int) ([]models.TuneSummary, error) {
	if page < 1 || perPage < 1 {
		return nil, fmt.Errorf("%w: page and perpage must be positive", shared.ErrInvalidArgument)
	}

	var result SessionSearchPage
	if err := s.doRequest(ctx, "/tunes/search", searchQuery(tuneType, page, perPage), &result); err != nil {
		return nil, err
	}

	if result.Tunes == nil {
		return []models.TuneSummary{}, nil
	}
	return result.Tunes, nil
}

// GetTune retrieves a single tune.
//
// Calls GET /tunes/{id}?format=json. Missing aliases or settings decode to empty slices.
func (s *SessionService) GetTune(ctx context.Context, id int) (*models.TuneDetail, error) {
	var detail models.TuneDetail
	endpoint := fmt.Sprintf("/tunes/%d", id)
	if err := s.doRequest(ctx, endpoint, "format=json", &detail); err != nil {
		return nil, err
	}

	if detail.Aliases == nil {
		detail.Aliases = []string{}
	}
	if detail.Settings == nil {
		detail.Settings = []models.Setting{}
	}
	return &detail, nil
}

// searchQuery builds the listing query string, keeping the parameter order the archive documents.
func searchQuery(tuneType string, page, perPage int) string {
	var parts []string
	if tuneType != "" {
		parts = append(parts, "type="+url.QueryEscape(tuneType))
	}
	parts = append(parts,
		"sort=popular",
		"format=json",
		"perpage="+strconv.Itoa(perPage),
		"page="+strconv.Itoa(page),
	)
	return strings.Join(parts, "&")
}

func (s *SessionService) doRequest(ctx context.Context, endpoint, query string, result any) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	apiURL := s.baseURL + endpoint
	if query != "" {
		apiURL += "?" + query
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		if resp.StatusCode == http.StatusNotFound {
			return fmt.Errorf("%w: %w: status %d", shared.ErrAPIRequest, shared.ErrTuneNotFound, resp.StatusCode)
		}
		return fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("%w: %w", shared.ErrDecode, err)
	}
	return nil
}

var _ TuneSource = (*SessionService)(nil)
