package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/desertthunder/tunesx/internal/shared"
	tu "github.com/desertthunder/tunesx/internal/testing"
)

func TestSessionService(t *testing.T) {
	t.Run("NewSessionService", func(t *testing.T) {
		t.Run("applies defaults", func(t *testing.T) {
			svc := NewSessionService(SessionOpts{})
			if svc.baseURL != defaultSessionBaseURL {
				t.Errorf("expected baseURL %s, got %s", defaultSessionBaseURL, svc.baseURL)
			}
			if svc.userAgent != defaultUserAgent {
				t.Errorf("expected user agent %s, got %s", defaultUserAgent, svc.userAgent)
			}
			if svc.httpClient.Timeout != defaultTimeout {
				t.Errorf("expected timeout %v, got %v", defaultTimeout, svc.httpClient.Timeout)
			}
		})

		t.Run("trims trailing slash", func(t *testing.T) {
			if svc := NewSessionService(SessionOpts{BaseURL: "http://localhost:9000/"}); svc.baseURL != "http://localhost:9000" {
				t.Errorf("expected trimmed baseURL, got %s", svc.baseURL)
			}
		})

		t.Run("keeps provided client", func(t *testing.T) {
			client := &http.Client{Timeout: time.Second}
			if svc := NewSessionService(SessionOpts{HTTPClient: client}); svc.httpClient != client {
				t.Error("expected provided client to be used")
			}
		})
	})

	t.Run("Name", func(t *testing.T) {
		if svc := NewSessionService(SessionOpts{}); svc.Name() != "The Session" {
			t.Errorf("expected name 'The Session', got %s", svc.Name())
		}
	})

	t.Run("SearchPopular", func(t *testing.T) {
		t.Run("global ranking", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/tunes/search" {
					t.Errorf("expected path /tunes/search, got %s", r.URL.Path)
				}
				if r.Method != http.MethodGet {
					t.Errorf("expected GET method, got %s", r.Method)
				}
				if got := r.URL.RawQuery; got != "sort=popular&format=json&perpage=50&page=2" {
					t.Errorf("unexpected query %s", got)
				}
				if r.Header.Get("User-Agent") != "tunesx-test" {
					t.Errorf("expected User-Agent header, got %q", r.Header.Get("User-Agent"))
				}

				w.Header().Set("Content-Type", "application/json")
				json.NewEncoder(w).Encode(map[string]any{
					"format": "json",
					"page":   2,
					"pages":  30,
					"tunes": []map[string]any{
						{"id": 27, "name": "Drowsy Maggie", "type": "reel"},
						{"id": 1, "name": "Cooley's", "type": "reel"},
					},
				})
			}))
			defer server.Close()

			svc := NewSessionService(SessionOpts{BaseURL: server.URL, UserAgent: "tunesx-test"})
			tunes, err := svc.SearchPopular(context.Background(), "", 2, 50)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if len(tunes) != 2 {
				t.Fatalf("expected 2 tunes, got %d", len(tunes))
			}
			if tunes[0].ID != 27 || tunes[0].Name != "Drowsy Maggie" {
				t.Errorf("unexpected first tune %+v", tunes[0])
			}
		})

		t.Run("type filter", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if got := r.URL.RawQuery; got != "type=slip+jig&sort=popular&format=json&perpage=10&page=1" {
					t.Errorf("unexpected query %s", got)
				}
				w.Write([]byte(`{"tunes": []}`))
			}))
			defer server.Close()

			svc := NewSessionService(SessionOpts{BaseURL: server.URL})
			tunes, err := svc.SearchPopular(context.Background(), "slip jig", 1, 10)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(tunes) != 0 {
				t.Errorf("expected empty page, got %d", len(tunes))
			}
		})

		t.Run("missing tunes field is an empty page", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"format": "json"}`))
			}))
			defer server.Close()

			tunes, err := NewSessionService(SessionOpts{BaseURL: server.URL}).SearchPopular(context.Background(), "", 1, 50)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if tunes == nil || len(tunes) != 0 {
				t.Errorf("expected empty non-nil slice, got %v", tunes)
			}
		})

		t.Run("non-200 status", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
			}))
			defer server.Close()

			_, err := NewSessionService(SessionOpts{BaseURL: server.URL}).SearchPopular(context.Background(), "", 1, 50)
			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected ErrAPIRequest, got %v", err)
			}
		})

		t.Run("rejects invalid paging", func(t *testing.T) {
			_, err := NewSessionService(SessionOpts{}).SearchPopular(context.Background(), "", 0, 50)
			if !errors.Is(err, shared.ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument, got %v", err)
			}
		})
	})

	t.Run("GetTune", func(t *testing.T) {
		t.Run("decodes detail", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/tunes/27" {
					t.Errorf("expected path /tunes/27, got %s", r.URL.Path)
				}
				if r.URL.Query().Get("format") != "json" {
					t.Errorf("expected format=json")
				}

				json.NewEncoder(w).Encode(map[string]any{
					"id":        27,
					"name":      "Drowsy Maggie",
					"type":      "reel",
					"tunebooks": 4210,
					"aliases":   []string{"Drowsey Maggie", "Maggie Tuirseach"},
					"settings": []map[string]any{
						{"id": 27, "key": "Edorian", "abc": "|:E2BE dEBE|"},
						{"id": 12345, "key": "Dmajor", "abc": "X"},
					},
				})
			}))
			defer server.Close()

			detail, err := NewSessionService(SessionOpts{BaseURL: server.URL}).GetTune(context.Background(), 27)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if detail.Name != "Drowsy Maggie" || detail.Type != "reel" || detail.Tunebooks != 4210 {
				t.Errorf("unexpected detail %+v", detail)
			}
			if len(detail.Aliases) != 2 {
				t.Errorf("expected 2 aliases, got %d", len(detail.Aliases))
			}
			setting, ok := detail.FirstSetting()
			if !ok || setting.Key != "Edorian" {
				t.Errorf("unexpected first setting %+v", setting)
			}
		})

		t.Run("missing settings and aliases default to empty", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"id": 5, "name": "Bare", "type": "jig"}`))
			}))
			defer server.Close()

			detail, err := NewSessionService(SessionOpts{BaseURL: server.URL}).GetTune(context.Background(), 5)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if detail.Aliases == nil || detail.Settings == nil {
				t.Errorf("expected empty slices, got %+v", detail)
			}
		})

		t.Run("not found", func(t *testing.T) {
			server := httptest.NewServer(http.NotFoundHandler())
			defer server.Close()

			_, err := NewSessionService(SessionOpts{BaseURL: server.URL}).GetTune(context.Background(), 999999)
			if !errors.Is(err, shared.ErrTuneNotFound) || !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected ErrTuneNotFound wrapping ErrAPIRequest, got %v", err)
			}
		})

		t.Run("malformed body", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`<html>maintenance</html>`))
			}))
			defer server.Close()

			_, err := NewSessionService(SessionOpts{BaseURL: server.URL}).GetTune(context.Background(), 1)
			if !errors.Is(err, shared.ErrDecode) {
				t.Errorf("expected ErrDecode, got %v", err)
			}
		})

		t.Run("transport failure", func(t *testing.T) {
			client := &http.Client{Transport: tu.NewMockRoundTripper(nil, errors.New("connection reset"))}
			_, err := NewSessionService(SessionOpts{HTTPClient: client}).GetTune(context.Background(), 1)
			if err == nil {
				t.Fatal("expected transport error")
			}
		})
		t.Run("body read failure", func(t *testing.T) {
			resp := &http.Response{StatusCode: http.StatusOK, Body: &tu.FCloser{}}
			client := &http.Client{Transport: tu.NewMockRoundTripper(resp, nil)}
			_, err := NewSessionService(SessionOpts{HTTPClient: client}).GetTune(context.Background(), 1)
			if !errors.Is(err, shared.ErrDecode) {
				t.Errorf("expected ErrDecode, got %v", err)
			}
		})
	})

	t.Run("rate limiter honours context", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"tunes": []}`))
		}))
		defer server.Close()

		svc := NewSessionService(SessionOpts{BaseURL: server.URL, RequestsPerSecond: 0.001})
		if _, err := svc.SearchPopular(context.Background(), "", 1, 50); err != nil {
			t.Fatalf("first request should use the burst token: %v", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		if _, err := svc.SearchPopular(ctx, "", 2, 50); err == nil {
			t.Error("expected limiter wait to fail once the context expires")
		}
	})
}
