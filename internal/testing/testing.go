// package testing contains shared testing utilities
package testing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/tunesx/internal/models"
)

// MockArchive is an in-memory tune archive satisfying services.TuneSource.
//
// Ranking holds the popularity order; Details holds per-id payloads. Ids listed in
// DetailErrors fail with the given error, and pages listed in PageErrors fail likewise.
type MockArchive struct {
	mu           sync.Mutex
	Ranking      []models.TuneSummary
	Details      map[int]*models.TuneDetail
	DetailErrors map[int]error
	PageErrors   map[int]error
	PageCalls    []int
	DetailCalls  []int
}

// NewMockArchive builds an archive of n tunes with ids 1..n, each with a single setting.
func NewMockArchive(n int) *MockArchive {
	m := &MockArchive{
		Details:      make(map[int]*models.TuneDetail, n),
		DetailErrors: map[int]error{},
		PageErrors:   map[int]error{},
	}
	for id := 1; id <= n; id++ {
		name := fmt.Sprintf("Tune %d", id)
		m.Ranking = append(m.Ranking, models.TuneSummary{ID: id, Name: name})
		m.Details[id] = &models.TuneDetail{
			ID:        id,
			Name:      name,
			Type:      "reel",
			Tunebooks: 1000 - id,
			Aliases:   []string{},
			Settings:  []models.Setting{{ID: id, ABC: fmt.Sprintf("X:%d", id), Key: "Dmajor"}},
		}
	}
	return m
}

func (m *MockArchive) SearchPopular(ctx context.Context, tuneType string, page, perPage int) ([]models.TuneSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.PageCalls = append(m.PageCalls, page)
	if err, ok := m.PageErrors[page]; ok {
		return nil, err
	}

	start := (page - 1) * perPage
	if start >= len(m.Ranking) {
		return []models.TuneSummary{}, nil
	}
	end := min(start+perPage, len(m.Ranking))

	out := make([]models.TuneSummary, end-start)
	copy(out, m.Ranking[start:end])
	return out, nil
}

func (m *MockArchive) GetTune(ctx context.Context, id int) (*models.TuneDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.DetailCalls = append(m.DetailCalls, id)
	if err, ok := m.DetailErrors[id]; ok {
		return nil, err
	}
	detail, ok := m.Details[id]
	if !ok {
		return nil, errors.New("tune not found")
	}
	return detail, nil
}

func (m *MockArchive) Name() string { return "mock" }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

// MustReadRecords decodes a JSON dataset written by the harvester.
func MustReadRecords(t *testing.T, path string) []models.TuneRecord {
	t.Helper()
	var records []models.TuneRecord
	if err := json.Unmarshal([]byte(MustReadFile(t, path)), &records); err != nil {
		t.Fatalf("Failed to decode records from %s: %v", path, err)
	}
	return records
}
