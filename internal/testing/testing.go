// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/comix/internal/models"
)

// FetchCall records a [FakeGateway.FetchList] invocation.
type FetchCall struct {
	Status models.Status
	Query  string
}

// PersistCall records a [FakeGateway.PersistStatus] invocation.
type PersistCall struct {
	Status models.Status
	Comic  models.Comic
}

// FakeGateway is an in-memory library service that behaves like the real one.
//
// Set the *Err fields to make calls fail, or the *Func fields to take over a call entirely.
type FakeGateway struct {
	mu sync.Mutex

	Lists  map[models.Status][]models.Comic
	NextID int64

	FetchErr   map[models.Status]error
	PersistErr error
	DeleteErr  error

	FetchFunc   func(ctx context.Context, status models.Status, query string) ([]models.Comic, error)
	PersistFunc func(ctx context.Context, status models.Status, comic models.Comic) (models.Comic, error)

	Fetches  []FetchCall
	Persists []PersistCall
	Deletes  []int64
}

// NewFakeGateway creates a gateway with empty lists that assigns ids starting at firstID.
func NewFakeGateway(firstID int64) *FakeGateway {
	return &FakeGateway{
		Lists:    make(map[models.Status][]models.Comic),
		FetchErr: make(map[models.Status]error),
		NextID:   firstID,
	}
}

func (f *FakeGateway) FetchList(ctx context.Context, status models.Status, query string) ([]models.Comic, error) {
	f.mu.Lock()
	f.Fetches = append(f.Fetches, FetchCall{Status: status, Query: query})
	fn := f.FetchFunc
	f.mu.Unlock()

	if fn != nil {
		return fn(ctx, status, query)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.FetchErr[status]; err != nil {
		return nil, err
	}

	var out []models.Comic
	term := strings.ToLower(query)
	for _, c := range f.Lists[status] {
		if term == "" || matches(c, term) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *FakeGateway) PersistStatus(ctx context.Context, status models.Status, comic models.Comic) (models.Comic, error) {
	f.mu.Lock()
	f.Persists = append(f.Persists, PersistCall{Status: status, Comic: comic})
	fn := f.PersistFunc
	f.mu.Unlock()

	if fn != nil {
		return fn(ctx, status, comic)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.PersistErr != nil {
		return models.Comic{}, f.PersistErr
	}

	if comic.ID == 0 {
		comic.ID = f.NextID
		f.NextID++
	}
	for st, list := range f.Lists {
		f.Lists[st] = slices.DeleteFunc(slices.Clone(list), func(c models.Comic) bool { return c.ID == comic.ID })
	}
	f.Lists[status] = append([]models.Comic{comic}, f.Lists[status]...)
	return comic, nil
}

func (f *FakeGateway) DeleteTrashEntry(ctx context.Context, comicID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Deletes = append(f.Deletes, comicID)
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	f.Lists[models.Trash] = slices.DeleteFunc(slices.Clone(f.Lists[models.Trash]), func(c models.Comic) bool { return c.ID == comicID })
	return nil
}

// FetchCalls returns a copy of the recorded fetches.
func (f *FakeGateway) FetchCalls() []FetchCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.Fetches)
}

// PersistCalls returns a copy of the recorded persists.
func (f *FakeGateway) PersistCalls() []PersistCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.Persists)
}

// DeleteCalls returns a copy of the recorded deletes.
func (f *FakeGateway) DeleteCalls() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.Deletes)
}

func matches(c models.Comic, term string) bool {
	for _, field := range []string{c.Title, c.Author, c.Genre} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

// Eventually polls cond until it returns true or the timeout elapses.
func Eventually(t *testing.T, timeout time.Duration, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met within %v: %s", timeout, msg)
}

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
