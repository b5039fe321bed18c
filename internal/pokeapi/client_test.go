package pokeapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/go-cmp/cmp"
)

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.String() != defaultBaseURL {
		t.Fatalf("url = %q, want %q", u.String(), defaultBaseURL)
	}

	u, err = parseBaseURL("localhost:9000")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "http" || u.Host != "localhost:9000" {
		t.Fatalf("url = %q, want http://localhost:9000", u.String())
	}

	u, err = parseBaseURL("https://example.com:1234/api?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}
}

// fakeAPI is an in-memory Pokedex backend.
type fakeAPI struct {
	mu        sync.Mutex
	listQuery url.Values
	headers   http.Header
	captured  []string
	released  []string
	status    int
}

func (f *fakeAPI) router() http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			f.mu.Lock()
			f.headers = req.Header.Clone()
			status := f.status
			f.mu.Unlock()
			if status != 0 {
				w.WriteHeader(status)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			next.ServeHTTP(w, req)
		})
	})
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/api/pokemon", func(w http.ResponseWriter, req *http.Request) {
		f.mu.Lock()
		f.listQuery = req.URL.Query()
		f.mu.Unlock()
		_ = json.NewEncoder(w).Encode(ListResponse{
			Pokemon:    []Pokemon{{Number: 6, Name: "Charizard", TypeOne: "Fire"}},
			Total:      12,
			Page:       2,
			PageSize:   5,
			TotalPages: 3,
		})
	})
	r.Get("/api/pokemon/types", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode([]string{"Grass", "Fire", "Water"})
	})
	r.Get("/api/pokemon/captured", func(w http.ResponseWriter, _ *http.Request) {
		f.mu.Lock()
		names := append([]string(nil), f.captured...)
		f.mu.Unlock()
		_ = json.NewEncoder(w).Encode(names)
	})
	r.Post("/api/pokemon/capture/{name}", func(w http.ResponseWriter, req *http.Request) {
		f.mu.Lock()
		f.captured = append(f.captured, chi.URLParam(req, "name"))
		f.mu.Unlock()
		_, _ = w.Write([]byte(`{"status":"captured"}`))
	})
	r.Post("/api/pokemon/release/{name}", func(w http.ResponseWriter, req *http.Request) {
		f.mu.Lock()
		f.released = append(f.released, chi.URLParam(req, "name"))
		f.mu.Unlock()
		_, _ = w.Write([]byte(`{"status":"released"}`))
	})
	return r
}

func newTestClient(t *testing.T, api *fakeAPI) *Client {
	t.Helper()
	server := httptest.NewServer(api.router())
	t.Cleanup(server.Close)
	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	return c
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestClient_ListPokemonEncodesQuery(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{}
	c := newTestClient(t, api)

	page, err := c.ListPokemon(testContext(t), ListQuery{
		Page:      2,
		PageSize:  5,
		SortBy:    "attack",
		SortOrder: "desc",
		Type:      "Fire",
		Search:    "char",
	})
	if err != nil {
		t.Fatalf("ListPokemon returned error: %v", err)
	}
	want := Page{
		Items:      []Pokemon{{Number: 6, Name: "Charizard", TypeOne: "Fire"}},
		TotalItems: 12,
		PageNumber: 2,
		PageSize:   5,
		TotalPages: 3,
	}
	if diff := cmp.Diff(want, page); diff != "" {
		t.Fatalf("page mismatch (-want +got):\n%s", diff)
	}

	api.mu.Lock()
	defer api.mu.Unlock()
	wantQuery := url.Values{
		"page":      {"2"},
		"pageSize":  {"5"},
		"sortBy":    {"attack"},
		"sortOrder": {"desc"},
		"type":      {"Fire"},
		"search":    {"char"},
	}
	if diff := cmp.Diff(wantQuery, api.listQuery); diff != "" {
		t.Fatalf("query mismatch (-want +got):\n%s", diff)
	}
	if got := api.headers.Get("User-Agent"); got != defaultUserAgent {
		t.Fatalf("User-Agent = %q, want %q", got, defaultUserAgent)
	}
	if api.headers.Get(requestIDHeader) == "" {
		t.Fatalf("missing %s header", requestIDHeader)
	}
}

func TestClient_ListPokemonOmitsEmptyFilters(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{}
	c := newTestClient(t, api)

	if _, err := c.ListPokemon(testContext(t), ListQuery{Page: 1, PageSize: 10, SortBy: "number", SortOrder: "asc"}); err != nil {
		t.Fatalf("ListPokemon returned error: %v", err)
	}
	api.mu.Lock()
	defer api.mu.Unlock()
	if _, ok := api.listQuery["type"]; ok {
		t.Fatalf("type sent for empty filter: %v", api.listQuery)
	}
	if _, ok := api.listQuery["search"]; ok {
		t.Fatalf("search sent for empty filter: %v", api.listQuery)
	}
}

func TestClient_TypesCapturedAndMutations(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{}
	c := newTestClient(t, api)
	ctx := testContext(t)

	types, err := c.ListTypes(ctx)
	if err != nil {
		t.Fatalf("ListTypes returned error: %v", err)
	}
	if diff := cmp.Diff([]string{"Grass", "Fire", "Water"}, types); diff != "" {
		t.Fatalf("types mismatch (-want +got):\n%s", diff)
	}

	if err := c.Capture(ctx, "Mr. Mime"); err != nil {
		t.Fatalf("Capture returned error: %v", err)
	}
	if err := c.Release(ctx, "Pikachu"); err != nil {
		t.Fatalf("Release returned error: %v", err)
	}

	names, err := c.FetchCaptured(ctx)
	if err != nil {
		t.Fatalf("FetchCaptured returned error: %v", err)
	}
	if diff := cmp.Diff([]string{"Mr. Mime"}, names); diff != "" {
		t.Fatalf("captured mismatch (-want +got):\n%s", diff)
	}
	api.mu.Lock()
	defer api.mu.Unlock()
	if diff := cmp.Diff([]string{"Pikachu"}, api.released); diff != "" {
		t.Fatalf("released mismatch (-want +got):\n%s", diff)
	}
}

func TestClient_CaptureRequiresName(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, &fakeAPI{})
	if err := c.Capture(testContext(t), "  "); err == nil {
		t.Fatalf("Capture with blank name returned nil error")
	}
}

func TestClient_StatusErrors(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, &fakeAPI{status: http.StatusInternalServerError})

	_, err := c.ListPokemon(testContext(t), ListQuery{Page: 1, PageSize: 10, SortBy: "number", SortOrder: "asc"})
	if err == nil {
		t.Fatalf("ListPokemon returned nil error on 500")
	}
	if !errors.Is(err, ErrStatus) {
		t.Fatalf("error %v does not wrap ErrStatus", err)
	}
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.Code != http.StatusInternalServerError {
		t.Fatalf("error %v is not a 500 StatusError", err)
	}
	if got, want := err.Error(), "api /api/pokemon returned status 500"; got != want {
		t.Fatalf("error = %q, want %q", got, want)
	}

	if err := c.Ping(testContext(t)); !errors.Is(err, ErrStatus) {
		t.Fatalf("Ping error = %v, want ErrStatus", err)
	}
}

func TestClient_DecodeError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("{not json"))
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if _, err := c.ListTypes(testContext(t)); err == nil {
		t.Fatalf("ListTypes returned nil error for malformed JSON")
	}
}

func TestClient_ContextCancellation(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(server.Close)
	t.Cleanup(func() { close(release) })

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.ListTypes(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("ListTypes error = %v, want context.Canceled", err)
	}
}

func TestClient_NilReceiver(t *testing.T) {
	var c *Client
	if _, err := c.ListTypes(context.Background()); err == nil {
		t.Fatalf("nil client returned nil error")
	}
	if err := c.Release(context.Background(), "Pikachu"); err == nil {
		t.Fatalf("nil client returned nil error")
	}
}
