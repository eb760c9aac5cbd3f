package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/cristianoliveira/casewatch/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ts = time.Date(2024, 3, 14, 9, 0, 0, 0, time.UTC)

type recorded struct {
	Method string
	Path   string
	Query  map[string][]string
	Header http.Header
	Body   map[string]string
}

type backend struct {
	mu       sync.Mutex
	requests []recorded
	router   chi.Router
}

func newBackend(t *testing.T) (*backend, *Client) {
	t.Helper()
	b := &backend{router: chi.NewRouter()}
	b.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := recorded{Method: r.Method, Path: r.URL.Path, Query: r.URL.Query(), Header: r.Header.Clone()}
			if r.Body != nil {
				_ = json.NewDecoder(r.Body).Decode(&rec.Body)
			}
			b.mu.Lock()
			b.requests = append(b.requests, rec)
			b.mu.Unlock()
			next.ServeHTTP(w, r)
		})
	})
	srv := httptest.NewServer(b.router)
	t.Cleanup(srv.Close)

	client, err := New(srv.URL+"/api", WithToken("secret-token"), WithRequestID(func() string { return "req-1" }))
	require.NoError(t, err)
	return b, client
}

func (b *backend) last(t *testing.T) recorded {
	t.Helper()
	b.mu.Lock()
	defer b.mu.Unlock()
	require.NotEmpty(t, b.requests)
	return b.requests[len(b.requests)-1]
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestNewRejectsInvalidBaseURL(t *testing.T) {
	for _, raw := range []string{"", "localhost:8080", "ftp://host", "http://"} {
		_, err := New(raw)
		assert.Error(t, err, raw)
	}
}

func TestListAlertsSendsFiltersAndPagination(t *testing.T) {
	b, client := newBackend(t)
	b.router.Get("/api/alerts", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"data": []domain.Alert{
				{ID: "a1", Title: "Match", Risk: domain.RiskHigh, Location: "Airport", CreatedAt: ts},
			},
			"total": 31,
		})
	})

	rng, err := domain.ParseDateRange("2024-03-07", "2024-03-14")
	require.NoError(t, err)
	page, err := client.ListAlerts(context.Background(), domain.AlertFilter{
		Range:     rng,
		Risks:     []domain.RiskLevel{domain.RiskHigh},
		Locations: []string{"Airport", "Station"},
	}, 2, 10)
	require.NoError(t, err)

	assert.Equal(t, 31, page.Total)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "a1", page.Data[0].ID)

	req := b.last(t)
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "/api/alerts", req.Path)
	want := map[string][]string{
		"page":      {"2"},
		"pageSize":  {"10"},
		"startDate": {"2024-03-07"},
		"endDate":   {"2024-03-14"},
		"risk":      {"high"},
		"location":  {"Airport", "Station"},
	}
	if diff := cmp.Diff(want, req.Query); diff != "" {
		t.Errorf("query mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "Bearer secret-token", req.Header.Get("Authorization"))
	assert.Equal(t, "req-1", req.Header.Get("X-Request-ID"))
	assert.Contains(t, req.Header.Get("User-Agent"), "casewatch/")
}

func TestSearchAlertsUsesSearchEndpoint(t *testing.T) {
	b, client := newBackend(t)
	b.router.Get("/api/alerts/search", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"data": []domain.Alert{}, "total": 0})
	})

	page, err := client.SearchAlerts(context.Background(), domain.AlertFilter{Query: "jane"}, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, page.Data)
	assert.Equal(t, "jane", b.last(t).Query["q"][0])
}

func TestListAlertsDropsQueryText(t *testing.T) {
	b, client := newBackend(t)
	b.router.Get("/api/alerts", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"data": []domain.Alert{}, "total": 0})
	})

	_, err := client.ListAlerts(context.Background(), domain.AlertFilter{Query: "ignored"}, 1, 10)
	require.NoError(t, err)
	assert.NotContains(t, b.last(t).Query, "q")
}

func TestPersonAndDetectionEndpoints(t *testing.T) {
	b, client := newBackend(t)
	b.router.Get("/api/persons/search", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"data":  []domain.Person{{ID: "p1", Name: "Jane Roe", Risk: domain.RiskMedium}},
			"total": 1,
		})
	})
	b.router.Get("/api/detections", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"data":  []domain.Detection{{ID: "d1", CameraID: "cam-7", Confidence: 0.91, DetectedAt: ts}},
			"total": 12,
		})
	})

	persons, err := PersonSource{Client: client}.Search(context.Background(), domain.PersonFilter{Query: "roe"}, 1, 5)
	require.NoError(t, err)
	assert.Equal(t, "Jane Roe", persons.Data[0].Name)

	dets, err := DetectionSource{Client: client}.List(context.Background(), domain.DetectionFilter{Cameras: []string{"cam-7"}}, 1, 5)
	require.NoError(t, err)
	assert.Equal(t, 12, dets.Total)
	assert.Equal(t, []string{"cam-7"}, b.last(t).Query["camera"])
}

func TestMalformedPagesAreRejected(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `{"data": [`},
		{"missing total", `{"data": []}`},
		{"missing data", `{"total": 3}`},
		{"null data", `{"data": null, "total": 0}`},
		{"negative total", `{"data": [], "total": -1}`},
		{"invalid item", `{"data": [{"id": "", "riskLevel": "low", "createdAt": "2024-03-14T09:00:00Z"}], "total": 1}`},
		{"unknown risk", `{"data": [{"id": "a", "riskLevel": "extreme", "createdAt": "2024-03-14T09:00:00Z"}], "total": 1}`},
		{"duplicate ids", `{"data": [{"id": "a", "riskLevel": "low", "createdAt": "2024-03-14T09:00:00Z"}, {"id": "a", "riskLevel": "low", "createdAt": "2024-03-14T09:00:00Z"}], "total": 2}`},
		{"wrong type", `{"data": "nope", "total": 1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, client := newBackend(t)
			b.router.Get("/api/alerts", func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.ListAlerts(context.Background(), domain.AlertFilter{}, 1, 10)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedResponse), "got %v", err)
		})
	}
}

func TestStatusErrors(t *testing.T) {
	b, client := newBackend(t)
	b.router.Get("/api/alerts", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"error": map[string]string{"message": "maintenance"}})
	})
	b.router.Get("/api/persons", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "token expired"})
	})

	_, err := client.ListAlerts(context.Background(), domain.AlertFilter{}, 1, 10)
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
	assert.Equal(t, "maintenance", statusErr.Message)
	assert.True(t, statusErr.Temporary())

	_, err = client.ListPersons(context.Background(), domain.PersonFilter{}, 1, 10)
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, "token expired", statusErr.Message)
	assert.False(t, statusErr.Temporary())
	assert.Contains(t, err.Error(), "status 401")
}

func TestCancelledContextAbortsRequest(t *testing.T) {
	b, client := newBackend(t)
	release := make(chan struct{})
	defer close(release)
	b.router.Get("/api/alerts", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	_, err := client.ListAlerts(ctx, domain.AlertFilter{}, 1, 10)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
}
