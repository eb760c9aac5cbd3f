package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/cristianoliveira/casewatch/internal/api"
	"github.com/cristianoliveira/casewatch/internal/colors"
	"github.com/cristianoliveira/casewatch/internal/domain"
)

var fixedNow = time.Date(2024, 3, 14, 9, 0, 0, 0, time.UTC)

// request is one call seen by the test backend.
type request struct {
	method string
	path   string
	query  url.Values
}

// testBackend is an in-memory case backend served over HTTP.
type testBackend struct {
	mu         sync.Mutex
	alerts     []domain.Alert
	persons    []domain.Person
	detections []domain.Detection
	notifs     []map[string]any
	requests   []request
	failAll    int
	failMark   int
	token      string
}

func newTestBackend(t *testing.T) (*testBackend, *api.Client) {
	t.Helper()
	b := &testBackend{token: "tok-123"}

	r := chi.NewRouter()
	r.Use(b.record)
	r.Route("/api", func(r chi.Router) {
		r.Get("/alerts", b.serveAlerts)
		r.Get("/alerts/search", b.serveAlerts)
		r.Get("/persons", b.servePersons)
		r.Get("/persons/search", b.servePersons)
		r.Get("/detections", b.serveDetections)
		r.Get("/detections/search", b.serveDetections)
		r.Get("/notifications", b.listNotifications)
		r.Patch("/notifications/read-all", b.readAll)
		r.Patch("/notifications/{id}/read", b.readOne)
		r.Post("/auth/phone/send", b.sendCode)
		r.Post("/auth/phone/verify", b.verifyCode)
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	client, err := api.New(srv.URL + "/api")
	require.NoError(t, err)
	return b, client
}

func (b *testBackend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.requests = append(b.requests, request{method: r.Method, path: r.URL.Path, query: r.URL.Query()})
		fail := b.failAll
		b.mu.Unlock()
		if fail != 0 {
			w.WriteHeader(fail)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestsTo returns the recorded requests whose path is path.
func (b *testBackend) requestsTo(path string) []request {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []request
	for _, r := range b.requests {
		if r.path == path {
			out = append(out, r)
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func pageOf[T any](items []T, q url.Values) map[string]any {
	page, _ := strconv.Atoi(q.Get("page"))
	size, _ := strconv.Atoi(q.Get("pageSize"))
	start := (page - 1) * size
	if start > len(items) {
		start = len(items)
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return map[string]any{"data": items[start:end], "total": len(items)}
}

func (b *testBackend) serveAlerts(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	q := r.URL.Query()
	risks := q["risk"]
	var out []domain.Alert
	for _, a := range b.alerts {
		if text := q.Get("q"); text != "" && !strings.Contains(strings.ToLower(a.Title), strings.ToLower(text)) {
			continue
		}
		if len(risks) > 0 && !contains(risks, string(a.Risk)) {
			continue
		}
		out = append(out, a)
	}
	if out == nil {
		out = []domain.Alert{}
	}
	writeJSON(w, pageOf(out, q))
}

func (b *testBackend) servePersons(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	q := r.URL.Query()
	var out []domain.Person
	for _, p := range b.persons {
		if st := q.Get("status"); st != "" && string(p.Status) != st {
			continue
		}
		out = append(out, p)
	}
	if out == nil {
		out = []domain.Person{}
	}
	writeJSON(w, pageOf(out, q))
}

func (b *testBackend) serveDetections(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	q := r.URL.Query()
	var out []domain.Detection
	for _, d := range b.detections {
		if cams := q["camera"]; len(cams) > 0 && !contains(cams, d.CameraID) {
			continue
		}
		out = append(out, d)
	}
	if out == nil {
		out = []domain.Detection{}
	}
	writeJSON(w, pageOf(out, q))
}

func (b *testBackend) listNotifications(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	items := b.notifs
	if items == nil {
		items = []map[string]any{}
	}
	writeJSON(w, map[string]any{"data": items})
}

func (b *testBackend) readAll(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failMark != 0 {
		w.WriteHeader(b.failMark)
		return
	}
	for _, n := range b.notifs {
		n["read"] = true
	}
	w.WriteHeader(http.StatusNoContent)
}

func (b *testBackend) readOne(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failMark != 0 {
		w.WriteHeader(b.failMark)
		return
	}
	id := chi.URLParam(r, "id")
	for _, n := range b.notifs {
		if n["id"] == id {
			n["read"] = true
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	w.WriteHeader(http.StatusNotFound)
	writeJSON(w, map[string]string{"error": "notification not found"})
}

func (b *testBackend) sendCode(w http.ResponseWriter, r *http.Request) {
	var body struct {
		PhoneNumber string `json:"phoneNumber"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.PhoneNumber == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	writeJSON(w, map[string]string{"verificationId": "ver-" + body.PhoneNumber})
}

func (b *testBackend) verifyCode(w http.ResponseWriter, r *http.Request) {
	var body struct {
		VerificationID string `json:"verificationId"`
		Code           string `json:"code"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)
	if body.Code != "123456" {
		w.WriteHeader(http.StatusUnauthorized)
		writeJSON(w, map[string]string{"error": "invalid code"})
		return
	}
	b.mu.Lock()
	token := b.token
	b.mu.Unlock()
	writeJSON(w, map[string]string{"token": token})
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

func seedAlerts(n int) []domain.Alert {
	risks := []domain.RiskLevel{domain.RiskLow, domain.RiskMedium, domain.RiskHigh, domain.RiskCritical}
	out := make([]domain.Alert, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, domain.Alert{
			ID:        fmt.Sprintf("al-%02d", i),
			Title:     fmt.Sprintf("Match %02d", i),
			Location:  fmt.Sprintf("Gate %d", i%3),
			Risk:      risks[i%len(risks)],
			CreatedAt: fixedNow.Add(-time.Duration(i) * time.Hour),
		})
	}
	return out
}

func notification(id string, read bool) map[string]any {
	return map[string]any{
		"id":        id,
		"message":   "subject " + id + " sighted",
		"type":      "alert",
		"read":      read,
		"createdAt": fixedNow.Add(-time.Minute).Format(time.RFC3339),
	}
}

// useFixedClock pins the package clock for one test.
func useFixedClock(t *testing.T) {
	t.Helper()
	orig := now
	now = func() time.Time { return fixedNow }
	t.Cleanup(func() { now = orig })
}

// captureConsole redirects colors output for one test.
func captureConsole(t *testing.T) (stdout, stderr *bytes.Buffer) {
	t.Helper()
	stdout, stderr = &bytes.Buffer{}, &bytes.Buffer{}
	colors.SetOutput(stdout, stderr)
	t.Cleanup(func() { colors.SetOutput(nil, nil) })
	return stdout, stderr
}

// run executes c with args and returns what it printed.
func run(t *testing.T, c *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	c.SetOut(&out)
	c.SetErr(&out)
	c.SetArgs(args)
	err := c.Execute()
	return out.String(), err
}
