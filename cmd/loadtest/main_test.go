package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseMode(t *testing.T) {
	cases := []struct {
		input   string
		want    loadMode
		wantErr bool
	}{
		{input: "place", want: modePlace},
		{input: " place-read ", want: modePlaceRead},
		{input: "create", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tc := range cases {
		got, err := parseMode(tc.input)
		if tc.wantErr {
			if err == nil {
				t.Errorf("parseMode(%q): expected error", tc.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseMode(%q): unexpected error: %v", tc.input, err)
			continue
		}
		if got != tc.want {
			t.Errorf("parseMode(%q) = %s, want %s", tc.input, got, tc.want)
		}
	}
}

func TestHTTPCode(t *testing.T) {
	if code := httpCode(201, nil); code != "201" {
		t.Errorf("expected '201', got %s", code)
	}
	if code := httpCode(0, os.ErrDeadlineExceeded); code != codeTransportError {
		t.Errorf("expected %s, got %s", codeTransportError, code)
	}
}

func TestRatio(t *testing.T) {
	if got := ratio(1, 4); got != 0.25 {
		t.Errorf("expected 0.25, got %f", got)
	}
	if got := ratio(1, 0); got != 0 {
		t.Errorf("expected 0 for empty total, got %f", got)
	}
}

func TestPercentile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4, 5}

	if got := percentile(sorted, 50); got != 3 {
		t.Errorf("expected p50=3, got %f", got)
	}
	if got := percentile(sorted, 100); got != 5 {
		t.Errorf("expected p100=5, got %f", got)
	}
	if got := percentile(nil, 95); got != 0 {
		t.Errorf("expected 0 for empty input, got %f", got)
	}
	if got := percentile([]float64{7}, 99); got != 7 {
		t.Errorf("expected single value, got %f", got)
	}
}

func TestBuildLatencySummary(t *testing.T) {
	summary := buildLatencySummary([]float64{4, 1, 3, 2})

	if summary.Min != 1 || summary.Max != 4 {
		t.Errorf("unexpected min/max: %+v", summary)
	}
	if summary.Avg != 2.5 {
		t.Errorf("expected avg 2.5, got %f", summary.Avg)
	}

	empty := buildLatencySummary(nil)
	if empty != (latencySummary{}) {
		t.Errorf("expected zero summary for empty input, got %+v", empty)
	}
}

func TestCollector_BuildReport(t *testing.T) {
	col := newCollector()

	col.record("scenario", 10*time.Millisecond, "201", true)
	col.record("scenario", 20*time.Millisecond, codeTransportError, false)
	col.record("PlaceOrder", 5*time.Millisecond, "201", true)

	startedAt := time.Now().Add(-time.Second)
	result := col.buildReport(startedAt, time.Second)

	if result.TotalScenarios != 2 || result.SuccessScenarios != 1 || result.FailedScenarios != 1 {
		t.Fatalf("unexpected scenario counts: %+v", result)
	}
	if result.ErrorRate != 0.5 {
		t.Errorf("expected error rate 0.5, got %f", result.ErrorRate)
	}
	if result.RPS != 2 {
		t.Errorf("expected rps 2, got %f", result.RPS)
	}

	place, ok := result.Methods["PlaceOrder"]
	if !ok {
		t.Fatal("expected PlaceOrder method report")
	}
	if place.Calls != 1 || place.Codes["201"] != 1 {
		t.Errorf("unexpected PlaceOrder report: %+v", place)
	}
}

func TestDispatchJobs_CountMode(t *testing.T) {
	jobs := make(chan int, 16)
	dispatchJobs(jobs, config{total: 5})

	var count int
	for range jobs {
		count++
	}
	if count != 5 {
		t.Fatalf("expected 5 jobs, got %d", count)
	}
}

func TestDispatchJobs_DurationWithCap(t *testing.T) {
	jobs := make(chan int, 16)
	dispatchJobs(jobs, config{
		total:    3,
		totalSet: true,
		duration: time.Minute,
	})

	var count int
	for range jobs {
		count++
	}
	if count != 3 {
		t.Fatalf("expected 3 jobs with explicit cap, got %d", count)
	}
}

func TestWriteJSONReport(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.json")

	result := report{TotalScenarios: 7}
	if err := writeJSONReport(path, result); err != nil {
		t.Fatalf("writeJSONReport failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}

	var decoded report
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if decoded.TotalScenarios != 7 {
		t.Fatalf("unexpected decoded report: %+v", decoded)
	}
}

func TestWriteJSONReport_RejectsBadPaths(t *testing.T) {
	if err := writeJSONReport(".", report{}); err == nil {
		t.Error("expected error for current directory path")
	}
	if err := writeJSONReport("../escape.json", report{}); err == nil {
		t.Error("expected error for parent directory path")
	}
}

func TestRunScenario_PlaceRead(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/orders":
			if r.Header.Get("Authorization") != "Bearer loadtest" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"id":"order-1"}`))
		case r.Method == http.MethodGet && r.URL.Path == "/orders/order-1":
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"id":"order-1"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client := &shopClient{
		http:    srv.Client(),
		token:   "loadtest",
		timeout: 2 * time.Second,
	}
	cfg := config{
		orderAddr: srv.URL,
		mode:      modePlaceRead,
		qty:       1,
	}

	col := newCollector()
	if err := runScenario(client, cfg, "product-1", col); err != nil {
		t.Fatalf("runScenario failed: %v", err)
	}

	result := col.buildReport(time.Now(), time.Second)
	if result.Methods["PlaceOrder"].Success != 1 {
		t.Fatalf("expected successful PlaceOrder, got %+v", result.Methods["PlaceOrder"])
	}
	if result.Methods["GetOrder"].Success != 1 {
		t.Fatalf("expected successful GetOrder, got %+v", result.Methods["GetOrder"])
	}
}

func TestSeedProduct(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/products/" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"product-42"}`))
	}))
	defer srv.Close()

	client := &shopClient{
		http:    srv.Client(),
		token:   "loadtest",
		timeout: 2 * time.Second,
	}

	id, err := seedProduct(client, config{catalogAddr: srv.URL, price: "9.99", stock: 100}, "run")
	if err != nil {
		t.Fatalf("seedProduct failed: %v", err)
	}
	if id != "product-42" {
		t.Fatalf("unexpected product id: %s", id)
	}
}
