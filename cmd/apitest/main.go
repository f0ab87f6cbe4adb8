package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/zapponejosh/perpetual-calendar/internal/calendar"
)

// =============================================================================
// Response Types
// =============================================================================

type APIResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *ErrorInfo      `json:"error,omitempty"`
}

type ErrorInfo struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// OccurrencesResponse is the response for /occurrences
type OccurrencesResponse struct {
	Query   calendar.Query   `json:"query"`
	Stats   calendar.Stats   `json:"stats"`
	Cached  bool             `json:"cached"`
	Matches []calendar.Match `json:"matches"`
}

// LeapResponse is the response for /leap/{year}
type LeapResponse struct {
	Year      int  `json:"year"`
	Julian    bool `json:"julian"`
	Gregorian bool `json:"gregorian"`
}

type RecentResponse struct {
	Queries []struct {
		ID    int64          `json:"id"`
		Query calendar.Query `json:"query"`
	} `json:"queries"`
}

// HealthResponse is the response for /health
type HealthResponse struct {
	Status string `json:"status"`
}

// =============================================================================
// Test Runner
// =============================================================================

type TestRunner struct {
	baseURL      string
	apiKey       string
	client       *http.Client
	verbose      bool
	successCount int
	errorCount   int
	errors       []string
}

func NewTestRunner(baseURL, apiKey string, verbose bool) *TestRunner {
	return &TestRunner{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		client: &http.Client{
			// a cold query up to a large year simulates millions of days
			Timeout: 60 * time.Second,
		},
		verbose: verbose,
	}
}

func (tr *TestRunner) Run() {
	fmt.Println("==============================================")
	fmt.Println("Perpetual Calendar API Test Suite")
	fmt.Println("==============================================")
	fmt.Printf("Base URL: %s\n", tr.baseURL)

	tr.testHealth()
	tr.testReform()
	tr.testCache()
	tr.testConvert()
	tr.testLeap()
	tr.testEdgeCases()
	tr.testMaintenance()

	tr.printSummary()
}

// =============================================================================
// Test Groups
// =============================================================================

func (tr *TestRunner) testHealth() {
	tr.printSection("Health Check")

	var health HealthResponse
	if _, err := tr.getData("/health", &health); err != nil {
		tr.recordError("Health", err.Error())
		return
	}

	if health.Status == "healthy" {
		tr.recordSuccess("Health check passed")
	} else {
		tr.recordError("Health", fmt.Sprintf("Unexpected status: %s", health.Status))
	}
}

func (tr *TestRunner) testReform() {
	tr.printSection("Gregorian Reform")

	var data OccurrencesResponse
	if _, err := tr.getData("/api/v1/occurrences?day=15&month=10&year=1582", &data); err != nil {
		tr.recordError("15 Oct 1582", err.Error())
		return
	}

	if len(data.Matches) != 2 {
		tr.recordError("15 Oct 1582", fmt.Sprintf("got %d matches, want 2", len(data.Matches)))
		return
	}
	first := data.Matches[0]
	want := calendar.Date{Day: 5, Month: 10, Year: 1582}
	if first.Julian != want || first.Weekday != "Friday" {
		tr.recordError("15 Oct 1582", fmt.Sprintf("first match Julian %s %s, want %s Friday",
			first.Julian, first.Weekday, want))
		return
	}
	tr.recordSuccess(fmt.Sprintf("Gregorian 15 Oct 1582 = Julian %s (%s)", first.Julian, first.Weekday))
	tr.printMatches(data.Matches)
}

func (tr *TestRunner) testCache() {
	tr.printSection("Run Cache")

	path := "/api/v1/occurrences?day=1&month=1&year=2000"

	start := time.Now()
	var first OccurrencesResponse
	if _, err := tr.getData(path, &first); err != nil {
		tr.recordError("Cache (first)", err.Error())
		return
	}
	firstTook := time.Since(start)

	start = time.Now()
	var second OccurrencesResponse
	if _, err := tr.getData(path, &second); err != nil {
		tr.recordError("Cache (second)", err.Error())
		return
	}
	secondTook := time.Since(start)

	if !second.Cached {
		tr.recordError("Cache", "second request was not served from the cache")
		return
	}
	if len(first.Matches) != len(second.Matches) {
		tr.recordError("Cache", fmt.Sprintf("match count changed: %d then %d",
			len(first.Matches), len(second.Matches)))
		return
	}
	tr.recordSuccess(fmt.Sprintf("1 Jan up to 2000: %d matches, %s cold, %s cached",
		len(second.Matches), firstTook.Round(time.Millisecond), secondTook.Round(time.Millisecond)))
}

func (tr *TestRunner) testConvert() {
	tr.printSection("Conversion")

	tests := []struct {
		path string
		want calendar.Date
	}{
		{"/api/v1/convert/julian?day=4&month=10&year=1582", calendar.Date{Day: 14, Month: 10, Year: 1582}},
		{"/api/v1/convert/julian?day=29&month=2&year=1900", calendar.Date{Day: 13, Month: 3, Year: 1900}},
		{"/api/v1/convert/gregorian?day=29&month=2&year=2000", calendar.Date{Day: 16, Month: 2, Year: 2000}},
	}

	for _, tt := range tests {
		var conv calendar.Conversion
		if _, err := tr.getData(tt.path, &conv); err != nil {
			tr.recordError(tt.path, err.Error())
			continue
		}
		if conv.Equivalent != tt.want {
			tr.recordError(tt.path, fmt.Sprintf("got %s, want %s", conv.Equivalent, tt.want))
			continue
		}
		tr.recordSuccess(fmt.Sprintf("%s %s = %s %s (%s)",
			conv.System, conv.Date, conv.System.Other(), conv.Equivalent, conv.Weekday))
	}
}

func (tr *TestRunner) testLeap() {
	tr.printSection("Leap Years")

	for _, year := range []int{1900, 2000, 2026} {
		var leap LeapResponse
		if _, err := tr.getData("/api/v1/leap/"+strconv.Itoa(year), &leap); err != nil {
			tr.recordError(fmt.Sprintf("Leap %d", year), err.Error())
			continue
		}
		if leap.Julian != calendar.IsJulianLeap(year) || leap.Gregorian != calendar.IsGregorianLeap(year) {
			tr.recordError(fmt.Sprintf("Leap %d", year),
				fmt.Sprintf("julian=%t gregorian=%t", leap.Julian, leap.Gregorian))
			continue
		}
		tr.recordSuccess(fmt.Sprintf("%d: julian=%t gregorian=%t", year, leap.Julian, leap.Gregorian))
	}
}

func (tr *TestRunner) testEdgeCases() {
	tr.printSection("Edge Cases")

	tests := []struct {
		name     string
		path     string
		wantCode int
	}{
		{"29 February rejected", "/api/v1/occurrences?day=29&month=2&year=2000", http.StatusBadRequest},
		{"Month 13 rejected", "/api/v1/occurrences?day=1&month=13&year=2000", http.StatusBadRequest},
		{"Missing year", "/api/v1/occurrences?day=1&month=1", http.StatusBadRequest},
		{"Unknown calendar", "/api/v1/convert/hebrew?day=1&month=1&year=2000", http.StatusBadRequest},
		{"Unknown route", "/api/v1/nope", http.StatusNotFound},
	}

	for _, tt := range tests {
		resp, err := tr.do(http.MethodGet, tt.path, "")
		if err != nil {
			tr.recordError(tt.name, err.Error())
			continue
		}
		resp.Body.Close()

		if resp.StatusCode != tt.wantCode {
			tr.recordError(tt.name, fmt.Sprintf("status %d, want %d", resp.StatusCode, tt.wantCode))
			continue
		}
		tr.recordSuccess(fmt.Sprintf("%s (%d)", tt.name, resp.StatusCode))
	}
}

func (tr *TestRunner) testMaintenance() {
	tr.printSection("Cache Maintenance")

	var recent RecentResponse
	if _, err := tr.getData("/api/v1/queries/recent?limit=5", &recent); err != nil {
		tr.recordError("Recent", err.Error())
		return
	}
	tr.recordSuccess(fmt.Sprintf("Recent queries: %d", len(recent.Queries)))

	if tr.apiKey == "" {
		fmt.Println("  - skipping delete, no -key given")
		return
	}
	if len(recent.Queries) == 0 {
		tr.recordError("Delete", "no cached query to delete")
		return
	}

	id := recent.Queries[0].ID
	resp, err := tr.do(http.MethodDelete, fmt.Sprintf("/api/v1/queries/%d", id), tr.apiKey)
	if err != nil {
		tr.recordError("Delete", err.Error())
		return
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		tr.recordError("Delete", fmt.Sprintf("status %d", resp.StatusCode))
		return
	}
	tr.recordSuccess(fmt.Sprintf("Deleted cached query %d", id))
}

// =============================================================================
// Helpers
// =============================================================================

func (tr *TestRunner) do(method, path, apiKey string) (*http.Response, error) {
	req, err := http.NewRequest(method, tr.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}
	return tr.client.Do(req)
}

// getData fetches path and decodes the data field of a successful response
// into target.
func (tr *TestRunner) getData(path string, target any) (*APIResponse, error) {
	resp, err := tr.do(http.MethodGet, path, "")
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	var apiResp APIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("parse JSON: %w (body: %s)", err, string(body))
	}

	if !apiResp.Success {
		if apiResp.Error != nil {
			return &apiResp, fmt.Errorf("API error [%s]: %s", apiResp.Error.Code, apiResp.Error.Message)
		}
		return &apiResp, fmt.Errorf("API returned success=false with status %d", resp.StatusCode)
	}

	if err := json.Unmarshal(apiResp.Data, target); err != nil {
		return &apiResp, fmt.Errorf("decode data: %w", err)
	}
	return &apiResp, nil
}

func (tr *TestRunner) printSection(name string) {
	fmt.Println()
	fmt.Printf("--- %s ---\n", name)
	fmt.Println()
}

func (tr *TestRunner) printMatches(matches []calendar.Match) {
	if !tr.verbose {
		return
	}
	report := calendar.NewReporter(os.Stdout)
	report.WriteHeader()
	for _, m := range matches {
		report.WriteMatch(m)
	}
	fmt.Println()
}

func (tr *TestRunner) recordSuccess(msg string) {
	tr.successCount++
	fmt.Printf("  ✓ %s\n", msg)
}

func (tr *TestRunner) recordError(context, msg string) {
	tr.errorCount++
	errStr := fmt.Sprintf("%s: %s", context, msg)
	tr.errors = append(tr.errors, errStr)
	fmt.Printf("  ✗ %s\n", errStr)
}

func (tr *TestRunner) printSummary() {
	fmt.Println()
	fmt.Println("==============================================")
	fmt.Println("Summary")
	fmt.Println("==============================================")
	fmt.Printf("  Passed: %d\n", tr.successCount)
	fmt.Printf("  Failed: %d\n", tr.errorCount)
	fmt.Println()

	if tr.errorCount > 0 {
		fmt.Println("Failures:")
		for _, err := range tr.errors {
			fmt.Printf("  • %s\n", err)
		}
		fmt.Println()
		fmt.Printf("Tests completed with %d failure(s)\n", tr.errorCount)
		return
	}
	fmt.Println("All tests passed! ✓")
}

// =============================================================================
// Main
// =============================================================================

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Base URL of the API")
	apiKey := flag.String("key", "", "API key for the delete check")
	verbose := flag.Bool("v", false, "Verbose output (print matched rows)")
	flag.Parse()

	// Check if server is reachable
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(*baseURL + "/health")
	if err != nil {
		fmt.Printf("Error: Cannot connect to %s\n", *baseURL)
		fmt.Println("Make sure the API server is running.")
		os.Exit(1)
	}
	resp.Body.Close()

	runner := NewTestRunner(*baseURL, *apiKey, *verbose)
	runner.Run()

	if runner.errorCount > 0 {
		os.Exit(1)
	}
}
