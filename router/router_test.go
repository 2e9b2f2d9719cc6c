// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/danielhkuo/chowsr/finalize"
	"github.com/danielhkuo/chowsr/lookup"
	"github.com/danielhkuo/chowsr/models"
	"github.com/danielhkuo/chowsr/ratelimit"
	"github.com/danielhkuo/chowsr/testutil"
)

func newTestRouter(t *testing.T, staticDir string, limit int) (http.Handler, *testutil.FakeFinder) {
	t.Helper()

	st := testutil.SetupTestStore(t)
	finder := &testutil.FakeFinder{Restaurants: []lookup.Restaurant{
		{SourceID: "node-1", Name: "Taco Spot", Cuisine: "Mexican", DistanceMiles: 0.2, Distance: "0.2 mi"},
	}}
	mux := NewRouter(Deps{
		Store:     st,
		Finalizer: finalize.New(st, &testutil.FakeNotifier{}, nil),
		Finder:    finder,
		Notifier:  &testutil.FakeNotifier{},
		Limiter:   ratelimit.New(limit, time.Minute),
		StaticDir: staticDir,
	})
	return mux, finder
}

func TestHealthEndpoint(t *testing.T) {
	mux, _ := newTestRouter(t, "", 20)

	req := httptest.NewRequest("GET", "/api/health", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var resp models.HealthResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if !resp.OK {
		t.Error("Expected ok:true")
	}
}

func TestRootEndpoint_NoClientBundle(t *testing.T) {
	mux, _ := newTestRouter(t, filepath.Join(t.TempDir(), "missing"), 20)

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	expected := "chowsr API v1"
	if w.Body.String() != expected {
		t.Errorf("Expected body '%s', got '%s'", expected, w.Body.String())
	}
}

func TestStaticClientFallback(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>app</html>"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "assets"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "assets", "app.js"), []byte("console.log(1)"), 0o644); err != nil {
		t.Fatal(err)
	}

	mux, _ := newTestRouter(t, dir, 20)

	testCases := []struct {
		path     string
		contains string
	}{
		{"/", "<html>app</html>"},
		{"/g/ABC234", "<html>app</html>"},
		{"/assets/app.js", "console.log(1)"},
		{"/assets", "<html>app</html>"},
	}

	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			req := httptest.NewRequest("GET", tc.path, nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("Expected 200, got %d", w.Code)
			}
			if !strings.Contains(w.Body.String(), tc.contains) {
				t.Errorf("Expected body containing %q, got %q", tc.contains, w.Body.String())
			}
		})
	}

	// API misses are JSON, not the client
	req := httptest.NewRequest("GET", "/api/nope", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown API route, got %d", w.Code)
	}
	if w.Header().Get("Content-Type") != "application/json" {
		t.Errorf("Expected JSON 404, got %q", w.Header().Get("Content-Type"))
	}
}

func TestRouteExistence(t *testing.T) {
	mux, _ := newTestRouter(t, "", 20)

	// Routes respond (handler is invoked); 400 and 404 are valid handler answers
	testCases := []struct {
		method string
		path   string
	}{
		{"GET", "/api/health"},
		{"POST", "/api/groups"},
		{"GET", "/api/groups/ABC234"},
		{"GET", "/api/groups/ABC234/state"},
		{"POST", "/api/groups/ABC234/close"},
		{"POST", "/api/groups/ABC234/invites"},
		{"DELETE", "/api/groups/ABC234/invites/some-id"},
		{"POST", "/api/groups/ABC234/join"},
		{"GET", "/api/groups/ABC234/members"},
		{"GET", "/api/groups/ABC234/restaurants"},
		{"POST", "/api/groups/ABC234/restaurants"},
		{"POST", "/api/groups/ABC234/votes"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code == http.StatusMethodNotAllowed {
				t.Errorf("Route %s %s returned 405, expected route handler to exist", tc.method, tc.path)
			}
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	mux, _ := newTestRouter(t, "", 20)

	testCases := []struct {
		method string
		path   string
	}{
		{"POST", "/api/health"},               // Only GET is defined
		{"PUT", "/api/groups/ABC234/votes"},   // Only POST is defined
		{"DELETE", "/api/groups/ABC234/join"}, // Only POST is defined
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code != http.StatusMethodNotAllowed {
				t.Errorf("Expected 405 for %s %s, got %d", tc.method, tc.path, w.Code)
			}
		})
	}
}

func TestGroupFlowThroughRouter(t *testing.T) {
	mux, finder := newTestRouter(t, "", 20)

	// Create
	deadline := time.Now().Add(time.Hour)
	req := testutil.MakeRequest("POST", "/api/groups", map[string]interface{}{
		"name":          "Lunch",
		"locationType":  "address",
		"locationValue": "Somerville, MA",
		"radius":        2,
		"deadline":      deadline,
	}, nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var group models.Group
	testutil.AssertJSON(t, w, &group)

	// Path parameter reaches the handler, lowercase code resolves
	req = httptest.NewRequest("GET", "/api/groups/"+strings.ToLower(group.Code), nil)
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	// Host joins
	req = testutil.MakeRequest("POST", "/api/groups/"+group.Code+"/join", models.JoinRequest{
		Name: "Host", Type: "email", Contact: "host@example.com",
	}, nil)
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var joined models.JoinResponse
	testutil.AssertJSON(t, w, &joined)

	// Restaurants
	req = httptest.NewRequest("POST", "/api/groups/"+group.Code+"/restaurants", nil)
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)
	if finder.Calls.Load() != 1 {
		t.Errorf("Expected 1 lookup, got %d", finder.Calls.Load())
	}

	var refreshed models.RefreshRestaurantsResponse
	testutil.AssertJSON(t, w, &refreshed)
	if len(refreshed.Restaurants) != 1 {
		t.Fatalf("Expected 1 restaurant, got %d", len(refreshed.Restaurants))
	}

	// A single member voting yes reaches consensus and closes the group
	yes := models.DecisionYes
	req = testutil.MakeRequest("POST", "/api/groups/"+group.Code+"/votes", models.VoteRequest{
		MemberID: joined.Member.ID, RestaurantID: refreshed.Restaurants[0].ID, Decision: &yes,
	}, nil)
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var voted models.VoteResponse
	testutil.AssertJSON(t, w, &voted)
	if voted.Group.Status != models.StatusClosed {
		t.Errorf("Expected closed group, got %s", voted.Group.Status)
	}
}

func TestRestaurantRefreshRateLimited(t *testing.T) {
	mux, _ := newTestRouter(t, "", 2)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest("POST", "/api/groups/NOPE99/restaurants", nil)
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)
		testutil.AssertStatus(t, w, http.StatusNotFound)
	}

	req := httptest.NewRequest("POST", "/api/groups/NOPE99/restaurants", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	testutil.AssertStatus(t, w, http.StatusTooManyRequests)

	// Reads are not limited
	req = httptest.NewRequest("GET", "/api/groups/NOPE99/restaurants", nil)
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestRestaurantRefreshRateLimit_SpoofedForwardingHeaders(t *testing.T) {
	mux, finder := newTestRouter(t, "", 2)

	var statuses []int
	for i := 0; i < 6; i++ {
		req := httptest.NewRequest("POST", "/api/groups/NOPE99/restaurants", nil)
		req.RemoteAddr = "192.0.2.50:40000"
		req.Header.Set("X-Forwarded-For", "10.0.0."+strconv.Itoa(i))
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)
		statuses = append(statuses, w.Code)
	}

	want := []int{404, 404, 429, 429, 429, 429}
	for i := range want {
		if statuses[i] != want[i] {
			t.Fatalf("Got statuses %v, want %v", statuses, want)
		}
	}
	if finder.Calls.Load() != 0 {
		t.Errorf("Unknown group should never reach the finder")
	}
}
