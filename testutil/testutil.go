// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/danielhkuo/chowsr/contact"
	"github.com/danielhkuo/chowsr/db"
	"github.com/danielhkuo/chowsr/lookup"
	"github.com/danielhkuo/chowsr/models"
	"github.com/danielhkuo/chowsr/store"
)

// SetupTestDB creates a fresh SQLite database with the full schema in a
// temp directory. It is closed when the test ends.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(db.TypeSQLite, filepath.Join(t.TempDir(), "chowsr-test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	return conn
}

// SetupTestStore wraps SetupTestDB in a store
func SetupTestStore(t *testing.T) *store.Store {
	t.Helper()
	return store.New(SetupTestDB(t), db.TypeSQLite)
}

// CreateTestGroup creates an open group with the given deadline
func CreateTestGroup(t *testing.T, st *store.Store, deadline time.Time) models.Group {
	t.Helper()

	g, err := st.CreateGroup(context.Background(), models.Group{
		Name:          "Test Group",
		LocationType:  "address",
		LocationValue: "Cambridge, MA",
		Radius:        1,
		Deadline:      deadline,
	}, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test group: %v", err)
	}
	return g
}

// AddTestInvite inserts a pending invite for a raw contact value
func AddTestInvite(t *testing.T, st *store.Store, groupID, contactType, value string) models.Invite {
	t.Helper()

	normalized, ok := contact.Normalize(contactType, value)
	if !ok {
		t.Fatalf("Invalid test contact %s %q", contactType, value)
	}
	inv, err := st.InsertInvite(context.Background(), groupID, contactType, value, normalized, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test invite: %v", err)
	}
	return inv
}

// AddTestMember invites an email address and joins it to the group
func AddTestMember(t *testing.T, st *store.Store, groupID, name, email string) models.Member {
	t.Helper()

	inv := AddTestInvite(t, st, groupID, models.ContactEmail, email)
	m, err := st.JoinMember(context.Background(), inv, name, time.Now())
	if err != nil {
		t.Fatalf("Failed to join test member: %v", err)
	}
	return m
}

// AddTestRestaurants replaces the group's restaurants with the given names,
// ranked in argument order
func AddTestRestaurants(t *testing.T, st *store.Store, groupID string, names ...string) []models.Restaurant {
	t.Helper()

	rs := make([]models.Restaurant, 0, len(names))
	for i, name := range names {
		miles := 0.1 * float64(i+1)
		rs = append(rs, models.Restaurant{
			ID:            store.RestaurantID(groupID, "node-"+name),
			Name:          name,
			Cuisine:       "Restaurant",
			DistanceMiles: miles,
			Distance:      lookup.FormatDistance(miles),
		})
	}
	stored, err := st.ReplaceRestaurants(context.Background(), groupID, rs)
	if err != nil {
		t.Fatalf("Failed to store test restaurants: %v", err)
	}
	return stored
}

// CastTestVote records a yes/no vote
func CastTestVote(t *testing.T, st *store.Store, groupID, restaurantID, memberID, decision string) {
	t.Helper()

	if err := st.UpsertVote(context.Background(), groupID, restaurantID, memberID, decision, time.Now()); err != nil {
		t.Fatalf("Failed to cast test vote: %v", err)
	}
}

// ResultCall records one SendResult invocation
type ResultCall struct {
	GroupID      string
	RestaurantID string
	MemberID     string
}

// FakeNotifier records invite and result sends. InviteErr, when set,
// decides the outcome per invite.
type FakeNotifier struct {
	mu        sync.Mutex
	Invites   []models.Invite
	Results   []ResultCall
	InviteErr func(models.Invite) error
	ResultErr error
}

func (f *FakeNotifier) SendInvite(_ context.Context, _ models.Group, invite models.Invite) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Invites = append(f.Invites, invite)
	if f.InviteErr != nil {
		return f.InviteErr(invite)
	}
	return nil
}

func (f *FakeNotifier) SendResult(_ context.Context, group models.Group, restaurant models.Restaurant, member models.Member) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Results = append(f.Results, ResultCall{
		GroupID:      group.ID,
		RestaurantID: restaurant.ID,
		MemberID:     member.ID,
	})
	return f.ResultErr
}

// ResultCount returns the number of SendResult calls so far
func (f *FakeNotifier) ResultCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Results)
}

// FakeFinder returns canned lookup results
type FakeFinder struct {
	Restaurants []lookup.Restaurant
	Err         error
	Delay       time.Duration
	Calls       atomic.Int32
}

func (f *FakeFinder) Find(ctx context.Context, location string, radiusMiles float64) ([]lookup.Restaurant, error) {
	f.Calls.Add(1)
	if f.Delay > 0 {
		select {
		case <-time.After(f.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.Err != nil {
		return nil, f.Err
	}
	out := make([]lookup.Restaurant, len(f.Restaurants))
	copy(out, f.Restaurants)
	return out, nil
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
