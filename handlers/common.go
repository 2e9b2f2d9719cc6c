// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"go.uber.org/zap"

	"github.com/danielhkuo/chowsr/lookup"
	"github.com/danielhkuo/chowsr/middleware"
	"github.com/danielhkuo/chowsr/models"
	"github.com/danielhkuo/chowsr/store"
)

// InviteSender delivers an invite link; notify.Dispatcher implements it
type InviteSender interface {
	SendInvite(ctx context.Context, group models.Group, invite models.Invite) error
}

// RestaurantFinder runs a restaurant lookup; lookup.Pipeline implements it
type RestaurantFinder interface {
	Find(ctx context.Context, location string, radiusMiles float64) ([]lookup.Restaurant, error)
}

// Health handles GET /api/health
func Health(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, models.HealthResponse{OK: true})
}

// loadGroup resolves the {code} path value. On failure it has already
// written the error response.
func loadGroup(w http.ResponseWriter, r *http.Request, st *store.Store, log *zap.Logger) (models.Group, bool) {
	code := r.PathValue("code")
	if code == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Group code required")
		return models.Group{}, false
	}

	group, err := st.GetGroupByCode(r.Context(), code)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Group not found")
		return models.Group{}, false
	}
	if err != nil {
		log.Error("failed to load group", zap.String("group_code", code), zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to load group")
		return models.Group{}, false
	}
	return group, true
}

// keyedMutex serializes work per key. Entries are dropped once unused.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refLock
}

type refLock struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*refLock)}
}

// Lock blocks until key is free and returns the unlock func
func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &refLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()

		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
