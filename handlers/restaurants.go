// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/danielhkuo/chowsr/lookup"
	"github.com/danielhkuo/chowsr/middleware"
	"github.com/danielhkuo/chowsr/models"
	"github.com/danielhkuo/chowsr/store"
)

type RestaurantHandler struct {
	store  *store.Store
	finder RestaurantFinder
	log    *zap.Logger
	locks  *keyedMutex
}

func NewRestaurantHandler(st *store.Store, finder RestaurantFinder, log *zap.Logger) *RestaurantHandler {
	return &RestaurantHandler{
		store:  st,
		finder: finder,
		log:    log,
		locks:  newKeyedMutex(),
	}
}

// List handles GET /api/groups/{code}/restaurants
func (h *RestaurantHandler) List(w http.ResponseWriter, r *http.Request) {
	group, ok := loadGroup(w, r, h.store, h.log)
	if !ok {
		return
	}

	restaurants, err := h.store.ListRestaurants(r.Context(), group.ID)
	if err != nil {
		h.log.Error("failed to list restaurants", zap.String("group_id", group.ID), zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to list restaurants")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.RestaurantsResponse{Restaurants: restaurants})
}

// Refresh handles POST /api/groups/{code}/restaurants. It runs a lookup for
// the group's location and replaces the stored set, clearing votes.
// Refreshes of the same group run one at a time.
func (h *RestaurantHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	group, ok := loadGroup(w, r, h.store, h.log)
	if !ok {
		return
	}

	unlock := h.locks.Lock(group.ID)
	defer unlock()

	// Re-read under the lock; a vote may have closed the group meanwhile
	fresh, err := h.store.GetGroup(r.Context(), group.ID)
	if err != nil {
		h.log.Error("failed to reload group", zap.String("group_id", group.ID), zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to refresh restaurants")
		return
	}
	group = fresh
	if group.Status == models.StatusClosed {
		middleware.ErrorResponse(w, http.StatusConflict, "Voting is closed for this group")
		return
	}

	log := h.log.With(zap.String("group_id", group.ID), zap.String("group_code", group.Code))

	found, err := h.finder.Find(r.Context(), group.LocationValue, group.Radius)
	if err != nil {
		var timeoutErr *lookup.TimeoutError
		switch {
		case errors.Is(err, lookup.ErrNoResults):
			log.Info("restaurant lookup empty", zap.String("location", group.LocationValue))
			middleware.JSONResponse(w, http.StatusOK, models.RefreshRestaurantsResponse{
				Status:      models.LookupEmpty,
				Restaurants: []models.Restaurant{},
				Summary:     models.VoteSummary{},
			})
		case errors.As(err, &timeoutErr):
			log.Warn("restaurant lookup timed out", zap.Error(err))
			middleware.ErrorResponse(w, http.StatusGatewayTimeout, "Restaurant lookup timed out, try again")
		default:
			log.Error("restaurant lookup failed", zap.Error(err))
			middleware.ErrorResponse(w, http.StatusBadGateway, "Restaurant lookup failed, try again later")
		}
		return
	}

	restaurants := make([]models.Restaurant, 0, len(found))
	for _, f := range found {
		restaurants = append(restaurants, models.Restaurant{
			ID:            store.RestaurantID(group.ID, f.SourceID),
			Name:          f.Name,
			Cuisine:       f.Cuisine,
			DistanceMiles: f.DistanceMiles,
			Distance:      f.Distance,
		})
	}

	stored, err := h.store.ReplaceRestaurants(r.Context(), group.ID, restaurants)
	if err != nil {
		log.Error("failed to store restaurants", zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to refresh restaurants")
		return
	}

	summary, err := h.store.VoteSummary(r.Context(), group.ID)
	if err != nil {
		log.Error("failed to summarize votes", zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to refresh restaurants")
		return
	}

	log.Info("restaurants refreshed", zap.Int("count", len(stored)))

	middleware.JSONResponse(w, http.StatusOK, models.RefreshRestaurantsResponse{
		Status:      models.LookupSuccess,
		Restaurants: stored,
		Summary:     summary,
	})
}
