// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/danielhkuo/chowsr/finalize"
	"github.com/danielhkuo/chowsr/middleware"
	"github.com/danielhkuo/chowsr/models"
	"github.com/danielhkuo/chowsr/store"
)

type GroupHandler struct {
	store *store.Store
	fin   *finalize.Finalizer
	log   *zap.Logger
}

func NewGroupHandler(st *store.Store, fin *finalize.Finalizer, log *zap.Logger) *GroupHandler {
	return &GroupHandler{store: st, fin: fin, log: log}
}

// CreateGroup handles POST /api/groups
func (h *GroupHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var req models.CreateGroupRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.LocationType = strings.TrimSpace(req.LocationType)
	req.LocationValue = strings.TrimSpace(req.LocationValue)

	// Validate input
	if req.Name == "" || req.LocationType == "" || req.LocationValue == "" || req.Radius <= 0 || req.Deadline == nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name, locationType, locationValue, radius and deadline are required")
		return
	}

	group, err := h.store.CreateGroup(r.Context(), models.Group{
		Name:          req.Name,
		LocationType:  req.LocationType,
		LocationValue: req.LocationValue,
		Radius:        req.Radius,
		Deadline:      *req.Deadline,
	}, time.Now())
	if err != nil {
		h.log.Error("failed to create group", zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create group")
		return
	}

	h.log.Info("group created",
		zap.String("group_id", group.ID),
		zap.String("group_code", group.Code),
		zap.Time("deadline", group.Deadline))

	middleware.JSONResponse(w, http.StatusOK, group)
}

// GetGroup handles GET /api/groups/{code}
func (h *GroupHandler) GetGroup(w http.ResponseWriter, r *http.Request) {
	group, ok := loadGroup(w, r, h.store, h.log)
	if !ok {
		return
	}
	middleware.JSONResponse(w, http.StatusOK, group)
}

// GetState handles GET /api/groups/{code}/state
func (h *GroupHandler) GetState(w http.ResponseWriter, r *http.Request) {
	group, ok := loadGroup(w, r, h.store, h.log)
	if !ok {
		return
	}

	invites, err := h.store.ListInvites(r.Context(), group.ID)
	if err != nil {
		h.log.Error("failed to list invites", zap.String("group_id", group.ID), zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to load group state")
		return
	}

	state, err := h.fin.Evaluate(r.Context(), group)
	if err != nil {
		h.log.Error("failed to evaluate group", zap.String("group_id", group.ID), zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to load group state")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.GroupStateResponse{
		Group:       state.Group,
		Invites:     invites,
		Members:     state.Members,
		Restaurants: state.Restaurants,
		Summary:     state.Summary,
		Status:      state.Status,
	})
}

// Close handles POST /api/groups/{code}/close. Safe to call repeatedly.
func (h *GroupHandler) Close(w http.ResponseWriter, r *http.Request) {
	group, ok := loadGroup(w, r, h.store, h.log)
	if !ok {
		return
	}

	state, err := h.fin.Finalize(r.Context(), group)
	if err != nil {
		h.log.Error("failed to finalize group", zap.String("group_id", group.ID), zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to close group")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, voteResponse(state))
}

func voteResponse(state finalize.State) models.VoteResponse {
	return models.VoteResponse{
		Group:       state.Group,
		Restaurants: state.Restaurants,
		Summary:     state.Summary,
		Status:      state.Status,
	}
}
