// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/danielhkuo/chowsr/finalize"
	"github.com/danielhkuo/chowsr/middleware"
	"github.com/danielhkuo/chowsr/models"
	"github.com/danielhkuo/chowsr/store"
)

type VoteHandler struct {
	store *store.Store
	fin   *finalize.Finalizer
	log   *zap.Logger
}

func NewVoteHandler(st *store.Store, fin *finalize.Finalizer, log *zap.Logger) *VoteHandler {
	return &VoteHandler{store: st, fin: fin, log: log}
}

// Vote handles POST /api/groups/{code}/votes. A null decision retracts the
// member's vote. Votes on a closed group are ignored and the current state
// is returned.
func (h *VoteHandler) Vote(w http.ResponseWriter, r *http.Request) {
	group, ok := loadGroup(w, r, h.store, h.log)
	if !ok {
		return
	}

	var req models.VoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.MemberID == "" || req.RestaurantID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "memberId and restaurantId are required")
		return
	}
	if req.Decision != nil && *req.Decision != models.DecisionYes && *req.Decision != models.DecisionNo {
		middleware.ErrorResponse(w, http.StatusBadRequest, `decision must be "yes", "no" or null`)
		return
	}

	ctx := r.Context()

	if _, err := h.store.GetMember(ctx, group.ID, req.MemberID); err != nil {
		h.lookupFailed(w, err, "Unknown member")
		return
	}
	if _, err := h.store.GetRestaurant(ctx, group.ID, req.RestaurantID); err != nil {
		h.lookupFailed(w, err, "Unknown restaurant")
		return
	}

	if group.Status == models.StatusClosed {
		state, err := h.fin.Evaluate(ctx, group)
		if err != nil {
			h.log.Error("failed to evaluate group", zap.String("group_id", group.ID), zap.Error(err))
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record vote")
			return
		}
		middleware.JSONResponse(w, http.StatusOK, voteResponse(state))
		return
	}

	var err error
	if req.Decision == nil {
		err = h.store.DeleteVote(ctx, group.ID, req.RestaurantID, req.MemberID)
	} else {
		err = h.store.UpsertVote(ctx, group.ID, req.RestaurantID, req.MemberID, *req.Decision, time.Now())
	}
	if err != nil {
		h.log.Error("failed to record vote",
			zap.String("group_id", group.ID),
			zap.String("member_id", req.MemberID),
			zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record vote")
		return
	}

	state, err := h.fin.Finalize(ctx, group)
	if err != nil {
		h.log.Error("failed to finalize group", zap.String("group_id", group.ID), zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record vote")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, voteResponse(state))
}

func (h *VoteHandler) lookupFailed(w http.ResponseWriter, err error, notFound string) {
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusBadRequest, notFound)
		return
	}
	h.log.Error("vote lookup failed", zap.Error(err))
	middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record vote")
}
