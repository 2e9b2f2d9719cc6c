// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/danielhkuo/chowsr/contact"
	"github.com/danielhkuo/chowsr/middleware"
	"github.com/danielhkuo/chowsr/models"
	"github.com/danielhkuo/chowsr/notify"
	"github.com/danielhkuo/chowsr/store"
)

type InviteHandler struct {
	store  *store.Store
	sender InviteSender
	log    *zap.Logger
}

func NewInviteHandler(st *store.Store, sender InviteSender, log *zap.Logger) *InviteHandler {
	return &InviteHandler{store: st, sender: sender, log: log}
}

type pendingInvite struct {
	contactType string
	value       string
	normalized  string
}

// AddInvites handles POST /api/groups/{code}/invites
func (h *InviteHandler) AddInvites(w http.ResponseWriter, r *http.Request) {
	group, ok := loadGroup(w, r, h.store, h.log)
	if !ok {
		return
	}

	var req models.AddInvitesRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if len(req.Invites) == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invites are required")
		return
	}

	existing, err := h.store.ListInvites(r.Context(), group.ID)
	if err != nil {
		h.log.Error("failed to list invites", zap.String("group_id", group.ID), zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to add invites")
		return
	}

	seen := make(map[string]bool, len(existing)+len(req.Invites))
	for _, inv := range existing {
		seen[inv.Type+"|"+inv.Normalized] = true
	}

	// Invalid and duplicate contacts are dropped silently
	var batch []pendingInvite
	for _, in := range req.Invites {
		contactType := contact.Type(in.Type)
		normalized, valid := contact.Normalize(contactType, in.Value)
		if !valid {
			continue
		}
		key := contactType + "|" + normalized
		if seen[key] {
			continue
		}
		seen[key] = true
		batch = append(batch, pendingInvite{contactType: contactType, value: in.Value, normalized: normalized})
	}

	if len(batch) == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "No valid new invites")
		return
	}

	for _, p := range batch {
		inv, err := h.store.InsertInvite(r.Context(), group.ID, p.contactType, p.value, p.normalized, time.Now())
		if errors.Is(err, store.ErrConflict) {
			continue
		}
		if err != nil {
			h.log.Error("failed to insert invite", zap.String("group_id", group.ID), zap.Error(err))
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to add invites")
			return
		}
		h.deliver(r, group, inv)
	}

	invites, err := h.store.ListInvites(r.Context(), group.ID)
	if err != nil {
		h.log.Error("failed to list invites", zap.String("group_id", group.ID), zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to add invites")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.InvitesResponse{Invites: invites})
}

// deliver sends one invite and records the outcome. Failures never abort
// the request.
func (h *InviteHandler) deliver(r *http.Request, group models.Group, inv models.Invite) {
	var sendErr error
	if h.sender == nil {
		sendErr = notify.ErrChannelDisabled
	} else {
		sendErr = h.sender.SendInvite(r.Context(), group, inv)
	}

	status := notify.InviteOutcome(sendErr)
	var errText *string
	if status == models.InviteFailed {
		msg := sendErr.Error()
		errText = &msg
		h.log.Warn("invite delivery failed",
			zap.String("group_id", group.ID),
			zap.String("invite_id", inv.ID),
			zap.String("contact_type", inv.Type),
			zap.Error(sendErr))
	}

	if err := h.store.UpdateInviteStatus(r.Context(), inv.ID, status, errText, time.Now()); err != nil {
		h.log.Error("failed to record invite status", zap.String("invite_id", inv.ID), zap.Error(err))
	}
}

// DeleteInvite handles DELETE /api/groups/{code}/invites/{id}
func (h *InviteHandler) DeleteInvite(w http.ResponseWriter, r *http.Request) {
	group, ok := loadGroup(w, r, h.store, h.log)
	if !ok {
		return
	}

	inviteID := r.PathValue("id")
	err := h.store.DeleteInvite(r.Context(), group.ID, inviteID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invite not found")
		return
	case errors.Is(err, store.ErrConflict):
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invite already joined")
		return
	case err != nil:
		h.log.Error("failed to delete invite", zap.String("invite_id", inviteID), zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete invite")
		return
	}

	invites, err := h.store.ListInvites(r.Context(), group.ID)
	if err != nil {
		h.log.Error("failed to list invites", zap.String("group_id", group.ID), zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete invite")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.InvitesResponse{Invites: invites})
}
