// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/danielhkuo/chowsr/contact"
	"github.com/danielhkuo/chowsr/middleware"
	"github.com/danielhkuo/chowsr/models"
	"github.com/danielhkuo/chowsr/store"
)

type MemberHandler struct {
	store *store.Store
	log   *zap.Logger
}

func NewMemberHandler(st *store.Store, log *zap.Logger) *MemberHandler {
	return &MemberHandler{store: st, log: log}
}

// Join handles POST /api/groups/{code}/join
func (h *MemberHandler) Join(w http.ResponseWriter, r *http.Request) {
	group, ok := loadGroup(w, r, h.store, h.log)
	if !ok {
		return
	}

	var req models.JoinRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	name := strings.TrimSpace(req.Name)
	contactType := contact.Type(req.Type)
	if name == "" || contactType == "" || strings.TrimSpace(req.Contact) == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name, type and contact are required")
		return
	}
	normalized, valid := contact.Normalize(contactType, req.Contact)
	if !valid {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid contact")
		return
	}

	ctx := r.Context()

	// The first person to join is the host and invites themselves
	count, err := h.store.CountMembers(ctx, group.ID)
	if err != nil {
		h.log.Error("failed to count members", zap.String("group_id", group.ID), zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to join group")
		return
	}
	if count == 0 {
		_, err := h.store.InsertInvite(ctx, group.ID, contactType, req.Contact, normalized, time.Now())
		if err != nil && !errors.Is(err, store.ErrConflict) {
			h.log.Error("failed to create host invite", zap.String("group_id", group.ID), zap.Error(err))
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to join group")
			return
		}
	}

	invite, err := h.store.FindInvite(ctx, group.ID, contactType, normalized)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusForbidden, "This contact has not been invited")
		return
	}
	if err != nil {
		h.log.Error("failed to find invite", zap.String("group_id", group.ID), zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to join group")
		return
	}
	if invite.Status == models.InviteJoined {
		middleware.ErrorResponse(w, http.StatusForbidden, "This contact has already joined")
		return
	}

	member, err := h.store.JoinMember(ctx, invite, name, time.Now())
	if errors.Is(err, store.ErrConflict) {
		middleware.ErrorResponse(w, http.StatusForbidden, "This contact has already joined")
		return
	}
	if err != nil {
		h.log.Error("failed to join member", zap.String("group_id", group.ID), zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to join group")
		return
	}

	members, err := h.store.ListMembers(ctx, group.ID)
	if err != nil {
		h.log.Error("failed to list members", zap.String("group_id", group.ID), zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to join group")
		return
	}

	h.log.Info("member joined",
		zap.String("group_id", group.ID),
		zap.String("member_id", member.ID),
		zap.Int("members", len(members)))

	middleware.JSONResponse(w, http.StatusOK, models.JoinResponse{
		Group:   group,
		Member:  member,
		Members: members,
	})
}

// ListMembers handles GET /api/groups/{code}/members
func (h *MemberHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	group, ok := loadGroup(w, r, h.store, h.log)
	if !ok {
		return
	}

	members, err := h.store.ListMembers(r.Context(), group.ID)
	if err != nil {
		h.log.Error("failed to list members", zap.String("group_id", group.ID), zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to list members")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.MembersResponse{Members: members})
}
