// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

RequestLogger writes one zap entry per request after the handler returns:

	r.Use(middleware.RequestLogger(log))

Fields: method, path, status, bytes, duration_ms, remote and request_id
(when chi's RequestID middleware runs first). 5xx responses log at warn.

# CORS Middleware

Enable cross-origin requests for the Vite dev server:

	r.Use(middleware.CORS)

Allows methods GET, POST, PUT, DELETE, OPTIONS with headers
Content-Type and Authorization. Preflight requests are answered directly.

# Rate Limiting

RateLimit wraps a handler with a per-client ratelimit.Limiter:

	r.With(middleware.RateLimit(limiter)).Post("/restaurants", h.Refresh)

Rejected requests get 429 with a Retry-After header.

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

Error bodies are {"error": "<status text>", "message": "<detail>"}.

Parse JSON request bodies:

	var req models.JoinRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

# Client IP Extraction

Get the original client IP (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)

Used as the rate limit key.
*/
package middleware
