// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the chowsr API.

# Route Registration

NewRouter builds a chi router from its dependencies:

	h := router.NewRouter(router.Deps{Store: st, Finalizer: fin, ...})

Every request gets a request ID, the client IP, an access log line and
panic recovery.

# Endpoints

	GET    /api/health
	POST   /api/groups
	GET    /api/groups/{code}
	GET    /api/groups/{code}/state
	POST   /api/groups/{code}/close
	POST   /api/groups/{code}/invites
	DELETE /api/groups/{code}/invites/{id}
	POST   /api/groups/{code}/join
	GET    /api/groups/{code}/members
	GET    /api/groups/{code}/restaurants
	POST   /api/groups/{code}/restaurants  (rate limited per client IP)
	POST   /api/groups/{code}/votes

Unknown /api paths return a JSON 404. Everything else is served from the
client bundle in StaticDir, falling back to index.html so client-side
routes like /g/{code} load the app.
*/
package router
