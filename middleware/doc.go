// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start (method, path, remote) and completion (status,
duration_ms). Each request gets an X-Request-ID (kept when the client sends
one) that is attached to both log lines.

# Role Gating

Gate authenticates X-User-ID / X-User-Key and checks the caller's role:

	gate := middleware.NewGate(userHandler, cfg.UserKeySalt)
	mux.HandleFunc("POST /projects", middleware.WithLogging(gate.Require(auth.PermWrite, h.CreateProject)))

Handlers read the caller with middleware.CurrentUser(r). Missing or bad
credentials and inactive users get 401; a role without the permission gets 403.

# CORS Middleware

Enable cross-origin requests for frontend access:

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

Allows methods GET, POST, PUT, DELETE, OPTIONS with headers
Content-Type, X-User-ID, X-User-Key, X-Request-ID. Preflight requests get
204 without reaching the wrapped handler.

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

Parse JSON request bodies:

	var req models.ProjectRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

# Client IP Extraction

Get the original client IP (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)

Used for the remote field of request logs.
*/
package middleware
