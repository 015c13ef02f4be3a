// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/danielhkuo/rnd-tracker/middleware"
	"github.com/danielhkuo/rnd-tracker/models"
	"github.com/danielhkuo/rnd-tracker/testutil"
)

// Wednesday; the week runs 2025-03-10 .. 2025-03-16.
var testNow = time.Date(2025, 3, 12, 9, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

// request builds a JSON request as user, with path values set the way the
// router would.
func request(method, path string, body interface{}, user models.User, pathValues ...string) *http.Request {
	req := testutil.MakeRequest(method, path, body, nil)
	for i := 0; i+1 < len(pathValues); i += 2 {
		req.SetPathValue(pathValues[i], pathValues[i+1])
	}
	return req.WithContext(middleware.WithUser(req.Context(), user))
}

func serve(h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h(w, req)
	return w
}
