// SPDX-License-Identifier: MIT

package openapi_server

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
)

// Logger logs every request handled by inner.
func Logger(inner http.Handler, name string, logger *log.Logger) http.Handler {
	if logger == nil {
		logger = log.Default()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		inner.ServeHTTP(w, r)

		logger.Info("request",
			"method", r.Method,
			"uri", r.RequestURI,
			"route", name,
			"duration", time.Since(start))
	})
}
