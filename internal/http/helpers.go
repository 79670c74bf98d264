package http

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"time"

	"dividas/internal/core"
)

// parseSortParams extracts the sort configuration from query parameters.
// Unknown values fall back to the due-date ascending default.
func parseSortParams(r *http.Request) core.SortConfig {
	cfg := core.SortConfig{
		Field:     core.SortField(strings.TrimSpace(r.URL.Query().Get("sort"))),
		Direction: core.SortDirection(strings.TrimSpace(r.URL.Query().Get("dir"))),
	}
	if !cfg.Field.IsValid() {
		cfg.Field = core.SortByDueDate
	}
	if cfg.Direction != core.Ascending && cfg.Direction != core.Descending {
		cfg.Direction = core.Ascending
	}
	return cfg
}

// sanitizeInput removes potentially dangerous characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	result := strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
	return result
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}
