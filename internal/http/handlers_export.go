package http

import (
	"log/slog"
	"net/http"
	"time"

	"dividas/internal/export"
)

// handleExport streams the full debt book as an XLSX download.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	debts, err := s.backend.ListDebts(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Export list error", "error", err)
		http.Error(w, "Erro ao carregar as dívidas", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="dividas.xlsx"`)

	if err := export.WriteDebtBook(w, debts, time.Now()); err != nil {
		// Headers are already out, so we can only log the failure.
		slog.ErrorContext(r.Context(), "Export write error", "error", err)
	}
}
