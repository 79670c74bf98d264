package http

import (
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"dividas/internal/core"
	"dividas/internal/format"
)

// debtRow is the view model for one debt in the list partial.
type debtRow struct {
	ID           string
	Description  string
	TotalValue   string
	Installment  string
	Installments string
	Progress     int
	DueDate      string
	Status       string
	StatusClass  string
}

// reminderRow is the view model for one entry in the reminders partial.
type reminderRow struct {
	DebtID      string
	Description string
	Amount      string
	DueDate     string
	Label       string
	Overdue     bool
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	sess := s.sessions.ensure(w, r)
	data := struct {
		Today     string
		SortField string
		SortDir   string
	}{
		Today:     time.Now().Format("02/01/2006"),
		SortField: string(sess.sortConfig().Field),
		SortDir:   string(sess.sortConfig().Direction),
	}

	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Index template execution failed",
			"error", err, "template", "index.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleSummary renders the financial summary partial.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	stats, err := s.getStatistics(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Summary error", "error", err)
		_, _ = w.Write([]byte(`<section id="summary" class="summary"><div class="placeholder">Erro carregando o resumo</div></section>`))
		return
	}

	data := struct {
		TotalDebt     string
		TotalPaid     string
		RemainingDebt string
		Progress      string
		Monthly       string
	}{
		TotalDebt:     format.BRL(stats.TotalDebt),
		TotalPaid:     format.BRL(stats.TotalPaid),
		RemainingDebt: format.BRL(stats.RemainingDebt),
		Progress:      fmt.Sprintf("%.1f%%", stats.ProgressPercentage),
		Monthly:       format.BRL(stats.MonthlyCommitment),
	}

	if s.templates == nil {
		_, _ = w.Write([]byte(`<section id="summary" class="summary"><div class="placeholder">Restante: ` + data.RemainingDebt + `</div></section>`))
		return
	}
	if err := s.templates.ExecuteTemplate(w, "summary.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error",
			"error", err, "template", "summary.html")
		_, _ = w.Write([]byte(`<section id="summary" class="summary"><div class="placeholder">Erro renderizando o resumo</div></section>`))
	}
}

// handleDebtList renders the sorted debt list partial. The chosen ordering
// sticks to the session so a reload keeps it.
func (s *Server) handleDebtList(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	sess := s.sessions.ensure(w, r)
	cfg := sess.sortConfig()
	if r.URL.Query().Get("sort") != "" || r.URL.Query().Get("dir") != "" {
		cfg = parseSortParams(r)
		sess.setSort(cfg)
	}

	debts, err := s.backend.ListDebts(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Debt list error", "error", err)
		_, _ = w.Write([]byte(`<section id="debt-list" class="debt-list"><div class="placeholder">Erro carregando as dívidas</div></section>`))
		return
	}

	today := time.Now()
	sorted := core.SortDebts(debts, cfg, today)

	data := struct {
		SortField string
		SortDir   string
		Rows      []debtRow
	}{
		SortField: string(cfg.Field),
		SortDir:   string(cfg.Direction),
	}
	for _, d := range sorted {
		st := core.Status(d, today)
		data.Rows = append(data.Rows, debtRow{
			ID:           d.ID,
			Description:  template.HTMLEscapeString(d.Description),
			TotalValue:   format.BRL(d.TotalValue),
			Installment:  format.BRL(d.InstallmentValue()),
			Installments: fmt.Sprintf("%d/%d", d.PaidInstallments, d.TotalInstallments),
			Progress:     int(d.Progress()),
			DueDate:      format.Date(d.NextDueDate),
			Status:       st.String(),
			StatusClass:  statusClass(st),
		})
	}

	if s.templates == nil {
		_, _ = w.Write([]byte(`<section id="debt-list" class="debt-list"><div class="placeholder">` +
			fmt.Sprintf("%d dívida(s)", len(data.Rows)) + `</div></section>`))
		return
	}
	if err := s.templates.ExecuteTemplate(w, "debt_list.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error",
			"error", err, "template", "debt_list.html")
		_, _ = w.Write([]byte(`<section id="debt-list" class="debt-list"><div class="placeholder">Erro renderizando as dívidas</div></section>`))
	}
}

// handleReminders renders the due-date alerts partial, honoring the
// session's dismissals.
func (s *Server) handleReminders(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	sess := s.sessions.ensure(w, r)

	debts, err := s.backend.ListDebts(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Reminder list error", "error", err)
		_, _ = w.Write([]byte(`<section id="reminders" class="reminders"><div class="placeholder">Erro carregando os lembretes</div></section>`))
		return
	}

	reminders := core.Reminders(debts, sess.dismissedSet(), time.Now())

	data := struct {
		Rows []reminderRow
	}{}
	for _, rem := range reminders {
		data.Rows = append(data.Rows, reminderRow{
			DebtID:      rem.DebtID,
			Description: template.HTMLEscapeString(rem.Description),
			Amount:      format.BRL(rem.Amount),
			DueDate:     format.Date(rem.DueDate),
			Label:       reminderLabel(rem.DaysRemaining),
			Overdue:     rem.DaysRemaining < 0,
		})
	}

	if s.templates == nil {
		_, _ = w.Write([]byte(`<section id="reminders" class="reminders"><div class="placeholder">` +
			fmt.Sprintf("%d lembrete(s)", len(data.Rows)) + `</div></section>`))
		return
	}
	if err := s.templates.ExecuteTemplate(w, "reminders.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error",
			"error", err, "template", "reminders.html")
		_, _ = w.Write([]byte(`<section id="reminders" class="reminders"><div class="placeholder">Erro renderizando os lembretes</div></section>`))
	}
}

// reminderLabel phrases how close a due date is.
func reminderLabel(daysRemaining int) string {
	switch {
	case daysRemaining < 0:
		return fmt.Sprintf("Venceu há %d dia(s)", -daysRemaining)
	case daysRemaining == 0:
		return "Vence hoje!"
	case daysRemaining == 1:
		return "Vence amanhã"
	default:
		return fmt.Sprintf("Vence em %d dias", daysRemaining)
	}
}

func statusClass(st core.DebtStatus) string {
	switch st {
	case core.StatusOverdue:
		return "overdue"
	case core.StatusSettled:
		return "settled"
	default:
		return "ontrack"
	}
}
