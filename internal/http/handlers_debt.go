package http

import (
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"dividas/internal/format"
	applog "dividas/internal/log"
	"dividas/internal/store"
)

func (s *Server) handleCreateDebt(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	d, err := ParseDebtForm(r.Form)
	if err != nil {
		UnprocessableEntityError("Dados inválidos: " + err.Error()).Write(w)
		return
	}
	d.ID = uuid.NewString()

	if err := s.backend.CreateDebt(r.Context(), d); err != nil {
		fields := applog.NewFields().
			WithComponent(applog.ComponentDebt).
			WithOperation(applog.OpCreate).
			WithDebt(d.ID, d.Description, d.TotalValue, d.TotalInstallments).
			WithError(err)
		slog.ErrorContext(r.Context(), "Debt create error", fields.ToSlice()...)
		InternalServerError("Erro ao salvar a dívida").Write(w)
		return
	}

	s.invalidateStatistics(r.Context())

	NewHTMXResponse().
		TriggerDebtCreated(d.ID).
		TriggerFormReset().
		TriggerSuccessNotification("Dívida cadastrada").
		BodyHTML(`<div class="success">Dívida cadastrada: ` +
			template.HTMLEscapeString(d.Description) +
			` (` + format.BRL(d.TotalValue) + ` em ` +
			fmt.Sprintf("%d", d.TotalInstallments) + `x)</div>`).
		Write(w)
}

func (s *Server) handleUpdateDebt(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	id, errResp := RequireID(r.Form)
	if errResp != nil {
		errResp.Write(w)
		return
	}

	d, err := ParseDebtForm(r.Form)
	if err != nil {
		UnprocessableEntityError("Dados inválidos: " + err.Error()).Write(w)
		return
	}
	d.ID = id

	if err := s.backend.UpdateDebt(r.Context(), d); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFoundError("Dívida não encontrada").Write(w)
			return
		}
		slog.ErrorContext(r.Context(), "Debt update error", "error", err, "id", id)
		InternalServerError("Erro ao atualizar a dívida").Write(w)
		return
	}

	s.invalidateStatistics(r.Context())

	NewHTMXResponse().
		TriggerDebtUpdated(id).
		TriggerSuccessNotification("Dívida atualizada").
		BodyHTML(`<div class="success">Dívida atualizada: ` +
			template.HTMLEscapeString(d.Description) + `</div>`).
		Write(w)
}

func (s *Server) handleDeleteDebt(w http.ResponseWriter, r *http.Request) {
	if resp := RequireMethod(r, http.MethodPost, http.MethodDelete); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	id, errResp := RequireID(r.Form)
	if errResp != nil {
		errResp.Write(w)
		return
	}

	if err := s.backend.DeleteDebt(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFoundError("Dívida não encontrada").Write(w)
			return
		}
		slog.ErrorContext(r.Context(), "Debt delete error", "error", err, "id", id)
		InternalServerError("Erro ao excluir a dívida").Write(w)
		return
	}

	s.invalidateStatistics(r.Context())

	NewHTMXResponse().
		TriggerDebtDeleted(id).
		TriggerSuccessNotification("Dívida excluída").
		Write(w)
}

func (s *Server) handleRegisterPayment(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	id, errResp := RequireID(r.Form)
	if errResp != nil {
		errResp.Write(w)
		return
	}

	d, err := s.backend.RegisterPayment(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFoundError("Dívida não encontrada").Write(w)
			return
		}
		slog.ErrorContext(r.Context(), "Payment register error", "error", err, "id", id)
		InternalServerError("Erro ao registrar o pagamento").Write(w)
		return
	}

	s.invalidateStatistics(r.Context())

	message := fmt.Sprintf("Pagamento registrado: parcela %d de %d",
		d.PaidInstallments, d.TotalInstallments)
	if d.Settled() {
		message = "Parabéns! Dívida quitada"
	}

	NewHTMXResponse().
		TriggerPaymentRegistered(id, d.PaidInstallments, d.TotalInstallments).
		TriggerSuccessNotification(message).
		BodyHTML(`<div class="success">` + template.HTMLEscapeString(message) + `</div>`).
		Write(w)
}

func (s *Server) handleDismissReminder(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	id, errResp := RequireID(r.Form)
	if errResp != nil {
		errResp.Write(w)
		return
	}

	sess := s.sessions.ensure(w, r)
	sess.dismiss(id)

	NewHTMXResponse().
		TriggerReminderDismissed(id).
		Write(w)
}
