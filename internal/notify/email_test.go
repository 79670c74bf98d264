package notify

import (
	"strings"
	"testing"
	"time"

	"dividas/internal/core"
)

func TestDueLabel(t *testing.T) {
	tests := []struct {
		days int
		want string
	}{
		{-5, "Venceu há 5 dia(s)"},
		{-1, "Venceu há 1 dia(s)"},
		{0, "Vence hoje!"},
		{1, "Vence amanhã"},
		{3, "Vence em 3 dias"},
	}

	for _, tt := range tests {
		if got := dueLabel(tt.days); got != tt.want {
			t.Errorf("dueLabel(%d) = %q, want %q", tt.days, got, tt.want)
		}
	}
}

func TestDigestSubject(t *testing.T) {
	upcoming := []core.Reminder{{DaysRemaining: 2}, {DaysRemaining: 0}}
	if got := digestSubject(upcoming); got != "Dívidas: 2 parcela(s) vencendo" {
		t.Errorf("subject = %q", got)
	}

	mixed := []core.Reminder{{DaysRemaining: 2}, {DaysRemaining: -3}}
	if got := digestSubject(mixed); got != "Dívidas: 1 parcela(s) atrasada(s)" {
		t.Errorf("subject with overdue = %q", got)
	}
}

func TestRenderDigest(t *testing.T) {
	today := time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)
	reminders := []core.Reminder{
		{
			DebtID:        "d1",
			Description:   "Financiamento do carro",
			DaysRemaining: 2,
			Amount:        100,
			DueDate:       core.Date{Time: time.Date(2025, 6, 17, 0, 0, 0, 0, time.UTC)},
		},
		{
			DebtID:        "d2",
			Description:   "Cartão de crédito",
			DaysRemaining: -4,
			Amount:        250.5,
			DueDate:       core.Date{Time: time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC)},
		},
	}

	body := renderDigest(reminders, today)

	for _, want := range []string{
		"Resumo de 15/06/2025",
		"Financiamento do carro",
		"R$ 100,00",
		"Vence em 2 dias",
		"vencimento 17/06/2025",
		"Cartão de crédito",
		"R$ 250,50",
		"Venceu há 4 dia(s)",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("digest body missing %q\nbody:\n%s", want, body)
		}
	}
}

func TestRenderDigestEscapesDescription(t *testing.T) {
	today := time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)
	reminders := []core.Reminder{{
		DebtID:        "d1",
		Description:   `<script>alert("x")</script>`,
		DaysRemaining: 1,
		Amount:        50,
		DueDate:       core.Date{Time: time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)},
	}}

	body := renderDigest(reminders, today)
	if strings.Contains(body, "<script>") {
		t.Errorf("digest body contains raw markup:\n%s", body)
	}
	if !strings.Contains(body, "&lt;script&gt;") {
		t.Errorf("digest body missing escaped description:\n%s", body)
	}
}
