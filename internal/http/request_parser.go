// Package http provides the HTTP server and handler implementations.
//
// This file implements utilities for parsing and validating HTTP request
// data: the debt form shared by the create and update handlers, and small
// guards for method and form handling.

package http

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"dividas/internal/core"
)

// ParseDebtForm reads a debt from form values. The ID is not part of the
// form payload; callers assign it (create) or take it from the id field
// (update).
func ParseDebtForm(form url.Values) (core.Debt, error) {
	d := core.Debt{
		Description: sanitizeInput(form.Get("description")),
	}

	total, err := core.ParseAmount(form.Get("totalValue"))
	if err != nil {
		return core.Debt{}, fmt.Errorf("valor total: %w", err)
	}
	d.TotalValue = total

	d.TotalInstallments, err = parseIntField(form, "totalInstallments")
	if err != nil {
		return core.Debt{}, err
	}

	// Paid installments default to zero on the create form.
	if strings.TrimSpace(form.Get("paidInstallments")) != "" {
		d.PaidInstallments, err = parseIntField(form, "paidInstallments")
		if err != nil {
			return core.Debt{}, err
		}
	}

	due, err := core.ParseDate(strings.TrimSpace(form.Get("nextDueDate")))
	if err != nil {
		return core.Debt{}, fmt.Errorf("vencimento: %w", err)
	}
	d.NextDueDate = due

	// An empty reminder field takes the default window.
	if strings.TrimSpace(form.Get("reminderDays")) == "" {
		d.ReminderDays = core.DefaultReminderDays
	} else {
		d.ReminderDays, err = parseIntField(form, "reminderDays")
		if err != nil {
			return core.Debt{}, err
		}
	}

	if err := d.Validate(); err != nil {
		return core.Debt{}, err
	}
	return d, nil
}

func parseIntField(form url.Values, key string) (int, error) {
	raw := strings.TrimSpace(form.Get(key))
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("campo %s inválido: %q", key, raw)
	}
	return n, nil
}

// RequireMethod checks if the request method matches the expected method(s).
// Returns an error response builder if the method doesn't match.
func RequireMethod(r *http.Request, methods ...string) *HTMXResponseBuilder {
	for _, m := range methods {
		if r.Method == m {
			return nil
		}
	}
	return MethodNotAllowedError(strings.Join(methods, ", "))
}

// RequirePOST is a convenience function for POST-only handlers.
func RequirePOST(r *http.Request) *HTMXResponseBuilder {
	return RequireMethod(r, http.MethodPost)
}

// ParseFormOrFail parses the request form and returns an error response on
// failure. Returns nil on success.
func ParseFormOrFail(r *http.Request) *HTMXResponseBuilder {
	if err := r.ParseForm(); err != nil {
		return BadRequestError("Formato de requisição inválido")
	}
	return nil
}

// RequireID returns the sanitized id form value, or an error response when
// it is missing.
func RequireID(form url.Values) (string, *HTMXResponseBuilder) {
	id := sanitizeInput(form.Get("id"))
	if id == "" {
		return "", BadRequestError("Identificador ausente")
	}
	return id, nil
}
