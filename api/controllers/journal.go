package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ubqurrotul/koperasi-backend/api/responses"
	"github.com/ubqurrotul/koperasi-backend/api/validators"
	journalsvc "github.com/ubqurrotul/koperasi-backend/internal/journal"
	"github.com/ubqurrotul/koperasi-backend/pkg/enums"
	pkgerrors "github.com/ubqurrotul/koperasi-backend/pkg/errors"
	"github.com/ubqurrotul/koperasi-backend/pkg/logger"
)

type journalEntryRequest struct {
	Date        string `json:"date" validate:"required"`
	Type        string `json:"type" validate:"required"`
	Category    string `json:"category" validate:"required,max=60"`
	Amount      string `json:"amount" validate:"required"`
	Description string `json:"description,omitempty" validate:"omitempty,max=255"`
	IsCash      *bool  `json:"is_cash,omitempty"`
}

// JournalCreate records a manual cash-book entry.
func JournalCreate(svc journalsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload journalEntryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entryType, err := enums.ParseJournalEntryType(strings.TrimSpace(payload.Type))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid type"))
			return
		}

		date, err := time.Parse("2006-01-02", payload.Date)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid date"))
			return
		}

		amount, err := decimal.NewFromString(payload.Amount)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid amount"))
			return
		}

		isCash := true
		if payload.IsCash != nil {
			isCash = *payload.IsCash
		}

		entry, err := svc.RecordEntry(r.Context(), journalsvc.RecordEntryInput{
			Date:        date,
			Type:        entryType,
			Category:    validators.SanitizeString(payload.Category, 60),
			Amount:      amount,
			Description: validators.SanitizeString(payload.Description, 255),
			IsCash:      isCash,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, entry)
	}
}

// JournalList returns all manual entries, newest first.
func JournalList(svc journalsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := svc.ListEntries(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, entries)
	}
}
