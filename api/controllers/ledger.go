package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ubqurrotul/koperasi-backend/api/middleware"
	"github.com/ubqurrotul/koperasi-backend/api/responses"
	ledgersvc "github.com/ubqurrotul/koperasi-backend/internal/ledger"
	pkgerrors "github.com/ubqurrotul/koperasi-backend/pkg/errors"
	"github.com/ubqurrotul/koperasi-backend/pkg/logger"
)

// MySavingsSummary returns the caller's aggregated savings position.
func MySavingsSummary(svc ledgersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := svc.MemberSummary(r.Context(), middleware.MemberIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}

// MyMandatoryStatus reports whether the caller has settled the mandatory
// contribution for the month in ?month=YYYY-MM (default: current month).
func MyMandatoryStatus(svc ledgersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		month := time.Now()
		if raw := r.URL.Query().Get("month"); raw != "" {
			parsed, err := time.Parse("2006-01", raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid month"))
				return
			}
			month = parsed
		}

		status, err := svc.MandatoryStatus(r.Context(), middleware.MemberIDFromContext(r.Context()), month)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"month":  month.Format("2006-01"),
			"status": status,
		})
	}
}

// AdminMemberSavingsSummary lets the back office inspect any member.
func AdminMemberSavingsSummary(svc ledgersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		memberID, err := uuid.Parse(chi.URLParam(r, "memberId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid member id"))
			return
		}

		summary, err := svc.MemberSummary(r.Context(), memberID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}

// CooperativeFinancialSummary exposes the cooperative-wide totals backing
// the SHU computation.
func CooperativeFinancialSummary(svc ledgersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := svc.CooperativeSummary(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}
