package controllers

import (
	"net/http"
	"time"

	"github.com/ubqurrotul/koperasi-backend/api/responses"
	"github.com/ubqurrotul/koperasi-backend/api/validators"
	membersvc "github.com/ubqurrotul/koperasi-backend/internal/members"
	pkgerrors "github.com/ubqurrotul/koperasi-backend/pkg/errors"
	"github.com/ubqurrotul/koperasi-backend/pkg/logger"
)

type registerRequest struct {
	FullName string  `json:"full_name" validate:"required,max=120"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,max=20"`
	Address  *string `json:"address,omitempty" validate:"omitempty,max=255"`
	JoinDate *string `json:"join_date,omitempty"`
}

// AuthRegister creates a new ordinary member account.
func AuthRegister(svc membersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "member service unavailable"))
			return
		}

		var payload registerRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		joinDate := time.Now()
		if payload.JoinDate != nil {
			parsed, err := time.Parse("2006-01-02", *payload.JoinDate)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid join_date"))
				return
			}
			joinDate = parsed
		}

		member, err := svc.Register(r.Context(), membersvc.RegisterInput{
			FullName: validators.SanitizeString(payload.FullName, 120),
			Email:    payload.Email,
			Password: payload.Password,
			Phone:    payload.Phone,
			Address:  payload.Address,
			JoinDate: joinDate,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, member)
	}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthLogin exchanges credentials for a bearer token.
func AuthLogin(svc membersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "member service unavailable"))
			return
		}

		var payload loginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), payload.Email, payload.Password)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
