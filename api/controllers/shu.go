package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/ubqurrotul/koperasi-backend/api/middleware"
	"github.com/ubqurrotul/koperasi-backend/api/responses"
	"github.com/ubqurrotul/koperasi-backend/api/validators"
	shusvc "github.com/ubqurrotul/koperasi-backend/internal/shu"
	pkgerrors "github.com/ubqurrotul/koperasi-backend/pkg/errors"
	"github.com/ubqurrotul/koperasi-backend/pkg/logger"
)

// SHUConfigGet returns the active allocation percentages, falling back to
// the statutory defaults when nothing has been saved yet.
func SHUConfigGet(svc shusvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg, err := svc.GetConfig(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cfg)
	}
}

type saveConfigRequest struct {
	NetIncome         *string `json:"net_income,omitempty"`
	JasaModalPct      string  `json:"jasa_modal_pct" validate:"required"`
	CadanganModalPct  string  `json:"cadangan_modal_pct" validate:"required"`
	JasaPengurusPct   string  `json:"jasa_pengurus_pct" validate:"required"`
	JasaTransaksiPct  string  `json:"jasa_transaksi_pct" validate:"required"`
	DanaPendidikanPct string  `json:"dana_pendidikan_pct" validate:"required"`
	InfaqPct          string  `json:"infaq_pct" validate:"required"`
}

func (p saveConfigRequest) toInput() (shusvc.SaveConfigInput, error) {
	parse := func(field, raw string) (decimal.Decimal, error) {
		value, err := decimal.NewFromString(raw)
		if err != nil {
			return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+field)
		}
		return value, nil
	}

	var input shusvc.SaveConfigInput
	var err error
	if input.Allocations.JasaModalPct, err = parse("jasa_modal_pct", p.JasaModalPct); err != nil {
		return input, err
	}
	if input.Allocations.CadanganModalPct, err = parse("cadangan_modal_pct", p.CadanganModalPct); err != nil {
		return input, err
	}
	if input.Allocations.JasaPengurusPct, err = parse("jasa_pengurus_pct", p.JasaPengurusPct); err != nil {
		return input, err
	}
	if input.Allocations.JasaTransaksiPct, err = parse("jasa_transaksi_pct", p.JasaTransaksiPct); err != nil {
		return input, err
	}
	if input.Allocations.DanaPendidikanPct, err = parse("dana_pendidikan_pct", p.DanaPendidikanPct); err != nil {
		return input, err
	}
	if input.Allocations.InfaqPct, err = parse("infaq_pct", p.InfaqPct); err != nil {
		return input, err
	}
	if p.NetIncome != nil {
		netIncome, err := parse("net_income", *p.NetIncome)
		if err != nil {
			return input, err
		}
		input.NetIncome = &netIncome
	}
	return input, nil
}

// SHUConfigSave validates and persists a new allocation configuration.
func SHUConfigSave(svc shusvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload saveConfigRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cfg, err := svc.SaveConfig(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cfg)
	}
}

// SHUBreakdown returns the cooperative-wide pool split.
func SHUBreakdown(svc shusvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		breakdown, err := svc.CooperativeBreakdown(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, breakdown)
	}
}

// MemberSHUShare returns the caller's individual SHU entitlement.
func MemberSHUShare(svc shusvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		share, err := svc.MemberSHU(r.Context(), middleware.MemberIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, share)
	}
}
