package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ubqurrotul/koperasi-backend/api/middleware"
	"github.com/ubqurrotul/koperasi-backend/api/responses"
	"github.com/ubqurrotul/koperasi-backend/api/validators"
	txnsvc "github.com/ubqurrotul/koperasi-backend/internal/transactions"
	"github.com/ubqurrotul/koperasi-backend/pkg/db/models"
	"github.com/ubqurrotul/koperasi-backend/pkg/enums"
	pkgerrors "github.com/ubqurrotul/koperasi-backend/pkg/errors"
	"github.com/ubqurrotul/koperasi-backend/pkg/logger"
	"github.com/ubqurrotul/koperasi-backend/pkg/pagination"
)

type submitTransactionRequest struct {
	Type        string  `json:"type" validate:"required"`
	Category    *string `json:"category,omitempty"`
	Amount      string  `json:"amount" validate:"omitempty"`
	Date        string  `json:"date" validate:"required"`
	Description string  `json:"description,omitempty" validate:"omitempty,max=255"`
	ProductID   *string `json:"product_id,omitempty"`
	Quantity    *int    `json:"quantity,omitempty" validate:"omitempty,min=1"`
}

func (p submitTransactionRequest) toInput() (txnsvc.SubmitRequestInput, error) {
	txnType, err := enums.ParseTransactionType(strings.TrimSpace(p.Type))
	if err != nil {
		return txnsvc.SubmitRequestInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid type")
	}

	date, err := time.Parse("2006-01-02", p.Date)
	if err != nil {
		return txnsvc.SubmitRequestInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid date")
	}

	input := txnsvc.SubmitRequestInput{
		Type:        txnType,
		Date:        date,
		Description: validators.SanitizeString(p.Description, 255),
		Quantity:    p.Quantity,
	}

	if p.Category != nil {
		category, err := enums.ParseSavingsCategory(strings.TrimSpace(*p.Category))
		if err != nil {
			return txnsvc.SubmitRequestInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category")
		}
		input.Category = &category
	}

	if p.Amount != "" {
		amount, err := decimal.NewFromString(p.Amount)
		if err != nil {
			return txnsvc.SubmitRequestInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid amount")
		}
		input.Amount = amount
	}

	if p.ProductID != nil {
		productID, err := uuid.Parse(*p.ProductID)
		if err != nil {
			return txnsvc.SubmitRequestInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id")
		}
		input.ProductID = &productID
	}

	return input, nil
}

// TransactionSubmit accepts a member self-service request.
func TransactionSubmit(svc txnsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload submitTransactionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		txn, err := svc.SubmitRequest(r.Context(), middleware.MemberIDFromContext(r.Context()), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, txn)
	}
}

type posSaleRequest struct {
	BuyerID   *string `json:"buyer_id,omitempty"`
	ProductID string  `json:"product_id" validate:"required,uuid"`
	Quantity  int     `json:"quantity" validate:"required,min=1"`
	Date      string  `json:"date" validate:"required"`
}

// POSRecordSale records an over-the-counter sale. A missing buyer_id marks
// the walk-in buyer.
func POSRecordSale(svc txnsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload posSaleRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := uuid.Parse(payload.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		date, err := time.Parse("2006-01-02", payload.Date)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid date"))
			return
		}

		buyerID := uuid.Nil
		if payload.BuyerID != nil {
			buyerID, err = uuid.Parse(*payload.BuyerID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid buyer id"))
				return
			}
		}

		actor := txnsvc.Actor{
			MemberID: middleware.MemberIDFromContext(r.Context()),
			Role:     middleware.RoleFromContext(r.Context()),
		}
		txn, err := svc.RecordPOSSale(r.Context(), actor, txnsvc.POSSaleInput{
			BuyerID:   buyerID,
			ProductID: productID,
			Quantity:  payload.Quantity,
			Date:      date,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, txn)
	}
}

// TransactionApprove resolves a pending request to APPROVED.
func TransactionApprove(svc txnsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return resolveTransaction(svc, logg, func(ctx context.Context, actor txnsvc.Actor, id uuid.UUID) (*models.Transaction, error) {
		return svc.Approve(ctx, actor, id)
	})
}

// TransactionReject resolves a pending request to REJECTED.
func TransactionReject(svc txnsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return resolveTransaction(svc, logg, func(ctx context.Context, actor txnsvc.Actor, id uuid.UUID) (*models.Transaction, error) {
		return svc.Reject(ctx, actor, id)
	})
}

func resolveTransaction(
	svc txnsvc.Service,
	logg *logger.Logger,
	resolve func(ctx context.Context, actor txnsvc.Actor, id uuid.UUID) (*models.Transaction, error),
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		transactionID, err := uuid.Parse(chi.URLParam(r, "transactionId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid transaction id"))
			return
		}

		actor := txnsvc.Actor{
			MemberID: middleware.MemberIDFromContext(r.Context()),
			Role:     middleware.RoleFromContext(r.Context()),
		}
		txn, err := resolve(r.Context(), actor, transactionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, txn)
	}
}

// TransactionDetail returns one transaction. Ordinary members may only read
// their own rows.
func TransactionDetail(svc txnsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		transactionID, err := uuid.Parse(chi.URLParam(r, "transactionId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid transaction id"))
			return
		}

		txn, err := svc.GetTransaction(r.Context(), transactionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if middleware.RoleFromContext(r.Context()) != enums.MemberRoleAdministrator &&
			txn.MemberID != middleware.MemberIDFromContext(r.Context()) {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "access denied"))
			return
		}
		responses.WriteSuccess(w, txn)
	}
}

// TransactionList pages through transactions. Ordinary members are pinned to
// their own rows; administrators may filter by member_id, type and status.
func TransactionList(svc txnsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", 20, 1, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filter := txnsvc.ListFilter{
			Page: pagination.Params{
				Limit:  limit,
				Cursor: r.URL.Query().Get("cursor"),
			},
		}

		if raw := r.URL.Query().Get("type"); raw != "" {
			txnType, err := enums.ParseTransactionType(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid type"))
				return
			}
			filter.Type = &txnType
		}
		if raw := r.URL.Query().Get("status"); raw != "" {
			status, err := enums.ParseTransactionStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
				return
			}
			filter.Status = &status
		}

		actorID := middleware.MemberIDFromContext(r.Context())
		if middleware.RoleFromContext(r.Context()) == enums.MemberRoleAdministrator {
			if raw := r.URL.Query().Get("member_id"); raw != "" {
				memberID, err := uuid.Parse(raw)
				if err != nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid member id"))
					return
				}
				filter.MemberID = &memberID
			}
		} else {
			filter.MemberID = &actorID
		}

		result, err := svc.ListTransactions(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"items":       result.Items,
			"next_cursor": result.NextCursor,
		})
	}
}
