package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ubqurrotul/koperasi-backend/api/responses"
	"github.com/ubqurrotul/koperasi-backend/api/validators"
	newssvc "github.com/ubqurrotul/koperasi-backend/internal/news"
	pkgerrors "github.com/ubqurrotul/koperasi-backend/pkg/errors"
	"github.com/ubqurrotul/koperasi-backend/pkg/logger"
)

type publishNewsRequest struct {
	Title       string   `json:"title" validate:"required,max=160"`
	Body        string   `json:"body" validate:"required"`
	Tags        []string `json:"tags,omitempty" validate:"max=10,dive,max=30"`
	PublishedAt *string  `json:"published_at,omitempty"`
}

// NewsPublish posts a cooperative announcement.
func NewsPublish(svc newssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload publishNewsRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		publishedAt := time.Now()
		if payload.PublishedAt != nil {
			parsed, err := time.Parse(time.RFC3339, *payload.PublishedAt)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid published_at"))
				return
			}
			publishedAt = parsed
		}

		item, err := svc.Publish(r.Context(), newssvc.PublishInput{
			Title:       validators.SanitizeString(payload.Title, 160),
			Body:        payload.Body,
			Tags:        payload.Tags,
			PublishedAt: publishedAt,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

// NewsList returns the latest announcements, newest first.
func NewsList(svc newssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", 20, 1, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.ListLatest(r.Context(), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

// NewsDelete removes an announcement.
func NewsDelete(svc newssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		newsID, err := uuid.Parse(chi.URLParam(r, "newsId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid news id"))
			return
		}

		if err := svc.Unpublish(r.Context(), newsID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
