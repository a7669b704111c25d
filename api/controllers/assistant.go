package controllers

import (
	"net/http"

	"github.com/ubqurrotul/koperasi-backend/api/responses"
	"github.com/ubqurrotul/koperasi-backend/api/validators"
	assistantsvc "github.com/ubqurrotul/koperasi-backend/internal/assistant"
	"github.com/ubqurrotul/koperasi-backend/pkg/logger"
)

// AssistantChat forwards a member question to the virtual assistant. The
// endpoint always answers 200; degraded upstreams surface as canned replies.
func AssistantChat(svc assistantsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload assistantsvc.ChatInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, svc.Chat(r.Context(), payload))
	}
}
