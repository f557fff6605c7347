package shared

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"hrrecords/internal/platform/requestctx"
	"hrrecords/internal/transport/http/api"
)

// PathID reads a UUID route parameter. Malformed ids answer 404 since no
// row can match them.
func PathID(w http.ResponseWriter, r *http.Request, name, notFound string) (string, bool) {
	id := chi.URLParam(r, name)
	if err := uuid.Validate(id); err != nil {
		api.Fail(w, http.StatusNotFound, "not_found", notFound, requestctx.GetRequestID(r.Context()))
		return "", false
	}
	return id, true
}

// DecodeFailed answers a body that could not be decoded.
func DecodeFailed(w http.ResponseWriter, r *http.Request) {
	api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
}

func InternalError(w http.ResponseWriter, r *http.Request, code, message string) {
	api.Fail(w, http.StatusInternalServerError, code, message, requestctx.GetRequestID(r.Context()))
}
