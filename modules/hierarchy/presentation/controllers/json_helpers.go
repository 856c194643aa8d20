package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tanzim-io/tanzim/modules/hierarchy/domain/position"
	"github.com/tanzim-io/tanzim/modules/hierarchy/domain/tree"
	"github.com/tanzim-io/tanzim/modules/hierarchy/services"
	"github.com/tanzim-io/tanzim/pkg/composables"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		panic(err)
	}
}

func writeAPIError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	meta := map[string]string{}
	if params, ok := composables.UseParams(r.Context()); ok && params.RequestID != "" {
		meta["request_id"] = params.RequestID
	}
	writeJSON(w, status, map[string]any{
		"code":    code,
		"message": message,
		"meta":    meta,
	})
}

// writeServiceError translates a service-layer error into an HTTP response.
// Anything that is not a ServiceError is an internal failure and is logged,
// not leaked.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var svcErr *services.ServiceError
	if errors.As(err, &svcErr) {
		writeAPIError(w, r, svcErr.Status, svcErr.Code, svcErr.Message)
		return
	}
	if errors.Is(err, tree.ErrNotFound) {
		writeAPIError(w, r, http.StatusNotFound, "HIERARCHY_NOT_FOUND", "not found")
		return
	}
	composables.UseLogger(r.Context()).WithError(err).Error("hierarchy api: unhandled error")
	writeAPIError(w, r, http.StatusInternalServerError, "HIERARCHY_INTERNAL", "internal error")
}

// useActor returns the authenticated actor or answers 401.
func useActor(w http.ResponseWriter, r *http.Request) (position.ActorPosition, bool) {
	actor, err := composables.UseActor(r.Context())
	if err != nil {
		writeAPIError(w, r, http.StatusUnauthorized, "UNAUTHENTICATED", "authentication required")
		return position.ActorPosition{}, false
	}
	return actor, true
}

func requestID(r *http.Request) string {
	if params, ok := composables.UseParams(r.Context()); ok {
		return params.RequestID
	}
	return ""
}
