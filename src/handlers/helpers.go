package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"gajanji-server/src/auth"
	db "gajanji-server/src/db/sql"
	"gajanji-server/src/logger"
	"gajanji-server/src/util"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const maxBodyBytes = 1 << 20

// identity returns the authenticated caller. Routes using it sit behind
// JWTAuth, so a missing identity is answered with 401.
func identity(w http.ResponseWriter, r *http.Request) (auth.Identity, bool) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok || id.UserID == "" {
		util.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return auth.Identity{}, false
	}
	return id, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
}

// pathID reads and validates the {id} URL parameter.
func pathID(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		logger.FromContext(r.Context()).Info("Invalid id param", "param", raw)
		util.WriteError(w, http.StatusBadRequest, "invalid "+name+" id")
		return "", false
	}
	return id.String(), true
}

// writeLoadError answers a failed record lookup with 404 or 500.
func writeLoadError(w http.ResponseWriter, r *http.Request, err error, what string) {
	if errors.Is(err, db.ErrNotFound) {
		util.WriteError(w, http.StatusNotFound, what+" not found")
		return
	}
	logger.FromContext(r.Context()).Error("Failed to load "+what, logger.FieldError, err)
	util.WriteError(w, http.StatusInternalServerError, "Server error")
}

const dateOnlyLayout = "2006-01-02"
