package handlers

import (
	"encoding/json"
	"net/http"

	"social-server/middleware"
	"social-server/models"
	"social-server/utils/errors"
)

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// decodeAndValidate reads a JSON body into dst and checks its validate tags.
// It writes the 400 itself and reports false when the payload is unusable.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		middleware.WriteError(w, errors.Wrap(err, errors.ErrInvalidInput.Code, errors.ErrInvalidInput.Message, http.StatusBadRequest))
		return false
	}
	if err := models.Validate(dst); err != nil {
		middleware.WriteError(w, errors.Wrap(err, errors.ErrInvalidInput.Code, errors.ErrInvalidInput.Message, http.StatusBadRequest))
		return false
	}
	return true
}
