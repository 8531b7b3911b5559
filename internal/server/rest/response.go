package rest

import (
	"errors"
	"net/http"

	"github.com/HazimBhatt/sharefolio/internal/common"
	"github.com/goccy/go-json"
)

// maxBodyBytes caps request bodies; portfolio documents are the largest.
const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, messageResponse{Message: msg})
}

func writeError(w http.ResponseWriter, err error) {
	status, msg := errorStatus(err)
	writeJSON(w, status, errorResponse{Error: msg})
}

// errorStatus maps an error from the services to a status code and a message
// that is safe to show clients.
func errorStatus(err error) (int, string) {
	var ve *common.ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, ve.Message
	case errors.Is(err, common.ErrEmailTaken):
		return http.StatusConflict, "User already exists"
	case errors.Is(err, common.ErrSubdomainTaken):
		return http.StatusConflict, "Subdomain is already taken"
	case errors.Is(err, common.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid email or password"
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired):
		return http.StatusUnauthorized, "Not authenticated"
	case errors.Is(err, common.ErrInvalidOrExpiredCode):
		return http.StatusBadRequest, "Invalid or expired OTP"
	case errors.Is(err, common.ErrNotFoundOrForbidden), errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, "Portfolio not found"
	case errors.Is(err, common.ErrInsufficientTokens):
		return http.StatusPaymentRequired, "Not enough tokens"
	case errors.Is(err, common.ErrMailDelivery):
		return http.StatusInternalServerError, "Failed to send reset email"
	case errors.Is(err, common.ErrMediaNotConfigured):
		return http.StatusInternalServerError, "Media uploads are not configured"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

var errInvalidBody = common.NewValidationError("Invalid request body")

// decodeJSON reads the JSON body into dst. Oversized, empty or malformed
// bodies all fail with the same validation error.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return errInvalidBody
	}
	return nil
}
