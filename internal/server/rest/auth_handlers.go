package rest

import (
	"net/http"

	"github.com/HazimBhatt/sharefolio/internal/server/models"
	"github.com/HazimBhatt/sharefolio/internal/server/services"
)

const forgotPasswordAck = "If an account with that email exists, a reset code has been sent."

type userResponse struct {
	Message string          `json:"message,omitempty"`
	User    *models.Profile `json:"user"`
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type emailRequest struct {
	Email string `json:"email"`
}

type verifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type verifyOTPResponse struct {
	Verified bool   `json:"verified"`
	Message  string `json:"message"`
}

func (h *Handler) signUp(w http.ResponseWriter, r *http.Request) {
	var in services.SignUpInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, err)
		return
	}

	p, err := h.users.SignUp(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, userResponse{Message: "User created successfully", User: p})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var in credentialsRequest
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, err)
		return
	}

	res, err := h.users.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	h.cookies.set(w, res.Token, res.ExpiresAt)
	writeJSON(w, http.StatusOK, userResponse{Message: "Login successful", User: res.User})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	h.cookies.clear(w)
	writeMessage(w, http.StatusOK, "Logged out successfully")
}

func (h *Handler) verify(w http.ResponseWriter, r *http.Request) {
	p, err := h.users.VerifySession(r.Context(), sessionToken(r))
	if err != nil {
		h.cookies.clear(w)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, userResponse{User: p})
}

func (h *Handler) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var in emailRequest
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, err)
		return
	}

	if err := h.users.RequestPasswordReset(r.Context(), in.Email); err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, forgotPasswordAck)
}

func (h *Handler) verifyOTP(w http.ResponseWriter, r *http.Request) {
	var in verifyOTPRequest
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, err)
		return
	}

	if err := h.users.VerifyResetCode(r.Context(), in.Email, in.OTP); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, verifyOTPResponse{Verified: true, Message: "OTP verified successfully"})
}

func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	var in services.ResetPasswordInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, err)
		return
	}

	if err := h.users.ResetPassword(r.Context(), in); err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "Password reset successfully")
}
