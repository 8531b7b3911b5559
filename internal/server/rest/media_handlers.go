package rest

import "net/http"

type signUploadRequest struct {
	PublicID string `json:"public_id"`
	Folder   string `json:"folder"`
}

func (h *Handler) signUpload(w http.ResponseWriter, r *http.Request) {
	id, _ := identity(r)

	var in signUploadRequest
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, err)
		return
	}

	sig, err := h.media.SignUpload(r.Context(), id, in.PublicID, in.Folder)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sig)
}
