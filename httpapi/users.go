package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/libris-io/libris"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var nu libris.NewUser
	if err := json.NewDecoder(r.Body).Decode(&nu); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_body", "Malformed JSON body")
		return
	}

	token, err := h.users.Register(r.Context(), nu)
	if err != nil {
		HandleError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusCreated, tokenResponse{AccessToken: token})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_body", "Malformed JSON body")
		return
	}

	token, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		HandleError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, tokenResponse{AccessToken: token})
}
