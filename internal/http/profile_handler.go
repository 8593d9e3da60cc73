package http

import (
	"encoding/json"
	"net/http"

	"github.com/prashant0268/shamyraweb/internal/domain"
	"github.com/prashant0268/shamyraweb/internal/profile"
)

type ProfileHandler struct {
	profile *profile.Service
}

func NewProfileHandler(profile *profile.Service) *ProfileHandler {
	return &ProfileHandler{profile: profile}
}

func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.profile.Get(r.Context(), getSession(r.Context()))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, p)
}

func (h *ProfileHandler) SaveProfile(w http.ResponseWriter, r *http.Request) {
	var update domain.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	session := getSession(r.Context())
	if err := h.profile.Save(r.Context(), session, update); err != nil {
		handleServiceError(w, err)
		return
	}

	p, err := h.profile.Get(r.Context(), session)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, p)
}
