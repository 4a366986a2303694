package handlers

import (
	"net/http"

	"fleet-dispatch-service/internal/services"
)

type UserHandler struct {
	Roles *services.RoleDetector
}

// Role resolves the caller role for a phone number. Unregistered phones come
// back as customer rather than 404 so chat intake can proceed.
func (h *UserHandler) Role(w http.ResponseWriter, r *http.Request) {
	phone := r.PathValue("phone")

	role, err := h.Roles.DetectRole(r.Context(), phone)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]string{
		"phone": phone,
		"role":  string(role),
	})
}
