package v1alpha1

import (
	"net/http"

	"github.com/go-chi/render"
	api "github.com/solosphere/marketplace/api/v1alpha1"
)

// (POST /jwt)
func (h *ServiceHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	var form api.TokenRequest
	if err := render.DecodeJSON(r.Body, &form); err != nil {
		renderError(w, r, http.StatusBadRequest, "invalid body")
		return
	}

	if err := h.validator.Struct(form); err != nil {
		renderServiceError(w, r, err)
		return
	}

	token, err := h.authenticator.IssueToken(form.Email)
	if err != nil {
		h.logger(r, "auth_handler").Errorw("failed to issue token", "error", err)
		renderServiceError(w, r, err)
		return
	}

	h.authenticator.SetCookie(w, token)
	_ = render.Render(w, r, api.Success{Success: true})
}

// (GET /logout)
func (h *ServiceHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.authenticator.ClearCookie(w)
	_ = render.Render(w, r, api.Success{Success: true})
}
