package v1alpha1

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	api "github.com/solosphere/marketplace/api/v1alpha1"
	"github.com/solosphere/marketplace/internal/auth"
	"github.com/solosphere/marketplace/internal/handlers/v1alpha1/mappers"
	"github.com/solosphere/marketplace/internal/service"
	"github.com/solosphere/marketplace/internal/store/model"
)

// (POST /add-bid)
func (h *ServiceHandler) PlaceBid(w http.ResponseWriter, r *http.Request) {
	var form api.BidCreate
	if err := render.DecodeJSON(r.Body, &form); err != nil {
		renderError(w, r, http.StatusBadRequest, "invalid body")
		return
	}

	if err := h.validator.Struct(form); err != nil {
		renderServiceError(w, r, err)
		return
	}

	bid, err := h.bidSrv.PlaceBid(r.Context(), mappers.BidFormApi(form))
	if err != nil {
		var duplicate *service.ErrDuplicateBid
		if errors.As(err, &duplicate) {
			// clients match on this exact text body
			render.Status(r, http.StatusBadRequest)
			render.PlainText(w, r, service.DuplicateBidMessage)
			return
		}

		h.logger(r, "bid_handler").Errorw("failed to place bid", "job_id", form.JobId, "error", err)
		renderServiceError(w, r, err)
		return
	}

	_ = render.Render(w, r, api.InsertAck{Acknowledged: true, InsertedId: bid.ID.String()})
}

// (GET /bids/{email}?buyer)
func (h *ServiceHandler) ListBids(w http.ResponseWriter, r *http.Request) {
	user := auth.MustHaveUser(r.Context())

	scope, err := auth.AuthorizeBidQuery(user, chi.URLParam(r, "email"), r.URL.Query().Has("buyer"))
	if err != nil {
		h.logger(r, "bid_handler").Warnw("bid query rejected", "user", user.Email, "requested", chi.URLParam(r, "email"))
		renderServiceError(w, r, err)
		return
	}

	bids, err := h.bidSrv.ListBids(r.Context(), scope.Filter())
	if err != nil {
		h.logger(r, "bid_handler").Errorw("failed to list bids", "error", err)
		renderServiceError(w, r, err)
		return
	}

	render.JSON(w, r, mappers.BidListToApi(bids))
}

// (PATCH /bid-status-updated/{id})
func (h *ServiceHandler) UpdateBidStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		renderServiceError(w, r, err)
		return
	}

	var form api.BidStatusUpdate
	if err := render.DecodeJSON(r.Body, &form); err != nil {
		renderError(w, r, http.StatusBadRequest, "invalid body")
		return
	}

	if err := h.validator.Struct(form); err != nil {
		renderServiceError(w, r, err)
		return
	}

	matched, err := h.bidSrv.UpdateBidStatus(r.Context(), id, model.BidStatus(form.Status))
	if err != nil {
		h.logger(r, "bid_handler").Errorw("failed to update bid status", "bid_id", id, "error", err)
		renderServiceError(w, r, err)
		return
	}

	_ = render.Render(w, r, api.UpdateAck{
		Acknowledged:  true,
		MatchedCount:  matched,
		ModifiedCount: matched,
	})
}
