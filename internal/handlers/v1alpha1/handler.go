package v1alpha1

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	api "github.com/solosphere/marketplace/api/v1alpha1"
	"github.com/solosphere/marketplace/internal/auth"
	"github.com/solosphere/marketplace/internal/handlers/validator"
	"github.com/solosphere/marketplace/internal/service"
	"github.com/solosphere/marketplace/pkg/requestid"
	"go.uber.org/zap"
)

type ServiceHandler struct {
	jobSrv        *service.JobService
	bidSrv        *service.BidService
	authenticator *auth.CookieAuthenticator
	validator     *validator.Validator
}

func NewServiceHandler(jobService *service.JobService, bidService *service.BidService, authenticator *auth.CookieAuthenticator) *ServiceHandler {
	v := validator.NewValidator()
	v.Register(validator.NewJobValidationRules()...)
	v.Register(validator.NewBidValidationRules()...)

	return &ServiceHandler{
		jobSrv:        jobService,
		bidSrv:        bidService,
		authenticator: authenticator,
		validator:     v,
	}
}

// Routes mounts the marketplace endpoints. Only the bid listing requires the token cookie.
func (h *ServiceHandler) Routes(r chi.Router) {
	r.Post("/jwt", h.IssueToken)
	r.Get("/logout", h.Logout)

	r.Get("/jobs", h.ListJobs)
	r.Get("/jobs/{email}", h.ListBuyerJobs)
	r.Get("/all-jobs", h.SearchJobs)
	r.Get("/job/{id}", h.GetJob)
	r.Post("/add-job", h.CreateJob)
	r.Put("/update-job/{id}", h.UpdateJob)
	r.Delete("/job-delete/{id}", h.DeleteJob)

	r.Post("/add-bid", h.PlaceBid)
	r.Patch("/bid-status-updated/{id}", h.UpdateBidStatus)
	r.With(h.authenticator.Authenticator).Get("/bids/{email}", h.ListBids)
}

func (h *ServiceHandler) logger(r *http.Request, name string) *zap.SugaredLogger {
	return zap.S().Named(name).With("request_id", requestid.FromRequest(r))
}

func renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	render.Status(r, status)
	_ = render.Render(w, r, api.Error{Message: message})
}

// renderServiceError maps typed errors to their status code. Anything unknown is a 500
// and its message is not leaked to the client.
func renderServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		notFound   *service.ErrResourceNotFound
		transition *service.ErrInvalidTransition
		invalid    *validator.ErrInvalidRequest
		unauth     *auth.ErrUnauthorized
		forbidden  *auth.ErrForbidden
	)

	switch {
	case errors.As(err, &notFound):
		renderError(w, r, http.StatusNotFound, err.Error())
	case errors.As(err, &transition), errors.As(err, &invalid):
		renderError(w, r, http.StatusBadRequest, err.Error())
	case errors.As(err, &unauth):
		renderError(w, r, http.StatusUnauthorized, "unauthorized access")
	case errors.As(err, &forbidden):
		renderError(w, r, http.StatusForbidden, "forbidden access")
	default:
		renderError(w, r, http.StatusInternalServerError, "internal server error")
	}
}

func parseID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, validator.NewErrInvalidRequest("invalid id %q", chi.URLParam(r, "id"))
	}
	return id, nil
}
