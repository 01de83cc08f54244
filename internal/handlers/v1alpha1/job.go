package v1alpha1

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	api "github.com/solosphere/marketplace/api/v1alpha1"
	"github.com/solosphere/marketplace/internal/handlers/v1alpha1/mappers"
	"github.com/solosphere/marketplace/internal/service"
	"github.com/solosphere/marketplace/internal/store"
)

// (GET /jobs)
func (h *ServiceHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.jobSrv.ListJobs(r.Context(), service.NewJobFilter())
	if err != nil {
		h.logger(r, "job_handler").Errorw("failed to list jobs", "error", err)
		renderServiceError(w, r, err)
		return
	}
	render.JSON(w, r, mappers.JobListToApi(jobs))
}

// (GET /jobs/{email})
func (h *ServiceHandler) ListBuyerJobs(w http.ResponseWriter, r *http.Request) {
	filter := service.NewJobFilter(service.WithBuyerEmail(chi.URLParam(r, "email")))

	jobs, err := h.jobSrv.ListJobs(r.Context(), filter)
	if err != nil {
		h.logger(r, "job_handler").Errorw("failed to list buyer jobs", "error", err)
		renderServiceError(w, r, err)
		return
	}
	render.JSON(w, r, mappers.JobListToApi(jobs))
}

// (GET /all-jobs?filter=&search=&sort=)
func (h *ServiceHandler) SearchJobs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := service.NewJobFilter()

	if category := query.Get("filter"); category != "" {
		filter = filter.WithOption(service.WithCategory(category))
	}
	if search := query.Get("search"); search != "" {
		filter = filter.WithOption(service.WithSearch(search))
	}
	switch query.Get("sort") {
	case api.SortAscending:
		filter = filter.WithOption(service.WithDeadlineSort(store.SortAscending))
	case api.SortDescending:
		filter = filter.WithOption(service.WithDeadlineSort(store.SortDescending))
	}

	jobs, err := h.jobSrv.ListJobs(r.Context(), filter)
	if err != nil {
		h.logger(r, "job_handler").Errorw("failed to search jobs", "error", err)
		renderServiceError(w, r, err)
		return
	}
	render.JSON(w, r, mappers.JobListToApi(jobs))
}

// (GET /job/{id})
func (h *ServiceHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		renderServiceError(w, r, err)
		return
	}

	job, err := h.jobSrv.GetJob(r.Context(), id)
	if err != nil {
		renderServiceError(w, r, err)
		return
	}
	_ = render.Render(w, r, mappers.JobToApi(*job))
}

// (POST /add-job)
func (h *ServiceHandler) CreateJob(w http.ResponseWriter, r *http.Request) {
	var form api.JobCreate
	if err := render.DecodeJSON(r.Body, &form); err != nil {
		renderError(w, r, http.StatusBadRequest, "invalid body")
		return
	}

	if err := h.validator.Struct(form); err != nil {
		renderServiceError(w, r, err)
		return
	}

	job, err := h.jobSrv.CreateJob(r.Context(), mappers.JobFormApi(form))
	if err != nil {
		h.logger(r, "job_handler").Errorw("failed to create job", "error", err)
		renderServiceError(w, r, err)
		return
	}

	_ = render.Render(w, r, api.InsertAck{Acknowledged: true, InsertedId: job.ID.String()})
}

// (PUT /update-job/{id})
func (h *ServiceHandler) UpdateJob(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		renderServiceError(w, r, err)
		return
	}

	var form api.JobCreate
	if err := render.DecodeJSON(r.Body, &form); err != nil {
		renderError(w, r, http.StatusBadRequest, "invalid body")
		return
	}

	if err := h.validator.Struct(form); err != nil {
		renderServiceError(w, r, err)
		return
	}

	result, err := h.jobSrv.UpdateJob(r.Context(), id, mappers.JobFormApi(form))
	if err != nil {
		h.logger(r, "job_handler").Errorw("failed to update job", "job_id", id, "error", err)
		renderServiceError(w, r, err)
		return
	}

	ack := api.UpdateAck{
		Acknowledged:  true,
		MatchedCount:  result.MatchedCount,
		ModifiedCount: result.MatchedCount,
	}
	if result.UpsertedID != nil {
		upserted := result.UpsertedID.String()
		ack.UpsertedId = &upserted
		ack.UpsertedCount = 1
	}

	_ = render.Render(w, r, ack)
}

// (DELETE /job-delete/{id})
func (h *ServiceHandler) DeleteJob(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		renderServiceError(w, r, err)
		return
	}

	deleted, err := h.jobSrv.DeleteJob(r.Context(), id)
	if err != nil {
		h.logger(r, "job_handler").Errorw("failed to delete job", "job_id", id, "error", err)
		renderServiceError(w, r, err)
		return
	}

	_ = render.Render(w, r, api.DeleteAck{Acknowledged: true, DeletedCount: deleted})
}
