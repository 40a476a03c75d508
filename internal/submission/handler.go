package submission

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/izzatfaris/permohonan-intake/internal/transport"
	"github.com/izzatfaris/permohonan-intake/pkg/logger"
)

type ServiceAPI interface {
	CreateSubmission(ctx context.Context, dto CreateSubmissionDTO) (*Submission, error)
	GetAllSubmissions(ctx context.Context) ([]*Submission, error)
	GetSubmissionByID(ctx context.Context, id string) (*Submission, error)
	GetSubmissionsByEmail(ctx context.Context, email string) ([]*Submission, error)
	UpdateStatus(ctx context.Context, id string, dto UpdateStatusDTO) (*Submission, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger.L()),
		Service:     service,
	}
}

func (h *Handler) CreateSubmission(w http.ResponseWriter, r *http.Request) {
	var dto CreateSubmissionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateSubmission: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	sub, err := h.Service.CreateSubmission(r.Context(), dto)
	if err != nil {
		h.Logger.Error("CreateSubmission: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("CreateSubmission: submission created",
		"submission_id", sub.ID,
		"status", sub.Status)

	h.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"success":    true,
		"submission": sub,
	})
}

func (h *Handler) GetAllSubmissions(w http.ResponseWriter, r *http.Request) {
	subs, err := h.Service.GetAllSubmissions(r.Context())
	if err != nil {
		h.Logger.Error("GetAllSubmissions: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"submissions": subs})
}

func (h *Handler) GetSubmission(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	sub, err := h.Service.GetSubmissionByID(r.Context(), id)
	if err != nil {
		h.Logger.Error("GetSubmission: service error", "error", err, "submission_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"submission": sub})
}

func (h *Handler) GetSubmissionsByEmail(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")

	subs, err := h.Service.GetSubmissionsByEmail(r.Context(), email)
	if err != nil {
		h.Logger.Error("GetSubmissionsByEmail: service error", "error", err, "email", email)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"submissions": subs})
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var dto UpdateStatusDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("UpdateStatus: invalid request body", "error", err, "submission_id", id)
		h.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	sub, err := h.Service.UpdateStatus(r.Context(), id, dto)
	if err != nil {
		h.Logger.Error("UpdateStatus: service error", "error", err, "submission_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("UpdateStatus: status updated",
		"submission_id", id,
		"status", sub.Status)

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"submission": sub,
	})
}
