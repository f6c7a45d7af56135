// Package handler exposes the service catalog's administrative endpoints.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"atende/internal/catalog/models"
	id "atende/pkg/domain"
	dErrors "atende/pkg/domain-errors"
	"atende/pkg/platform/sentinel"
	"atende/pkg/requestcontext"
)

// Store is the catalog persistence surface the handler needs.
type Store interface {
	Create(ctx context.Context, svc *models.ServiceDefinition) error
	FindByID(ctx context.Context, tenantID id.TenantID, serviceID id.ServiceID) (*models.ServiceDefinition, error)
}

// Handler serves catalog administration: registering service definitions and
// inspecting them.
type Handler struct {
	store Store
}

func New(store Store) *Handler {
	return &Handler{store: store}
}

// Routes mounts the handler on a chi router.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/services", h.createService)
	r.Get("/services/{serviceID}", h.getService)
}

type createServiceRequest struct {
	TenantID       string `json:"tenant_id"`
	Name           string `json:"name"`
	Department     string `json:"department"`
	ModuleType     string `json:"module_type"`
	Classification string `json:"classification"`
}

type serviceResponse struct {
	ID             string `json:"id"`
	TenantID       string `json:"tenant_id"`
	Name           string `json:"name"`
	Department     string `json:"department,omitempty"`
	ModuleType     string `json:"module_type,omitempty"`
	Classification string `json:"classification"`
	Active         bool   `json:"active"`
}

func (h *Handler) createService(w http.ResponseWriter, r *http.Request) {
	var req createServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	tenantID, err := id.ParseTenantID(req.TenantID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid tenant_id")
		return
	}
	classification, err := models.ParseClassification(req.Classification)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var moduleType id.ModuleType
	if req.ModuleType != "" {
		moduleType, err = id.ParseModuleType(req.ModuleType)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	now := requestcontext.Now(r.Context())
	svc := &models.ServiceDefinition{
		ID:             id.ServiceID(uuid.New()),
		TenantID:       tenantID,
		Name:           req.Name,
		Department:     req.Department,
		ModuleType:     moduleType,
		Classification: classification,
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := h.store.Create(r.Context(), svc); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			writeError(w, http.StatusConflict, "service already exists")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, toServiceResponse(svc))
}

func (h *Handler) getService(w http.ResponseWriter, r *http.Request) {
	serviceID, err := id.ParseServiceID(chi.URLParam(r, "serviceID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid service id")
		return
	}
	tenantID, err := id.ParseTenantID(r.URL.Query().Get("tenant_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid tenant_id")
		return
	}
	svc, err := h.store.FindByID(r.Context(), tenantID, serviceID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			writeError(w, http.StatusNotFound, "service not found")
			return
		}
		writeError(w, http.StatusInternalServerError, dErrors.Wrap(err, dErrors.CodeInternal, "load service").Error())
		return
	}
	writeJSON(w, http.StatusOK, toServiceResponse(svc))
}

func toServiceResponse(svc *models.ServiceDefinition) serviceResponse {
	resp := serviceResponse{
		ID:             svc.ID.String(),
		TenantID:       svc.TenantID.String(),
		Name:           svc.Name,
		Department:     svc.Department,
		Classification: svc.Classification.String(),
		Active:         svc.Active,
	}
	if !svc.ModuleType.IsNil() {
		resp.ModuleType = svc.ModuleType.String()
	}
	return resp
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": map[string]string{"message": message}})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
