// Package handler is the thin HTTP layer over protocol intake and dispatch.
// It delegates to domain services and keeps transport concerns out of
// business logic.
package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"atende/internal/dispatch"
	protocolmodels "atende/internal/protocol/models"
	protocolservice "atende/internal/protocol/service"
	id "atende/pkg/domain"
	dErrors "atende/pkg/domain-errors"
)

//go:generate mockgen -source=handler.go -destination=mocks/dispatcher-mocks.go -package=mocks Dispatcher

// Dispatcher is the orchestrator surface the HTTP layer needs.
type Dispatcher interface {
	Dispatch(ctx context.Context, protocolID id.ProtocolID) (dispatch.DispatchResult, error)
	WorkloadStatus(ctx context.Context, protocolID id.ProtocolID) (id.TriState, error)
}

// Handler serves the protocol intake and dispatch endpoints.
type Handler struct {
	protocols  *protocolservice.Service
	dispatcher Dispatcher
}

func New(protocols *protocolservice.Service, dispatcher Dispatcher) *Handler {
	return &Handler{protocols: protocols, dispatcher: dispatcher}
}

// Routes mounts the handler on a chi router.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/protocols", h.submitProtocol)
	r.Get("/protocols/{protocolID}", h.getProtocol)
	r.Post("/protocols/{protocolID}/dispatch", h.dispatchProtocol)
	r.Get("/protocols/{protocolID}/workload", h.workloadStatus)
}

type submitRequest struct {
	TenantID    string         `json:"tenant_id"`
	CitizenID   string         `json:"citizen_id"`
	ServiceID   string         `json:"service_id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Data        map[string]any `json:"data"`
}

type protocolResponse struct {
	ID           string         `json:"id"`
	Number       string         `json:"number"`
	Status       string         `json:"status"`
	Title        string         `json:"title,omitempty"`
	ModuleEntity string         `json:"module_entity,omitempty"`
	RecordID     string         `json:"record_id,omitempty"`
	Data         map[string]any `json:"data,omitempty"`
}

type dispatchResponse struct {
	ProtocolID     string `json:"protocol_id"`
	ProtocolNumber string `json:"protocol_number"`
	Informational  bool   `json:"informational"`
	AlreadyLinked  bool   `json:"already_linked"`
	ModuleEntity   string `json:"module_entity,omitempty"`
	RecordID       string `json:"record_id,omitempty"`
	Message        string `json:"message,omitempty"`
}

// submitProtocol persists a protocol and immediately dispatches it, the
// inbound trigger contract of the protocol-creation workflow.
func (h *Handler) submitProtocol(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "malformed request body"))
		return
	}
	tenantID, err := id.ParseTenantID(req.TenantID)
	if err != nil {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid tenant_id"))
		return
	}
	serviceID, err := id.ParseServiceID(req.ServiceID)
	if err != nil {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid service_id"))
		return
	}
	var citizenID id.CitizenID
	if req.CitizenID != "" {
		citizenID, err = id.ParseCitizenID(req.CitizenID)
		if err != nil {
			writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid citizen_id"))
			return
		}
	}

	p, err := h.protocols.Submit(r.Context(), protocolservice.SubmitRequest{
		TenantID:    tenantID,
		CitizenID:   citizenID,
		ServiceID:   serviceID,
		Title:       req.Title,
		Description: req.Description,
		FormData:    req.Data,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := h.dispatcher.Dispatch(r.Context(), p.ID)
	if err != nil {
		// The protocol exists but dispatch failed; report both facts so the
		// caller can correct the submission and retry.
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"protocol": toProtocolResponse(p),
			"error":    errorBody(err),
		})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"protocol": toProtocolResponse(p),
		"dispatch": toDispatchResponse(result),
	})
}

func (h *Handler) getProtocol(w http.ResponseWriter, r *http.Request) {
	protocolID, err := id.ParseProtocolID(chi.URLParam(r, "protocolID"))
	if err != nil {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid protocol id"))
		return
	}
	p, err := h.protocols.Get(r.Context(), protocolID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProtocolResponse(p))
}

func (h *Handler) dispatchProtocol(w http.ResponseWriter, r *http.Request) {
	protocolID, err := id.ParseProtocolID(chi.URLParam(r, "protocolID"))
	if err != nil {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid protocol id"))
		return
	}
	result, err := h.dispatcher.Dispatch(r.Context(), protocolID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDispatchResponse(result))
}

func (h *Handler) workloadStatus(w http.ResponseWriter, r *http.Request) {
	protocolID, err := id.ParseProtocolID(chi.URLParam(r, "protocolID"))
	if err != nil {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid protocol id"))
		return
	}
	tri, err := h.dispatcher.WorkloadStatus(r.Context(), protocolID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"workload_status": tri.String()})
}

func toProtocolResponse(p *protocolmodels.Protocol) protocolResponse {
	resp := protocolResponse{
		ID:     p.ID.String(),
		Number: p.Number.String(),
		Status: p.Status.String(),
		Title:  p.Title,
		Data:   p.FormData,
	}
	if !p.Linkage.IsZero() {
		resp.ModuleEntity = p.Linkage.ModuleEntity
		resp.RecordID = p.Linkage.RecordID.String()
	}
	return resp
}

func toDispatchResponse(result dispatch.DispatchResult) dispatchResponse {
	resp := dispatchResponse{
		ProtocolID:     result.ProtocolID.String(),
		ProtocolNumber: result.ProtocolNumber.String(),
		Informational:  result.Informational,
		AlreadyLinked:  result.AlreadyLinked,
		Message:        result.DisplayMessage,
	}
	if !result.Linkage.IsZero() {
		resp.ModuleEntity = result.Linkage.ModuleEntity
		resp.RecordID = result.Linkage.RecordID.String()
	}
	return resp
}

// statusOf maps domain error codes onto HTTP statuses.
func statusOf(err error) int {
	switch dErrors.CodeOf(err) {
	case dErrors.CodeValidation, dErrors.CodeBadRequest:
		return http.StatusBadRequest
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeConflict, dErrors.CodeInvariantViolation:
		return http.StatusConflict
	case dErrors.CodeUnknownModule:
		return http.StatusUnprocessableEntity
	case dErrors.CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func errorBody(err error) map[string]any {
	body := map[string]any{
		"code":    string(dErrors.CodeOf(err)),
		"message": err.Error(),
	}
	if fields := dErrors.FieldsOf(err); len(fields) > 0 {
		body["fields"] = fields
	}
	return body
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusOf(err), map[string]any{"error": errorBody(err)})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
