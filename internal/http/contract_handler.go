package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/contractdesk/contractdesk/internal/domain"
	"github.com/contractdesk/contractdesk/pkg/logger"
)

type ContractHandler struct {
	service domain.ContractService
	logger  logger.Logger
}

func NewContractHandler(service domain.ContractService, logger logger.Logger) *ContractHandler {
	return &ContractHandler{
		service: service,
		logger:  logger,
	}
}

func (h *ContractHandler) RegisterRoutes(r chi.Router) {
	r.Get("/contracts", h.handleList)
	r.Post("/contracts", h.handleCreate)
	r.Put("/contracts/{id}", h.handleUpdate)
	r.Delete("/contracts/{id}", h.handleDelete)
}

func (h *ContractHandler) handleList(w http.ResponseWriter, r *http.Request) {
	// Both filters are optional and additive
	filter := domain.ContractFilter{
		Airline: r.URL.Query().Get("airline"),
		Status:  r.URL.Query().Get("status"),
	}

	contracts, err := h.service.ListContracts(r.Context(), filter)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to get contracts")
		return
	}

	writeJSON(w, http.StatusOK, contracts)
}

func (h *ContractHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateContractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to decode request body")
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	contract, err := h.service.CreateContract(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to create contract")
		return
	}

	writeJSON(w, http.StatusCreated, contract)
}

func (h *ContractHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		WriteJSONError(w, "Invalid contract ID", http.StatusBadRequest)
		return
	}

	var req domain.UpdateContractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to decode request body")
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	contract, err := h.service.UpdateContract(r.Context(), id, &req)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to update contract")
		return
	}

	writeJSON(w, http.StatusOK, contract)
}

func (h *ContractHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		WriteJSONError(w, "Invalid contract ID", http.StatusBadRequest)
		return
	}

	contract, err := h.service.DeleteContract(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to delete contract")
		return
	}

	writeJSON(w, http.StatusOK, contract)
}
