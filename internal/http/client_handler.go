package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/contractdesk/contractdesk/internal/domain"
	"github.com/contractdesk/contractdesk/pkg/logger"
)

type ClientHandler struct {
	service domain.ClientService
	logger  logger.Logger
}

func NewClientHandler(service domain.ClientService, logger logger.Logger) *ClientHandler {
	return &ClientHandler{
		service: service,
		logger:  logger,
	}
}

func (h *ClientHandler) RegisterRoutes(r chi.Router) {
	r.Get("/clients", h.handleList)
	r.Post("/clients", h.handleCreate)
	r.Put("/clients/{id}", h.handleUpdate)
	r.Delete("/clients/{id}", h.handleDelete)
}

func (h *ClientHandler) handleList(w http.ResponseWriter, r *http.Request) {
	clients, err := h.service.ListClients(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to get clients")
		return
	}

	writeJSON(w, http.StatusOK, clients)
}

func (h *ClientHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to decode request body")
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	client, err := h.service.CreateClient(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to create client")
		return
	}

	writeJSON(w, http.StatusCreated, client)
}

func (h *ClientHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		WriteJSONError(w, "Invalid client ID", http.StatusBadRequest)
		return
	}

	var req domain.UpdateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to decode request body")
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	client, err := h.service.UpdateClient(r.Context(), id, &req)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to update client")
		return
	}

	writeJSON(w, http.StatusOK, client)
}

func (h *ClientHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		WriteJSONError(w, "Invalid client ID", http.StatusBadRequest)
		return
	}

	deleted, err := h.service.DeleteClient(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to delete client")
		return
	}

	// Respond with the removed record, annotated with how many contracts the
	// cascade took with it
	client := deleted.Client
	client.ContractCount = deleted.ContractsRemoved
	writeJSON(w, http.StatusOK, client)
}
