package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"hurdl/internal/model"
	"hurdl/internal/service"
)

// CheckinHandler handles the anonymous check-in and chat endpoints
type CheckinHandler struct {
	checkinSvc *service.CheckinService
	logger     *zap.Logger
}

// NewCheckinHandler creates a new check-in handler
func NewCheckinHandler(checkinSvc *service.CheckinService, logger *zap.Logger) *CheckinHandler {
	return &CheckinHandler{
		checkinSvc: checkinSvc,
		logger:     logger,
	}
}

// StartRequest is the request body for starting a check-in
type StartRequest struct {
	Department string `json:"department"`
	Location   string `json:"location"`
}

// ChatRequest is the request body for a chat message
type ChatRequest struct {
	Message string `json:"message"`
}

// Questions handles GET /v1/questions
func (h *CheckinHandler) Questions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.checkinSvc.Questions())
}

// Start handles POST /v1/checkins
func (h *CheckinHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req StartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view, err := h.checkinSvc.Start(r.Context(), req.Department, req.Location)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

// Get handles GET /v1/checkins/{id}
func (h *CheckinHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.checkinSvc.Current(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Advance handles POST /v1/checkins/{id}/advance
func (h *CheckinHandler) Advance(w http.ResponseWriter, r *http.Request) {
	var answer model.CheckinAnswer
	if err := decodeOptional(r, &answer); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view, err := h.checkinSvc.Advance(r.Context(), mux.Vars(r)["id"], answer)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// ChatHistory handles GET /v1/checkins/{id}/chat
func (h *CheckinHandler) ChatHistory(w http.ResponseWriter, r *http.Request) {
	messages, err := h.checkinSvc.ChatHistory(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"messages": messages})
}

// Chat handles POST /v1/checkins/{id}/chat
func (h *CheckinHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	messages, err := h.checkinSvc.Chat(r.Context(), mux.Vars(r)["id"], req.Message)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"messages": messages})
}

func (h *CheckinHandler) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidSelection),
		errors.Is(err, service.ErrInvalidAnswer),
		errors.Is(err, service.ErrEmptyMessage):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrChatUnavailable):
		writeError(w, http.StatusConflict, err.Error())
	default:
		h.logger.Error("check-in request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
