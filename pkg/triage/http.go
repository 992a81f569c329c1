package triage

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/smart-triage/platform/pkg/common/logger"
	"github.com/smart-triage/platform/pkg/common/models"
	"github.com/smart-triage/platform/pkg/report"
)

type HTTPHandler struct {
	service   *Service
	maxBody   int64
	trendDays int
}

func NewHTTPHandler(service *Service, maxBody int64, trendDays int) *HTTPHandler {
	return &HTTPHandler{service: service, maxBody: maxBody, trendDays: trendDays}
}

func (h *HTTPHandler) Register(router *mux.Router) {
	router.HandleFunc("/triage", h.handleSubmit).Methods(http.MethodPost)
	router.HandleFunc("/triage", h.handleDashboard).Methods(http.MethodGet)
	router.HandleFunc("/triage/{id}", h.handleGetRecord).Methods(http.MethodGet)
}

type messageResponse struct {
	Message string `json:"message"`
}

type dashboardResponse struct {
	models.DashboardSummary
	Patients []models.PatientRecord `json:"patients"`
}

func (h *HTTPHandler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if h.maxBody > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)
	}

	var intake models.IntakeRecord
	if err := json.NewDecoder(r.Body).Decode(&intake); err != nil {
		logger.Log.WithError(err).Warn("invalid triage payload")
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.Submit(r.Context(), intake)
	if err != nil {
		h.writeSubmitError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *HTTPHandler) writeSubmitError(w http.ResponseWriter, err error) {
	switch {
	case IsValidationError(err):
		writeMessage(w, http.StatusBadRequest, "No sufficient clinical data provided.")
	case errors.Is(err, ErrMalformed):
		logger.Log.WithError(err).Error("reasoner returned unusable output")
		writeMessage(w, http.StatusInternalServerError, "AI response parsing failed")
	default:
		logger.Log.WithError(err).Error("triage submission failed")
		writeMessage(w, http.StatusInternalServerError, "Server Error")
	}
}

func (h *HTTPHandler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.ListRecent(r.Context(), 0)
	if err != nil {
		logger.Log.WithError(err).Error("failed to list patient records")
		writeMessage(w, http.StatusInternalServerError, "Server Error")
		return
	}

	if records == nil {
		records = []models.PatientRecord{}
	}

	writeJSON(w, http.StatusOK, dashboardResponse{
		DashboardSummary: report.Summarize(records, h.trendDays),
		Patients:         records,
	})
}

func (h *HTTPHandler) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	rec, err := h.service.GetRecord(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeMessage(w, http.StatusNotFound, "Patient record not found")
			return
		}
		logger.Log.WithError(err).Error("failed to fetch patient record")
		writeMessage(w, http.StatusInternalServerError, "Server Error")
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, messageResponse{Message: message})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
