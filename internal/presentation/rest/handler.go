package rest

import (
	"errors"
	"log/slog"
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/gorilla/mux"

	"github.com/finrestructure/consolidation-service/internal/application/dto"
	"github.com/finrestructure/consolidation-service/internal/application/usecase"
)

// Handler exposes the evaluation API over HTTP.
type Handler struct {
	evaluate *usecase.EvaluateCustomerUseCase
	offers   *usecase.ListOffersUseCase
	logger   *slog.Logger
}

// NewHandler creates the HTTP handler for the evaluation API.
func NewHandler(
	evaluate *usecase.EvaluateCustomerUseCase,
	offers *usecase.ListOffersUseCase,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		evaluate: evaluate,
		offers:   offers,
		logger:   logger,
	}
}

// RegisterRoutes attaches the API routes to the given router.
func (h *Handler) RegisterRoutes(router *mux.Router) {
	v1 := router.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/evaluation", h.evaluateCustomer).Methods(http.MethodPost)
	v1.HandleFunc("/offers", h.listOffers).Methods(http.MethodGet)
}

func (h *Handler) evaluateCustomer(w http.ResponseWriter, r *http.Request) {
	var req dto.EvaluationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.evaluate.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrCustomerIDRequired),
			errors.Is(err, usecase.ErrInvalidRequestedTerm):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("evaluation failed", "customer_id", req.CustomerID, "error", err)
			writeError(w, http.StatusInternalServerError, "evaluation failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) listOffers(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.offers.Execute(r.Context())
	if err != nil {
		h.logger.Error("listing offers failed", "error", err)
		writeError(w, http.StatusInternalServerError, "listing offers failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"offers": summaries})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
