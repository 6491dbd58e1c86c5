package api

import (
	"encoding/json"
	"net/http"

	"github.com/Aditya-k24/AlgoPulse/internal/db"
	"github.com/Aditya-k24/AlgoPulse/internal/errors"
	"github.com/Aditya-k24/AlgoPulse/internal/logger"
	"github.com/Aditya-k24/AlgoPulse/internal/models"
	"github.com/Aditya-k24/AlgoPulse/internal/notify"
	"github.com/Aditya-k24/AlgoPulse/internal/services"
)

type Server struct {
	DB                 *db.DB
	RecallService      services.RecallService
	RecallQueryService services.RecallQueryService
	ProblemService     services.ProblemService
	Notifier           notify.Notifier
	DefaultPlan        models.Plan
}

func (s *Server) respondJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	log := logger.FromContext(r.Context())

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error("failed to encode response: %v", err)
	}
}

// decodeJSON reads the request body into dst, rejecting unknown fields
// so typos in client payloads fail loudly.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errors.NewValidationError("body", "invalid JSON: "+err.Error())
	}
	return nil
}
