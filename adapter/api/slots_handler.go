package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	calendarApp "github.com/felixgeelhaar/slotwise/internal/calendar/application"
	profileDomain "github.com/felixgeelhaar/slotwise/internal/profile/domain"
	"github.com/felixgeelhaar/slotwise/internal/slots/application/dto"
	"github.com/felixgeelhaar/slotwise/internal/slots/application/queries"
	"github.com/felixgeelhaar/slotwise/internal/slots/domain"
	"github.com/felixgeelhaar/slotwise/pkg/observability"
)

const (
	headerUserID   = "X-User-ID"
	maxRequestBody = 1 << 20
)

// ComputeSlotsResponse is the body of POST /api/v1/slots.
type ComputeSlotsResponse struct {
	dto.SchedulingResult
	Widened        bool `json:"widened"`
	CalendarEvents int  `json:"calendar_events"`
	ProfileApplied bool `json:"profile_applied"`
}

// SlotsHandler handles slot computation requests.
type SlotsHandler struct {
	compute       *queries.ComputeSlotsHandler
	defaultUserID uuid.UUID
	widenDays     int
	logger        *slog.Logger
}

// NewSlotsHandler creates a new slots handler. Requests without X-User-ID
// act for defaultUserID; uuid.Nil makes them anonymous.
func NewSlotsHandler(compute *queries.ComputeSlotsHandler, defaultUserID uuid.UUID, widenDays int, logger *slog.Logger) *SlotsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlotsHandler{
		compute:       compute,
		defaultUserID: defaultUserID,
		widenDays:     widenDays,
		logger:        logger,
	}
}

// ComputeSlots handles POST /api/v1/slots
//
// Query parameters: widen=true retries an empty un-pinned search with a longer
// horizon; widen_days overrides how far; calendar=false skips the provider.
func (h *SlotsHandler) ComputeSlots(w http.ResponseWriter, r *http.Request) {
	userID, ok := resolveUserID(w, r, h.defaultUserID)
	if !ok {
		return
	}

	var body dto.SchedulingRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	req, err := body.ToDomain()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx := observability.WithUserID(r.Context(), userID.String())
	out, err := h.compute.Handle(ctx, queries.ComputeSlotsQuery{
		UserID:       userID,
		Request:      req,
		WidenOnEmpty: parseBoolParam(r, "widen", false),
		WidenDays:    parseIntParam(r, "widen_days", h.widenDays),
		SkipCalendar: !parseBoolParam(r, "calendar", true),
	})
	if err != nil {
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			h.logger.ErrorContext(ctx, "failed to compute slots", "error", err)
		}
		writeError(w, status, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, ComputeSlotsResponse{
		SchedulingResult: dto.FromResult(out.SchedulingResult),
		Widened:          out.Widened,
		CalendarEvents:   out.CalendarEvents,
		ProfileApplied:   out.ProfileApplied,
	})
}

// statusFor maps application errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, profileDomain.ErrInvalidTimezone):
		return http.StatusBadRequest
	case errors.Is(err, profileDomain.ErrConstraintNotFound):
		return http.StatusNotFound
	case errors.Is(err, profileDomain.ErrDuplicateLabel):
		return http.StatusConflict
	case errors.Is(err, calendarApp.ErrProviderUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// resolveUserID reads X-User-ID, writing a 400 response when it is malformed.
func resolveUserID(w http.ResponseWriter, r *http.Request, fallback uuid.UUID) (uuid.UUID, bool) {
	raw := r.Header.Get(headerUserID)
	if raw == "" {
		return fallback, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid X-User-ID header")
		return uuid.Nil, false
	}
	return id, true
}
