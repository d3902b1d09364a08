package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	profileCommands "github.com/felixgeelhaar/slotwise/internal/profile/application/commands"
	profileQueries "github.com/felixgeelhaar/slotwise/internal/profile/application/queries"
	"github.com/felixgeelhaar/slotwise/internal/slots/application/dto"
	"github.com/felixgeelhaar/slotwise/internal/slots/domain"
)

// UpdateProfileRequest is the body of PATCH /api/v1/profile. Absent fields are unchanged.
type UpdateProfileRequest struct {
	Timezone               *string                   `json:"timezone,omitempty"`
	AddConstraints         []dto.RecurringConstraint `json:"add_constraints,omitempty"`
	RemoveLabels           []string                  `json:"remove_labels,omitempty"`
	EnergyFavorablePeriods *[]string                 `json:"energy_favorable_periods,omitempty"`
	DefaultMood            *string                   `json:"default_mood,omitempty"`
}

// ProfileHandler handles profile requests.
type ProfileHandler struct {
	get           *profileQueries.GetProfileHandler
	update        *profileCommands.UpdateProfileHandler
	defaultUserID uuid.UUID
	logger        *slog.Logger
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(get *profileQueries.GetProfileHandler, update *profileCommands.UpdateProfileHandler, defaultUserID uuid.UUID, logger *slog.Logger) *ProfileHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProfileHandler{
		get:           get,
		update:        update,
		defaultUserID: defaultUserID,
		logger:        logger,
	}
}

// GetProfile handles GET /api/v1/profile
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	profile, err := h.get.Handle(r.Context(), profileQueries.GetProfileQuery{UserID: userID})
	if err != nil {
		h.logger.Error("failed to load profile", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load profile")
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// UpdateProfile handles PATCH /api/v1/profile
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var body UpdateProfileRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	cmd, err := body.toCommand(userID)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := h.update.Handle(r.Context(), cmd); err != nil {
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("failed to update profile", "error", err)
		}
		writeError(w, status, err.Error())
		return
	}

	profile, err := h.get.Handle(r.Context(), profileQueries.GetProfileQuery{UserID: userID})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load profile")
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (h *ProfileHandler) userID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, ok := resolveUserID(w, r, h.defaultUserID)
	if !ok {
		return uuid.Nil, false
	}
	if id == uuid.Nil {
		writeError(w, http.StatusBadRequest, "X-User-ID header is required")
		return uuid.Nil, false
	}
	return id, true
}

func (b UpdateProfileRequest) toCommand(userID uuid.UUID) (profileCommands.UpdateProfileCommand, error) {
	cmd := profileCommands.UpdateProfileCommand{
		UserID:       userID,
		Timezone:     b.Timezone,
		RemoveLabels: b.RemoveLabels,
	}
	for _, c := range b.AddConstraints {
		rc, err := c.ToDomain()
		if err != nil {
			return cmd, err
		}
		cmd.AddConstraints = append(cmd.AddConstraints, rc)
	}
	if b.EnergyFavorablePeriods != nil {
		cmd.SetEnergyPeriods = true
		for _, p := range *b.EnergyFavorablePeriods {
			period, err := domain.ParseEnergyPeriod(p)
			if err != nil {
				return cmd, err
			}
			cmd.EnergyPeriods = append(cmd.EnergyPeriods, period)
		}
	}
	if b.DefaultMood != nil {
		mood, err := domain.ParseMood(*b.DefaultMood)
		if err != nil {
			return cmd, err
		}
		cmd.DefaultMood = &mood
	}
	return cmd, nil
}
