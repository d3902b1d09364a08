package domain

import (
	"errors"
	"fmt"
	"time"

	slots "github.com/felixgeelhaar/slotwise/internal/slots/domain"
	"github.com/google/uuid"
)

var (
	ErrProfileNotFound    = errors.New("profile not found")
	ErrInvalidTimezone    = errors.New("invalid timezone")
	ErrDuplicateLabel     = errors.New("a constraint with this label already exists")
	ErrConstraintNotFound = errors.New("constraint not found")
)

// Profile holds a user's scheduling preferences: weekly unavailability,
// energy periods and a default mood.
type Profile struct {
	userID        uuid.UUID
	timezone      string
	constraints   []slots.RecurringConstraint
	energyPeriods []slots.EnergyPeriod
	defaultMood   slots.Mood
	updatedAt     time.Time
}

// NewProfile creates an empty profile. An empty timezone means UTC.
func NewProfile(userID uuid.UUID, timezone string) (*Profile, error) {
	p := &Profile{userID: userID, defaultMood: slots.MoodNeutral, updatedAt: time.Now().UTC()}
	if err := p.SetTimezone(timezone); err != nil {
		return nil, err
	}
	return p, nil
}

// RehydrateProfile rebuilds a profile from storage without validation.
func RehydrateProfile(
	userID uuid.UUID,
	timezone string,
	constraints []slots.RecurringConstraint,
	energyPeriods []slots.EnergyPeriod,
	defaultMood slots.Mood,
	updatedAt time.Time,
) *Profile {
	return &Profile{
		userID:        userID,
		timezone:      timezone,
		constraints:   constraints,
		energyPeriods: energyPeriods,
		defaultMood:   defaultMood,
		updatedAt:     updatedAt,
	}
}

func (p *Profile) UserID() uuid.UUID       { return p.userID }
func (p *Profile) Timezone() string        { return p.timezone }
func (p *Profile) DefaultMood() slots.Mood { return p.defaultMood }
func (p *Profile) UpdatedAt() time.Time    { return p.updatedAt }

func (p *Profile) Constraints() []slots.RecurringConstraint {
	out := make([]slots.RecurringConstraint, len(p.constraints))
	copy(out, p.constraints)
	return out
}

func (p *Profile) EnergyPeriods() []slots.EnergyPeriod {
	out := make([]slots.EnergyPeriod, len(p.energyPeriods))
	copy(out, p.energyPeriods)
	return out
}

// Location resolves the profile timezone.
func (p *Profile) Location() (*time.Location, error) {
	if p.timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(p.timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTimezone, p.timezone)
	}
	return loc, nil
}

// SetTimezone changes the IANA timezone.
func (p *Profile) SetTimezone(tz string) error {
	if tz != "" {
		if _, err := time.LoadLocation(tz); err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidTimezone, tz)
		}
	}
	p.timezone = tz
	p.touch()
	return nil
}

// AddConstraint appends a weekly unavailability block. Labels, when set, are unique.
func (p *Profile) AddConstraint(c slots.RecurringConstraint) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Label != "" {
		for _, existing := range p.constraints {
			if existing.Label == c.Label {
				return fmt.Errorf("%w: %s", ErrDuplicateLabel, c.Label)
			}
		}
	}
	p.constraints = append(p.constraints, c)
	p.touch()
	return nil
}

// RemoveConstraint deletes the constraint with the given label.
func (p *Profile) RemoveConstraint(label string) error {
	for i, c := range p.constraints {
		if c.Label == label {
			p.constraints = append(p.constraints[:i], p.constraints[i+1:]...)
			p.touch()
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrConstraintNotFound, label)
}

// SetEnergyPeriods replaces the favourable energy periods.
func (p *Profile) SetEnergyPeriods(periods []slots.EnergyPeriod) error {
	seen := make(map[slots.EnergyPeriod]bool, len(periods))
	out := make([]slots.EnergyPeriod, 0, len(periods))
	for _, period := range periods {
		parsed, err := slots.ParseEnergyPeriod(string(period))
		if err != nil {
			return err
		}
		if !seen[parsed] {
			seen[parsed] = true
			out = append(out, parsed)
		}
	}
	p.energyPeriods = out
	p.touch()
	return nil
}

// SetDefaultMood sets the mood used when a request carries none.
func (p *Profile) SetDefaultMood(m slots.Mood) error {
	parsed, err := slots.ParseMood(string(m))
	if err != nil {
		return err
	}
	p.defaultMood = parsed
	p.touch()
	return nil
}

func (p *Profile) touch() {
	p.updatedAt = time.Now().UTC()
}
