package persistence

import (
	"encoding/json"
	"fmt"

	slots "github.com/felixgeelhaar/slotwise/internal/slots/domain"
)

func encodeProfileLists(constraints []slots.RecurringConstraint, periods []slots.EnergyPeriod) ([]byte, []byte, error) {
	if constraints == nil {
		constraints = []slots.RecurringConstraint{}
	}
	if periods == nil {
		periods = []slots.EnergyPeriod{}
	}
	c, err := json.Marshal(constraints)
	if err != nil {
		return nil, nil, fmt.Errorf("encode constraints: %w", err)
	}
	p, err := json.Marshal(periods)
	if err != nil {
		return nil, nil, fmt.Errorf("encode energy periods: %w", err)
	}
	return c, p, nil
}

func decodeProfileLists(c, p []byte) ([]slots.RecurringConstraint, []slots.EnergyPeriod, error) {
	var constraints []slots.RecurringConstraint
	if len(c) > 0 {
		if err := json.Unmarshal(c, &constraints); err != nil {
			return nil, nil, fmt.Errorf("decode constraints: %w", err)
		}
	}
	var periods []slots.EnergyPeriod
	if len(p) > 0 {
		if err := json.Unmarshal(p, &periods); err != nil {
			return nil, nil, fmt.Errorf("decode energy periods: %w", err)
		}
	}
	return constraints, periods, nil
}
