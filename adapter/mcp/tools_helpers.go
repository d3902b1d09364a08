package mcp

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

var whenLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	dateLayout,
}

// parseWhen reads a date or date-time in loc. hasTime is false for a bare date.
func parseWhen(field, value string, loc *time.Location) (t time.Time, hasTime bool, err error) {
	value = strings.TrimSpace(value)
	for _, layout := range whenLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, layout != dateLayout, nil
		}
	}
	return time.Time{}, false, fmt.Errorf("%s: invalid time %q, use YYYY-MM-DD, YYYY-MM-DDTHH:MM or RFC3339", field, value)
}

func requireUser(id uuid.UUID) error {
	if id == uuid.Nil {
		return errors.New("no user configured: set SLOTWISE_USER_ID")
	}
	return nil
}
