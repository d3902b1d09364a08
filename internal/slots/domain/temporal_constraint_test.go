package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPinsDay(t *testing.T) {
	tests := []struct {
		c    TemporalConstraint
		want bool
	}{
		{FixedDate{At: at(1, 14, 0), HasTime: true}, true},
		{FixedDay{Date: at(1, 0, 0)}, true},
		{TimeRange{Window: MustTimeWindow(at(1, 9, 0), at(1, 11, 0))}, true},
		{Deadline{Before: at(3, 0, 0)}, false},
		{StartDate{After: at(3, 0, 0)}, false},
		{Asap{}, false},
		{NoConstraint{}, false},
		{nil, false},
	}

	for _, tt := range tests {
		name := "nil"
		if tt.c != nil {
			name = string(tt.c.Kind())
		}
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, PinsDay(tt.c))
		})
	}
}
