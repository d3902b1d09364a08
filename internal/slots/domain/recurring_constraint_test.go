package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var workWeek = []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}

func TestRecurringConstraint_Occurrences(t *testing.T) {
	week := win(t, at(0, 0, 0), at(7, 0, 0))

	t.Run("weekday mornings", func(t *testing.T) {
		c := RecurringConstraint{DaysOfWeek: workWeek, StartTime: ClockTime(9, 0), EndTime: ClockTime(12, 0)}
		got := c.Occurrences(week, time.UTC, DefaultMidDayBreak)

		require.Len(t, got, 5)
		assert.Equal(t, win(t, at(0, 9, 0), at(0, 12, 0)), got[0])
		assert.Equal(t, win(t, at(4, 9, 0), at(4, 12, 0)), got[4])
	})

	t.Run("mid-day break stays free", func(t *testing.T) {
		c := RecurringConstraint{
			DaysOfWeek:       []time.Weekday{time.Monday},
			StartTime:        ClockTime(9, 0),
			EndTime:          ClockTime(18, 0),
			AllowMidDayBreak: true,
		}
		got := c.Occurrences(week, time.UTC, DefaultMidDayBreak)

		assert.Equal(t, []TimeWindow{
			win(t, at(0, 9, 0), at(0, 12, 0)),
			win(t, at(0, 14, 0), at(0, 18, 0)),
		}, got)
	})

	t.Run("overnight block spills into next day", func(t *testing.T) {
		c := RecurringConstraint{
			DaysOfWeek: []time.Weekday{time.Monday},
			StartTime:  ClockTime(22, 0),
			EndTime:    ClockTime(6, 0),
		}
		tuesday := win(t, at(1, 0, 0), at(2, 0, 0))
		got := c.Occurrences(tuesday, time.UTC, DefaultMidDayBreak)

		assert.Equal(t, []TimeWindow{win(t, at(1, 0, 0), at(1, 6, 0))}, got)
	})

	t.Run("no days never blocks", func(t *testing.T) {
		c := RecurringConstraint{StartTime: ClockTime(9, 0), EndTime: ClockTime(12, 0)}
		assert.Empty(t, c.Occurrences(week, time.UTC, DefaultMidDayBreak))
	})
}

func TestRecurringConstraint_Validate(t *testing.T) {
	assert.NoError(t, RecurringConstraint{DaysOfWeek: workWeek, StartTime: ClockTime(9, 0), EndTime: ClockTime(17, 0)}.Validate())

	err := RecurringConstraint{StartTime: ClockTime(9, 0), EndTime: ClockTime(9, 0)}.Validate()
	assert.ErrorIs(t, err, ErrInvalidRecurring)

	err = RecurringConstraint{DaysOfWeek: []time.Weekday{9}, StartTime: ClockTime(9, 0), EndTime: ClockTime(10, 0)}.Validate()
	assert.ErrorIs(t, err, ErrValidation)
}
