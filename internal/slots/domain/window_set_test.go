package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubtractOne(t *testing.T) {
	free := win(t, at(0, 8, 0), at(0, 18, 0))

	tests := []struct {
		name string
		busy TimeWindow
		want []TimeWindow
	}{
		{"disjoint keeps window", win(t, at(0, 19, 0), at(0, 20, 0)), []TimeWindow{free}},
		{"covering removes window", win(t, at(0, 7, 0), at(0, 19, 0)), nil},
		{"head trimmed", win(t, at(0, 7, 0), at(0, 9, 0)), []TimeWindow{win(t, at(0, 9, 0), at(0, 18, 0))}},
		{"tail trimmed", win(t, at(0, 17, 0), at(0, 19, 0)), []TimeWindow{win(t, at(0, 8, 0), at(0, 17, 0))}},
		{"middle splits in two", win(t, at(0, 12, 0), at(0, 13, 0)), []TimeWindow{
			win(t, at(0, 8, 0), at(0, 12, 0)),
			win(t, at(0, 13, 0), at(0, 18, 0)),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SubtractOne(free, tt.busy))
		})
	}
}

func TestNormalize(t *testing.T) {
	got := Normalize([]TimeWindow{
		win(t, at(0, 14, 0), at(0, 15, 0)),
		win(t, at(0, 9, 0), at(0, 10, 0)),
		win(t, at(0, 10, 0), at(0, 11, 0)),
		win(t, at(0, 9, 30), at(0, 9, 45)),
	})

	assert.Equal(t, []TimeWindow{
		win(t, at(0, 9, 0), at(0, 11, 0)),
		win(t, at(0, 14, 0), at(0, 15, 0)),
	}, got)
	assert.Nil(t, Normalize(nil))
}

func TestSetOperations(t *testing.T) {
	outer := win(t, at(0, 8, 0), at(0, 20, 0))
	a := []TimeWindow{win(t, at(0, 7, 0), at(0, 10, 0)), win(t, at(0, 12, 0), at(0, 16, 0))}
	b := []TimeWindow{win(t, at(0, 9, 0), at(0, 13, 0)), win(t, at(0, 15, 0), at(0, 21, 0))}

	t.Run("union clips to outer", func(t *testing.T) {
		assert.Equal(t, []TimeWindow{win(t, at(0, 8, 0), at(0, 20, 0))}, Union(outer, a, b))
	})

	t.Run("intersect", func(t *testing.T) {
		assert.Equal(t, []TimeWindow{
			win(t, at(0, 9, 0), at(0, 10, 0)),
			win(t, at(0, 12, 0), at(0, 13, 0)),
			win(t, at(0, 15, 0), at(0, 16, 0)),
		}, Intersect(outer, a, b))
	})

	t.Run("subtract", func(t *testing.T) {
		assert.Equal(t, []TimeWindow{
			win(t, at(0, 8, 0), at(0, 9, 0)),
			win(t, at(0, 13, 0), at(0, 15, 0)),
		}, Subtract(outer, []TimeWindow{outer}, b))
	})

	t.Run("complement", func(t *testing.T) {
		assert.Equal(t, []TimeWindow{
			win(t, at(0, 10, 0), at(0, 12, 0)),
			win(t, at(0, 16, 0), at(0, 20, 0)),
		}, Complement(outer, a))
	})

	t.Run("total duration", func(t *testing.T) {
		assert.Equal(t, 7*time.Hour, TotalDuration(a))
	})
}

func TestClipTo_DropsOutside(t *testing.T) {
	outer := win(t, at(0, 8, 0), at(0, 9, 0))
	got := ClipTo([]TimeWindow{win(t, at(0, 10, 0), at(0, 11, 0))}, outer)
	require.Empty(t, got)
}
