package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Compile-time checks that the concrete repos satisfy their interfaces; a
// missing method fails the build here instead of in a distant caller.
var (
	_ ShiftRepository   = (*shiftRepo)(nil)
	_ ProductRepository = (*productRepo)(nil)
	_ OrderRepository   = (*orderRepo)(nil)
)

func TestTimeToMinutes(t *testing.T) {
	assert.Equal(t, 0, timeToMinutes("00:00"))
	assert.Equal(t, 510, timeToMinutes("08:30"))
	assert.Equal(t, 1439, timeToMinutes("23:59"))
	assert.Equal(t, 0, timeToMinutes("bad"))
}

func TestTimeRangesOverlap(t *testing.T) {
	tests := []struct {
		name   string
		s1, e1 string
		o1     bool
		s2, e2 string
		o2     bool
		want   bool
	}{
		{"disjoint day shifts", "08:00", "12:00", false, "13:00", "17:00", false, false},
		{"overlapping day shifts", "08:00", "12:00", false, "11:00", "15:00", false, true},
		{"touching boundaries do not overlap", "08:00", "12:00", false, "12:00", "16:00", false, false},
		{"overnight vs morning after midnight", "22:00", "06:00", true, "05:00", "09:00", false, true},
		{"overnight vs later morning", "22:00", "06:00", true, "07:00", "11:00", false, false},
		{"overnight vs same evening", "22:00", "06:00", true, "20:00", "23:00", false, true},
		{"two overnight shifts", "22:00", "06:00", true, "23:00", "05:00", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := timeRangesOverlap(tt.s1, tt.e1, tt.o1, tt.s2, tt.e2, tt.o2)
			assert.Equal(t, tt.want, got)
		})
	}
}
