package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(value string) time.Time {
	d, err := time.Parse(DateLayout, value)
	if err != nil {
		panic(err)
	}
	return d
}

func TestOverlaps(t *testing.T) {
	mayFirst := day("2025-05-01")
	maySecond := day("2025-05-02")

	tests := []struct {
		name string
		a    Slot
		b    Slot
		want bool
	}{
		{
			name: "touching endpoints do not conflict",
			a:    Slot{Date: mayFirst, Start: "10:00", End: "12:00"},
			b:    Slot{Date: mayFirst, Start: "12:00", End: "14:00"},
			want: false,
		},
		{
			name: "partial overlap conflicts",
			a:    Slot{Date: mayFirst, Start: "10:00", End: "12:00"},
			b:    Slot{Date: mayFirst, Start: "11:00", End: "13:00"},
			want: true,
		},
		{
			name: "containment conflicts",
			a:    Slot{Date: mayFirst, Start: "09:00", End: "17:00"},
			b:    Slot{Date: mayFirst, Start: "11:00", End: "12:00"},
			want: true,
		},
		{
			name: "identical windows conflict",
			a:    Slot{Date: mayFirst, Start: "10:00", End: "12:00"},
			b:    Slot{Date: mayFirst, Start: "10:00", End: "12:00"},
			want: true,
		},
		{
			name: "different dates never conflict",
			a:    Slot{Date: mayFirst, Start: "10:00", End: "12:00"},
			b:    Slot{Date: maySecond, Start: "10:00", End: "12:00"},
			want: false,
		},
		{
			name: "disjoint same day does not conflict",
			a:    Slot{Date: mayFirst, Start: "08:00", End: "09:00"},
			b:    Slot{Date: mayFirst, Start: "13:00", End: "15:00"},
			want: false,
		},
		{
			name: "unreadable same-day slot is treated as an obstacle",
			a:    Slot{Date: mayFirst, Start: "10:00", End: "12:00"},
			b:    Slot{Date: mayFirst, Start: "9am", End: "11am"},
			want: true,
		},
		{
			name: "unreadable slot on another day still never conflicts",
			a:    Slot{Date: mayFirst, Start: "10:00", End: "12:00"},
			b:    Slot{Date: maySecond, Start: "9am", End: "11am"},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.a, tt.b))
			// the predicate is symmetric
			assert.Equal(t, tt.want, Overlaps(tt.b, tt.a))
		})
	}
}

func TestSlotValidate(t *testing.T) {
	mayFirst := day("2025-05-01")

	require.NoError(t, Slot{Date: mayFirst, Start: "10:00", End: "12:00"}.Validate())

	err := Slot{Date: mayFirst, Start: "12:00", End: "12:00"}.Validate()
	require.Error(t, err, "empty window is rejected")

	err = Slot{Date: mayFirst, Start: "13:00", End: "12:00"}.Validate()
	require.Error(t, err, "inverted window is rejected")

	err = Slot{Date: mayFirst, Start: "25:99", End: "12:00"}.Validate()
	require.Error(t, err)
}

func TestParseDate(t *testing.T) {
	parsed, err := ParseDate("2025-05-01")
	require.NoError(t, err)
	assert.Equal(t, 2025, parsed.Year())

	_, err = ParseDate("01/05/2025")
	require.Error(t, err)
}
