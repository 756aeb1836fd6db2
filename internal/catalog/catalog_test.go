package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCandidates(t *testing.T) {
	tests := []struct {
		category Category
		wantIDs  []string
	}{
		{CategoryFitbit, []string{"fb1", "fb2", "fb3"}},
		{CategoryAppleWatch, []string{"aw1", "aw2", "aw3"}},
		{CategoryOther, []string{"ot1", "ot2", "ot3"}},
		{CategoryNone, []string{"ot1", "ot2", "ot3"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			got := Default().Candidates(tt.category)
			ids := make([]string, 0, len(got))
			for _, c := range got {
				ids = append(ids, c.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestCandidatesReturnsCopy(t *testing.T) {
	s := Default()
	got := s.Candidates(CategoryFitbit)
	got[0].DisplayName = "mutated"

	assert.Equal(t, "Fitbit Charge 5", s.Candidates(CategoryFitbit)[0].DisplayName)
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in      string
		want    Category
		wantErr bool
	}{
		{"fitbit", CategoryFitbit, false},
		{"Apple Watch", CategoryAppleWatch, false},
		{"applewatch", CategoryAppleWatch, false},
		{" OTHER ", CategoryOther, false},
		{"pebble", CategoryNone, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCategory(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Fitbit", CategoryFitbit.DisplayName())
	assert.Equal(t, "Apple Watch", CategoryAppleWatch.DisplayName())
	assert.Equal(t, "Wearable Device", CategoryOther.DisplayName())
	assert.Equal(t, "Device", CategoryNone.DisplayName())
}

func TestSignalBars(t *testing.T) {
	assert.Equal(t, 3, SignalStrong.Bars())
	assert.Equal(t, 2, SignalMedium.Bars())
	assert.Equal(t, 1, SignalWeak.Bars())
	assert.Equal(t, 0, Signal("").Bars())
}
