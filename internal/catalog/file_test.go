package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validCatalog = `{
  "version": "v1.2.0",
  "categories": {
    "fitbit": [
      {"id": "t1", "name": "Test Tracker", "type": "fitbit", "signal": "strong"}
    ],
    "Other": [
      {"id": "t2", "name": "Test Band", "type": "acme", "signal": "weak"}
    ]
  }
}`

func TestParseValid(t *testing.T) {
	s, err := Parse([]byte(validCatalog))
	require.NoError(t, err)

	fitbit := s.Candidates(CategoryFitbit)
	require.Len(t, fitbit, 1)
	assert.Equal(t, Candidate{ID: "t1", DisplayName: "Test Tracker", Family: "fitbit", Signal: SignalStrong}, fitbit[0])

	// Category keys are case-insensitive; missing categories fall back to other.
	assert.Equal(t, "t2", s.Candidates(CategoryOther)[0].ID)
	assert.Equal(t, "t2", s.Candidates(CategoryAppleWatch)[0].ID)
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{`},
		{"missing version", `{"categories": {"fitbit": [{"id": "a", "name": "A", "type": "fitbit", "signal": "weak"}]}}`},
		{"bad signal", `{"version": "v1.0.0", "categories": {"fitbit": [{"id": "a", "name": "A", "type": "fitbit", "signal": "loud"}]}}`},
		{"empty list", `{"version": "v1.0.0", "categories": {"fitbit": []}}`},
		{"unknown field", `{"version": "v1.0.0", "extra": 1, "categories": {"fitbit": [{"id": "a", "name": "A", "type": "fitbit", "signal": "weak"}]}}`},
		{"not semver", `{"version": "one", "categories": {"fitbit": [{"id": "a", "name": "A", "type": "fitbit", "signal": "weak"}]}}`},
		{"duplicate id", `{"version": "v1.0.0", "categories": {
			"fitbit": [{"id": "a", "name": "A", "type": "fitbit", "signal": "weak"}],
			"other": [{"id": "a", "name": "B", "type": "acme", "signal": "weak"}]}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestParseCategoryKeys(t *testing.T) {
	data := `{"version": "v1.0.0", "categories": {
		"Apple Watch": [{"id": "a", "name": "A", "type": "applewatch", "signal": "weak"}],
		"FITBIT": [{"id": "b", "name": "B", "type": "fitbit", "signal": "weak"}],
		"other": [{"id": "c", "name": "C", "type": "acme", "signal": "weak"}]}}`
	s, err := Parse([]byte(data))
	require.NoError(t, err)
	assert.Equal(t, "a", s.Candidates(CategoryAppleWatch)[0].ID)
	assert.Equal(t, "b", s.Candidates(CategoryFitbit)[0].ID)
	assert.Len(t, s, 3)
}

func TestParseUnknownCategoryKey(t *testing.T) {
	data := `{"version": "v1.0.0", "categories": {
		"pebble": [{"id": "a", "name": "A", "type": "pebble", "signal": "weak"}],
		"other": [{"id": "c", "name": "C", "type": "acme", "signal": "weak"}]}}`
	_, err := Parse([]byte(data))
	assert.ErrorContains(t, err, "pebble")
}

func TestParseRequiresEveryCategoryCovered(t *testing.T) {
	missingOther := `{"version": "v1.0.0", "categories": {
		"Apple Watch": [{"id": "a", "name": "A", "type": "applewatch", "signal": "weak"}],
		"fitbit": [{"id": "b", "name": "B", "type": "fitbit", "signal": "weak"}]}}`
	_, err := Parse([]byte(missingOther))
	assert.ErrorIs(t, err, ErrIncompleteCatalog)

	allThree := `{"version": "v1.0.0", "categories": {
		"applewatch": [{"id": "a", "name": "A", "type": "applewatch", "signal": "weak"}],
		"fitbit": [{"id": "b", "name": "B", "type": "fitbit", "signal": "weak"}],
		"other": [{"id": "c", "name": "C", "type": "acme", "signal": "weak"}]}}`
	s, err := Parse([]byte(allThree))
	require.NoError(t, err)
	for _, c := range Categories() {
		assert.NotEmpty(t, s.Candidates(c), c)
	}
}

func TestParseUnsupportedMajor(t *testing.T) {
	data := `{"version": "v2.0.0", "categories": {"fitbit": [{"id": "a", "name": "A", "type": "fitbit", "signal": "weak"}]}}`
	_, err := Parse([]byte(data))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(validCatalog), 0o644))

	s, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, s, 2)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
