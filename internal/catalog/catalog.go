package catalog

import (
	"fmt"
	"strings"
)

// Category identifies the device family a user picks when starting a
// connection.
type Category string

const (
	CategoryNone       Category = ""
	CategoryFitbit     Category = "fitbit"
	CategoryAppleWatch Category = "applewatch"
	CategoryOther      Category = "other"
)

// Categories returns the selectable categories in menu order.
func Categories() []Category {
	return []Category{CategoryFitbit, CategoryAppleWatch, CategoryOther}
}

// ParseCategory converts user input ("fitbit", "Apple Watch", "other") to a Category.
func ParseCategory(s string) (Category, error) {
	norm := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
	switch norm {
	case "fitbit":
		return CategoryFitbit, nil
	case "applewatch", "apple":
		return CategoryAppleWatch, nil
	case "other":
		return CategoryOther, nil
	}
	return CategoryNone, fmt.Errorf("unknown device category %q", s)
}

// DisplayName returns the human-facing family name.
func (c Category) DisplayName() string {
	switch c {
	case CategoryFitbit:
		return "Fitbit"
	case CategoryAppleWatch:
		return "Apple Watch"
	case CategoryOther:
		return "Wearable Device"
	default:
		return "Device"
	}
}

// Signal is the simulated signal strength of a discovered device.
type Signal string

const (
	SignalWeak   Signal = "weak"
	SignalMedium Signal = "medium"
	SignalStrong Signal = "strong"
)

// Bars returns how many of the three signal bars are lit.
func (s Signal) Bars() int {
	switch s {
	case SignalStrong:
		return 3
	case SignalMedium:
		return 2
	case SignalWeak:
		return 1
	default:
		return 0
	}
}

// Candidate is a simulated discoverable device.
type Candidate struct {
	ID          string `json:"id"`
	DisplayName string `json:"name"`
	// Family is the vendor family ("fitbit", "garmin", ...), which for the
	// "other" category differs from the category itself.
	Family string `json:"type"`
	Signal Signal `json:"signal"`
}

// Lookup resolves the candidates "discovered" for a category.
type Lookup interface {
	Candidates(c Category) []Candidate
}

// Static is a fixed category → candidates table.
type Static map[Category][]Candidate

var _ Lookup = Static(nil)

// Candidates returns a copy of the list for c. Categories without an entry
// fall back to the "other" list.
func (s Static) Candidates(c Category) []Candidate {
	list, ok := s[c]
	if !ok {
		list = s[CategoryOther]
	}
	out := make([]Candidate, len(list))
	copy(out, list)
	return out
}

// Default returns the built-in sample devices.
func Default() Static {
	return Static{
		CategoryFitbit: {
			{ID: "fb1", DisplayName: "Fitbit Charge 5", Family: "fitbit", Signal: SignalStrong},
			{ID: "fb2", DisplayName: "Fitbit Sense 2", Family: "fitbit", Signal: SignalMedium},
			{ID: "fb3", DisplayName: "Fitbit Versa 4", Family: "fitbit", Signal: SignalWeak},
		},
		CategoryAppleWatch: {
			{ID: "aw1", DisplayName: "Apple Watch Series 9", Family: "applewatch", Signal: SignalStrong},
			{ID: "aw2", DisplayName: "Apple Watch SE", Family: "applewatch", Signal: SignalMedium},
			{ID: "aw3", DisplayName: "Apple Watch Ultra 2", Family: "applewatch", Signal: SignalWeak},
		},
		CategoryOther: {
			{ID: "ot1", DisplayName: "Garmin Venu 3", Family: "garmin", Signal: SignalStrong},
			{ID: "ot2", DisplayName: "Samsung Galaxy Watch 6", Family: "samsung", Signal: SignalMedium},
			{ID: "ot3", DisplayName: "Xiaomi Smart Band 8", Family: "xiaomi", Signal: SignalWeak},
		},
	}
}
