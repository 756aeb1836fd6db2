package screen

import (
	"testing"

	tea "charm.land/bubbletea/v2"
)

type page struct{ title string }

func (p *page) Init() tea.Cmd                    { return nil }
func (p *page) Update(tea.Msg) (Screen, tea.Cmd) { return p, nil }
func (p *page) View(int, int) string             { return p.title }
func (p *page) Title() string                    { return p.title }

type overlay struct{ page }

func (o *overlay) Modal() {}

func TestHeaderTitle(t *testing.T) {
	dash := &page{title: "Dashboard"}
	wiz := &overlay{page{title: "Connect Fitbit"}}

	tests := []struct {
		name           string
		active, parent Screen
		want           string
	}{
		{"nil", nil, nil, ""},
		{"plain", dash, nil, "Dashboard"},
		{"plain ignores parent", &page{title: "Login"}, dash, "Login"},
		{"modal", wiz, dash, "Dashboard › Connect Fitbit"},
		{"modal alone", wiz, nil, "Connect Fitbit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HeaderTitle(tt.active, tt.parent); got != tt.want {
				t.Errorf("HeaderTitle() = %q, want %q", got, tt.want)
			}
		})
	}
}
