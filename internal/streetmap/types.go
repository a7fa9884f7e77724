// Package streetmap builds the map of pedestrian street projects: a grey
// neighborhood base layer with one coloured marker trace per intervention
// type, plus the handler that turns a marker click into panel content.
package streetmap

import (
	"errors"
	"fmt"
	"strings"

	"github.com/KaramelBytes/chartloom-cli/internal/figure"
)

// ErrUnknownIntervention is returned for intervention labels outside the
// known enumeration.
var ErrUnknownIntervention = errors.New("unknown intervention type")

// Intervention is one kind of pedestrian street project: the raw label
// found in the data, the title shown to users, and its marker colour.
type Intervention struct {
	Label string
	Title string
	Color string
}

// Interventions lists every known intervention type in label order.
var Interventions = []Intervention{
	{"1. Noyau villageois", "Noyau villageois", figure.Plotly[0]},
	{"2. Rue commerciale de quartier, d’ambiance ou de destination", "Rue commerciale de quartier, d’ambiance ou de destination", figure.Plotly[3]},
	{"3. Rue transversale à une rue commerciale", "Rue transversale à une rue commerciale", figure.Plotly[6]},
	{"4. Rue bordant un bâtiment public ou institutionnel  (tels qu’une école primaire ou secondaire, un cégep ou une université, une station de métro, un musée, théâtre, marché public, une église, etc.)", "Rue bordant un bâtiment public ou institutionnel", figure.Plotly[2]},
	{"5. Rue en bordure ou entre deux parcs ou place publique", "Rue en bordure ou entre deux parcs ou place publique", figure.Plotly[4]},
	{"6. Rue entre un parc et un bâtiment public ou institutionnel", "Rue entre un parc et un bâtiment public ou institutionnel", figure.Plotly[5]},
	{"7. Passage entre rues résidentielles", "Passage entre rues résidentielles", figure.Plotly[1]},
}

var (
	byLabel = map[string]Intervention{}
	byTitle = map[string]Intervention{}
)

func init() {
	for _, iv := range Interventions {
		byLabel[iv.Label] = iv
		byTitle[iv.Title] = iv
	}
}

// TitleFor maps a raw label to its display title.
func TitleFor(label string) (string, error) {
	iv, ok := byLabel[strings.TrimSpace(label)]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownIntervention, label)
	}
	return iv.Title, nil
}

// ColorFor returns the marker colour of a display title.
func ColorFor(title string) (string, error) {
	iv, ok := byTitle[title]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownIntervention, title)
	}
	return iv.Color, nil
}
