package trends

import "github.com/babyname-machine/backend/internal/dataset"

// Palette is matplotlib's tab10 cycle. Colours repeat once more names are
// requested than there are entries.
var Palette = []string{
	"#1f77b4",
	"#ff7f0e",
	"#2ca02c",
	"#d62728",
	"#9467bd",
	"#8c564b",
	"#e377c2",
	"#7f7f7f",
	"#bcbd22",
	"#17becf",
}

// Style is the rendering hint attached to a series.
type Style struct {
	Color      string  `json:"color"`
	Marker     string  `json:"marker"`
	LineStyle  string  `json:"line_style"`
	MarkerSize float64 `json:"marker_size"`
}

// ColorFor returns the palette entry for the name at position in the
// request.
func ColorFor(position int) string {
	return Palette[position%len(Palette)]
}

func styleFor(position int, gender dataset.Gender) Style {
	s := Style{Color: ColorFor(position), MarkerSize: 10}
	if gender == dataset.Female {
		s.Marker = "^"
		s.LineStyle = "--"
	} else {
		s.Marker = "o"
		s.LineStyle = "-"
	}
	return s
}
