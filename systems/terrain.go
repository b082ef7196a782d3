package systems

import (
	"fmt"
	"strings"

	"github.com/pthm-cable/biosim/components"
	"github.com/pthm-cable/biosim/params"
)

// terrainRule is the capability table entry of one terrain.
type terrainRule struct {
	vegetated bool
	regrow    func(c *Cell, p params.LandscapeParams)
}

var terrainRules = [components.NumTerrains]terrainRule{
	components.Ocean:    {},
	components.Mountain: {},
	components.Desert:   {},
	components.Jungle:   {vegetated: true, regrow: resetFood},
	components.Savannah: {vegetated: true, regrow: logisticRegrowth},
}

// resetFood restores the full food budget every year.
func resetFood(c *Cell, p params.LandscapeParams) {
	c.Food = p.FMax
}

// logisticRegrowth closes a fraction alpha of the gap to f_max.
func logisticRegrowth(c *Cell, p params.LandscapeParams) {
	c.Food += p.Alpha * (p.FMax - c.Food)
}

// MapFormatError reports a malformed island map. Row and Col are 1-based;
// zero means the error is not tied to a single position.
type MapFormatError struct {
	Row, Col int
	Reason   string
}

func (e *MapFormatError) Error() string {
	if e.Row == 0 {
		return "map: " + e.Reason
	}
	if e.Col == 0 {
		return fmt.Sprintf("map: row %d: %s", e.Row, e.Reason)
	}
	return fmt.Sprintf("map: row %d, col %d: %s", e.Row, e.Col, e.Reason)
}

// ParseMap turns lines of terrain letters (O, M, D, J, S) into a layout.
// Surrounding whitespace and blank lines are ignored. The result is
// validated with ValidateLayout.
func ParseMap(text string) ([][]components.Terrain, error) {
	var layout [][]components.Terrain
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		row := make([]components.Terrain, len(line))
		for j := 0; j < len(line); j++ {
			t, ok := components.TerrainFromLetter(line[j])
			if !ok {
				return nil, &MapFormatError{
					Row:    len(layout) + 1,
					Col:    j + 1,
					Reason: fmt.Sprintf("unknown terrain %q", line[j]),
				}
			}
			row[j] = t
		}
		layout = append(layout, row)
	}
	if err := ValidateLayout(layout); err != nil {
		return nil, err
	}
	return layout, nil
}

// ValidateLayout checks that the layout is non-empty and rectangular and that
// every border cell is Ocean.
func ValidateLayout(layout [][]components.Terrain) error {
	if len(layout) == 0 || len(layout[0]) == 0 {
		return &MapFormatError{Reason: "empty map"}
	}
	width := len(layout[0])
	for i, row := range layout {
		if len(row) != width {
			return &MapFormatError{
				Row:    i + 1,
				Reason: fmt.Sprintf("inconsistent row length %d, want %d", len(row), width),
			}
		}
	}
	last := len(layout) - 1
	for i, row := range layout {
		for j, t := range row {
			border := i == 0 || i == last || j == 0 || j == width-1
			if border && t != components.Ocean {
				return &MapFormatError{Row: i + 1, Col: j + 1, Reason: "border must be Ocean"}
			}
		}
	}
	return nil
}
