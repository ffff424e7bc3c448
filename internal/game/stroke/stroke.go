// Package stroke provides the per-room drawing primitives: validated points,
// the closed stroke color palette, and the append-only stroke log that late
// joiners replay.
package stroke

import (
	"errors"
	"math"
)

// PointType is the segment type of a drawing point.
type PointType string

const (
	// TypeStart begins a new stroke segment.
	TypeStart PointType = "start"
	// TypeMove continues the current stroke segment.
	TypeMove PointType = "move"
)

// Point is a single validated drawing point. Color is always the room's
// active color at ingestion time, never client-supplied.
type Point struct {
	X     float64   `json:"x"`
	Y     float64   `json:"y"`
	Type  PointType `json:"type"`
	Color string    `json:"color"`
}

// RawPoint is an unvalidated point as received from a client. Coordinates are
// pointers so that absent fields are distinguishable from zero values.
type RawPoint struct {
	X    *float64 `json:"x"`
	Y    *float64 `json:"y"`
	Type string   `json:"type"`
}

// Filter validates raw points and tags the survivors with the given color.
// Invalid points (missing or non-finite coordinates, unknown type) are
// dropped without failing the batch.
//
// Postcondition: Every returned Point has finite coordinates, a type in
// {start, move}, and Color == color.Value.
func Filter(raw []RawPoint, color Color) []Point {
	accepted := make([]Point, 0, len(raw))
	for _, rp := range raw {
		if rp.X == nil || rp.Y == nil {
			continue
		}
		if !isFinite(*rp.X) || !isFinite(*rp.Y) {
			continue
		}
		pt := PointType(rp.Type)
		if pt != TypeStart && pt != TypeMove {
			continue
		}
		accepted = append(accepted, Point{
			X:     *rp.X,
			Y:     *rp.Y,
			Type:  pt,
			Color: color.Value,
		})
	}
	return accepted
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// ErrInvalidColor is returned when a color name is not in the palette.
var ErrInvalidColor = errors.New("invalid color")

// Color is a named palette entry with its concrete value.
type Color struct {
	Name  string `json:"colorName"`
	Value string `json:"colorValue"`
}

// palette is the closed set of stroke colors. Unknown names are rejected,
// never defaulted.
var palette = map[string]string{
	"White": "#ffffff",
	"Black": "#000000",
	"Red":   "#ff0000",
	"Green": "#00ff00",
	"Blue":  "#0000ff",
}

// ResolveColor maps a palette name to its concrete color.
//
// Postcondition: Returns the resolved Color, or ErrInvalidColor if name is
// not in the palette.
func ResolveColor(name string) (Color, error) {
	value, ok := palette[name]
	if !ok {
		return Color{}, ErrInvalidColor
	}
	return Color{Name: name, Value: value}, nil
}

// DefaultColor returns the color new rooms start with.
func DefaultColor() Color {
	return Color{Name: "White", Value: "#ffffff"}
}

// PaletteNames returns the valid color names.
func PaletteNames() []string {
	names := make([]string, 0, len(palette))
	for name := range palette {
		names = append(names, name)
	}
	return names
}
