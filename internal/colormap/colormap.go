// Package colormap assigns colors to depths on a cyclic rainbow
// scale: depths one full period apart share a color, so the hue tracks
// depth within each period regardless of where a cloud sits in the
// crust.
package colormap

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot/palette"
)

// ErrInvalidParameter reports an unusable palette size or repeat
// period.
var ErrInvalidParameter = errors.New("colormap: invalid parameter")

// Map is an immutable cyclic depth-to-color scale.
type Map struct {
	colors   []color.Color
	repeatKm float64
}

// New builds a map with size entries spanning one period of repeatKm
// kilometers. The palette is gonum/plot's HSV rainbow swept from red
// to magenta, the same family the plot renderer draws with.
func New(size int, repeatKm float64) (*Map, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: palette size %d, need at least 1", ErrInvalidParameter, size)
	}
	if !(repeatKm > 0) || math.IsInf(repeatKm, 0) {
		return nil, fmt.Errorf("%w: depth repeat %v km, need a positive finite value", ErrInvalidParameter, repeatKm)
	}
	return &Map{
		colors:   palette.Rainbow(size, palette.Red, palette.Magenta, 1, 1, 1).Colors(),
		repeatKm: repeatKm,
	}, nil
}

// Index maps a depth to a palette slot. The slot is the nearest
// multiple of repeatKm/size, wrapped so the result is always in
// [0, Size()) for any finite depth, negative depths included.
func (m *Map) Index(depthKm float64) int {
	idx := int(math.Round(float64(len(m.colors))*depthKm/m.repeatKm)) % len(m.colors)
	if idx < 0 {
		idx += len(m.colors)
	}
	return idx
}

// Color returns the palette color for a depth.
func (m *Map) Color(depthKm float64) color.Color {
	return m.colors[m.Index(depthKm)]
}

// Size returns the number of palette entries.
func (m *Map) Size() int { return len(m.colors) }

// RepeatKm returns the depth period of the cycle.
func (m *Map) RepeatKm() float64 { return m.repeatKm }
