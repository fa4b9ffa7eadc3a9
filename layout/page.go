package layout

// page.go: nominal page sizes and the geometry derived from them.

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// MinCustomDimensionMM is the exclusive lower bound for custom page sides.
const MinCustomDimensionMM = 100.0

// MaxCustomDimensionMM is the largest page side a PDF viewer accepts
// (14400 pt).
const MaxCustomDimensionMM = 14400 * 25.4 / 72

// Preset names accepted by ParsePageSize.
const (
	SizeA4     = "a4"
	SizeA3     = "a3"
	SizeLetter = "letter"
	SizeCustom = "custom"
)

// PageSize is a nominal page size in millimetres, before any
// orientation-driven swap.
type PageSize struct {
	Name   string
	Width  float64
	Height float64
}

var presets = map[string]PageSize{
	SizeA4:     {Name: SizeA4, Width: 210, Height: 297},
	SizeA3:     {Name: SizeA3, Width: 297, Height: 420},
	SizeLetter: {Name: SizeLetter, Width: 216, Height: 279},
}

// Preset returns the named preset size. Custom is not a preset.
func Preset(name string) (PageSize, bool) {
	s, ok := presets[strings.ToLower(strings.TrimSpace(name))]
	return s, ok
}

// SizeNames returns all accepted size names, custom last.
func SizeNames() []string {
	names := make([]string, 0, len(presets)+1)
	for n := range presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return append(names, SizeCustom)
}

// NewCustomSize validates user-supplied dimensions. Both sides must exceed
// MinCustomDimensionMM and be finite values no larger than
// MaxCustomDimensionMM.
func NewCustomSize(width, height float64) (PageSize, error) {
	if !validSide(width) || !validSide(height) {
		return PageSize{}, &InvalidDimensionError{Width: width, Height: height}
	}
	return PageSize{Name: SizeCustom, Width: width, Height: height}, nil
}

func validSide(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > MinCustomDimensionMM && v <= MaxCustomDimensionMM
}

// ParsePageSize resolves a size name. customW and customH are only consulted
// when name is "custom".
func ParsePageSize(name string, customW, customH float64) (PageSize, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == SizeCustom {
		return NewCustomSize(customW, customH)
	}
	if s, ok := presets[key]; ok {
		return s, nil
	}
	return PageSize{}, fmt.Errorf("unknown page size %q (expected one of %s)", name, strings.Join(SizeNames(), ", "))
}

// String renders the size as "a4 (210x297 mm)".
func (s PageSize) String() string {
	return fmt.Sprintf("%s (%gx%g mm)", s.Name, s.Width, s.Height)
}

// Orientation of the final page.
type Orientation string

const (
	Portrait  Orientation = "portrait"
	Landscape Orientation = "landscape"
)

// Geometry is the concrete page a table is laid out on.
type Geometry struct {
	Width       float64
	Height      float64
	Orientation Orientation
}

// AvailableWidth is the width left for the table once the fixed margin
// allowance is removed.
func (g Geometry) AvailableWidth() float64 {
	return g.Width - MarginAllowanceMM
}
