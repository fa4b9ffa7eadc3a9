package layout

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestParsePageSize_Presets(t *testing.T) {
	tests := []struct {
		name string
		w, h float64
	}{
		{"a4", 210, 297},
		{"A3", 297, 420},
		{" Letter ", 216, 279},
	}
	for _, tt := range tests {
		s, err := ParsePageSize(tt.name, 0, 0)
		if err != nil {
			t.Fatalf("ParsePageSize(%q): %v", tt.name, err)
		}
		if s.Width != tt.w || s.Height != tt.h {
			t.Errorf("ParsePageSize(%q) = %gx%g, want %gx%g", tt.name, s.Width, s.Height, tt.w, tt.h)
		}
	}
}

func TestParsePageSize_Custom(t *testing.T) {
	s, err := ParsePageSize("custom", 300, 150)
	if err != nil {
		t.Fatalf("ParsePageSize: %v", err)
	}
	if s.Name != SizeCustom || s.Width != 300 || s.Height != 150 {
		t.Errorf("got %+v", s)
	}
}

func TestParsePageSize_Unknown(t *testing.T) {
	_, err := ParsePageSize("tabloid", 0, 0)
	if err == nil {
		t.Fatal("expected an error, got nil")
	}
	if !strings.Contains(err.Error(), "a4") {
		t.Errorf("error should list valid sizes: %v", err)
	}
}

func TestNewCustomSize_Rejects(t *testing.T) {
	tests := []struct {
		name string
		w, h float64
	}{
		{"both small", 50, 50},
		{"width at bound", 100, 200},
		{"height at bound", 200, 100},
		{"zero", 0, 0},
		{"negative", -300, 300},
		{"infinite width", math.Inf(1), 200},
		{"infinite height", 200, math.Inf(1)},
		{"NaN", math.NaN(), 200},
		{"huge", 1e308, 200},
		{"above page limit", 6000, 200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCustomSize(tt.w, tt.h)
			var dimErr *InvalidDimensionError
			if !errors.As(err, &dimErr) {
				t.Fatalf("NewCustomSize(%g, %g) err = %v, want InvalidDimensionError", tt.w, tt.h, err)
			}
			if !sameFloat(dimErr.Width, tt.w) || !sameFloat(dimErr.Height, tt.h) {
				t.Errorf("error carries %gx%g, want %gx%g", dimErr.Width, dimErr.Height, tt.w, tt.h)
			}
		})
	}
}

func TestNewCustomSize_Accepts(t *testing.T) {
	for _, dims := range [][2]float64{{100.1, 101}, {MaxCustomDimensionMM, MaxCustomDimensionMM}, {5000, 150}} {
		if _, err := NewCustomSize(dims[0], dims[1]); err != nil {
			t.Errorf("NewCustomSize(%g, %g): %v", dims[0], dims[1], err)
		}
	}
}

func TestParsePageSize_CustomRejectsInfinity(t *testing.T) {
	_, err := ParsePageSize("custom", math.Inf(1), 200)
	var dimErr *InvalidDimensionError
	if !errors.As(err, &dimErr) {
		t.Errorf("err = %v, want InvalidDimensionError", err)
	}
}

func sameFloat(a, b float64) bool {
	return a == b || (math.IsNaN(a) && math.IsNaN(b))
}

func TestSizeNames_CustomLast(t *testing.T) {
	names := SizeNames()
	if len(names) != 4 {
		t.Fatalf("SizeNames() = %v, want 4 entries", names)
	}
	if names[len(names)-1] != SizeCustom {
		t.Errorf("last name = %q, want custom", names[len(names)-1])
	}
}

func TestPageSize_String(t *testing.T) {
	s, _ := Preset(SizeA4)
	if got := s.String(); got != "a4 (210x297 mm)" {
		t.Errorf("String() = %q", got)
	}
}
