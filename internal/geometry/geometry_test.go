package geometry

import (
	"math"
	"testing"
)

func TestNewSize_ClampsNegative(t *testing.T) {
	tests := []struct {
		name         string
		w, h         float64
		wantW, wantH float64
	}{
		{"positive", 3, 4, 3, 4},
		{"negative width", -1, 4, 0, 4},
		{"negative height", 3, -2, 3, 0},
		{"NaN", math.NaN(), 1, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSize(tt.w, tt.h)
			if s.Width != tt.wantW || s.Height != tt.wantH {
				t.Errorf("got %v, want %gx%g", s, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestRect_ContainsPoint(t *testing.T) {
	r := RectFromXYWH(10, 20, 5, 5)

	tests := []struct {
		name string
		p    Point
		want bool
	}{
		{"origin", NewPoint(10, 20), true},
		{"interior", NewPoint(12.5, 22), true},
		{"last cell", NewPoint(14.999, 24.999), true},
		{"right edge", NewPoint(15, 22), false},
		{"bottom edge", NewPoint(12, 25), false},
		{"left of origin", NewPoint(9.999, 22), false},
		{"above origin", NewPoint(12, 19), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.ContainsPoint(tt.p); got != tt.want {
				t.Errorf("ContainsPoint(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestRect_ContainsPoint_UnitRect(t *testing.T) {
	r := RectFromXYWH(3, 3, 1, 1)
	if !r.ContainsPoint(NewPoint(3, 3)) {
		t.Error("1x1 rect should contain its origin")
	}
	if r.ContainsPoint(NewPoint(4, 3)) || r.ContainsPoint(NewPoint(3, 4)) {
		t.Error("1x1 rect should not contain its neighbours")
	}
}

func TestRect_ContainsPoint_Empty(t *testing.T) {
	r := RectFromXYWH(0, 0, 0, 5)
	if r.ContainsPoint(NewPoint(0, 0)) {
		t.Error("zero-width rect should contain no points")
	}
}

func TestRect_ContainsRect(t *testing.T) {
	outer := RectFromXYWH(0, 0, 10, 10)

	tests := []struct {
		name  string
		inner Rect
		want  bool
	}{
		{"itself", outer, true},
		{"interior", RectFromXYWH(2, 2, 3, 3), true},
		{"touching far edges", RectFromXYWH(5, 5, 5, 5), true},
		{"overflow right", RectFromXYWH(6, 0, 5, 5), false},
		{"overflow bottom", RectFromXYWH(0, 6, 5, 5), false},
		{"negative origin", RectFromXYWH(-1, 0, 5, 5), false},
		{"zero area inside", RectFromXYWH(3, 3, 0, 5), true},
		{"zero area on far edge", RectFromXYWH(10, 0, 0, 5), true},
		{"larger", RectFromXYWH(0, 0, 11, 10), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outer.ContainsRect(tt.inner); got != tt.want {
				t.Errorf("ContainsRect(%v) = %v, want %v", tt.inner, got, tt.want)
			}
		})
	}
}

func TestRect_Intersects(t *testing.T) {
	a := RectFromXYWH(0, 0, 10, 10)

	tests := []struct {
		name string
		b    Rect
		want bool
	}{
		{"overlap", RectFromXYWH(5, 5, 10, 10), true},
		{"adjacent right", RectFromXYWH(10, 0, 5, 5), false},
		{"adjacent below", RectFromXYWH(0, 10, 5, 5), false},
		{"disjoint", RectFromXYWH(20, 20, 1, 1), false},
		{"contained", RectFromXYWH(1, 1, 1, 1), true},
		{"empty", RectFromXYWH(1, 1, 0, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Intersects(tt.b); got != tt.want {
				t.Errorf("Intersects(%v) = %v, want %v", tt.b, got, tt.want)
			}
			if got := tt.b.Intersects(a); got != tt.want {
				t.Errorf("Intersects is not symmetric for %v", tt.b)
			}
		})
	}
}

func TestRect_Scaled(t *testing.T) {
	r := RectFromXYWH(1, 2, 3, 4).Scaled(2)
	want := RectFromXYWH(2, 4, 6, 8)
	if r != want {
		t.Errorf("got %v, want %v", r, want)
	}
}
