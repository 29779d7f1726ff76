package geo

import (
	"math"
	"testing"
)

func TestDistanceKm_SamePoint(t *testing.T) {
	coords := [][2]float64{
		{0, 0},
		{40.4168, -3.7038},
		{-33.4489, -70.6693},
		{89.9, 179.9},
	}
	for _, c := range coords {
		d, ok := DistanceKm(c[0], c[1], c[0], c[1])
		if !ok || d != 0 {
			t.Errorf("DistanceKm(same point %v) = %v, %v; want 0, true", c, d, ok)
		}
	}
}

func TestDistanceKm_Symmetric(t *testing.T) {
	pairs := [][4]float64{
		{40.4168, -3.7038, 41.3874, 2.1686},
		{-12.0464, -77.0428, 4.7110, -74.0721},
		{51.5074, -0.1278, 48.8566, 2.3522},
	}
	for _, p := range pairs {
		ab, ok1 := DistanceKm(p[0], p[1], p[2], p[3])
		ba, ok2 := DistanceKm(p[2], p[3], p[0], p[1])
		if !ok1 || !ok2 || ab != ba {
			t.Errorf("d(a,b)=%v d(b,a)=%v; want symmetric", ab, ba)
		}
	}
}

func TestDistanceKm_KnownPairs(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		want                   float64 // reference great-circle distance, km
	}{
		{"Madrid-Barcelona", 40.4168, -3.7038, 41.3874, 2.1686, 505},
		{"London-Paris", 51.5074, -0.1278, 48.8566, 2.3522, 343.5},
		{"Lima-Bogota", -12.0464, -77.0428, 4.7110, -74.0721, 1887},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DistanceKm(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			if !ok {
				t.Fatal("expected ok")
			}
			if diff := math.Abs(got-tt.want) / tt.want; diff > 0.01 {
				t.Errorf("distance = %v, want within 1%% of %v", got, tt.want)
			}
		})
	}
}

func TestDistanceKm_NonFiniteInput(t *testing.T) {
	bad := []float64{math.NaN(), math.Inf(1), math.Inf(-1)}
	for _, v := range bad {
		if _, ok := DistanceKm(v, 0, 0, 0); ok {
			t.Errorf("DistanceKm(%v, ...) ok = true, want false", v)
		}
		if _, ok := DistanceKm(0, v, 0, 0); ok {
			t.Errorf("DistanceKm(0, %v, ...) ok = true, want false", v)
		}
		if _, ok := DistanceKm(0, 0, v, 0); ok {
			t.Errorf("DistanceKm(..., %v, 0) ok = true, want false", v)
		}
		if _, ok := DistanceKm(0, 0, 0, v); ok {
			t.Errorf("DistanceKm(..., %v) ok = true, want false", v)
		}
	}
}

func TestDistanceKm_OneDecimal(t *testing.T) {
	d, ok := DistanceKm(40.4168, -3.7038, 41.3874, 2.1686)
	if !ok {
		t.Fatal("expected ok")
	}
	if d != math.Round(d*10)/10 {
		t.Errorf("distance %v not rounded to one decimal", d)
	}
}
