package vector

import (
	"math"
	"testing"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float32
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"both empty", nil, nil, 0},
		{"one empty", []float32{1, 2}, nil, 0},
		{"zero vector", []float32{0, 0}, []float32{1, 1}, 0},
		{"truncates to shorter prefix", []float32{1, 0, 5}, []float32{1, 0}, 1},
		{"truncates other side", []float32{0, 1}, []float32{0, 1, 9, 9}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CosineSimilarity(tt.a, tt.b)
			if math.Abs(float64(got-tt.want)) > 1e-5 {
				t.Errorf("CosineSimilarity(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestCosineSimilarity_Symmetric(t *testing.T) {
	a := []float32{0.1, 0.5, 0.9, 0.3}
	b := []float32{0.4, 0.2, 0.7}
	if CosineSimilarity(a, b) != CosineSimilarity(b, a) {
		t.Error("similarity should be symmetric")
	}
}

func TestCosineSimilarity_EpsilonBelowOne(t *testing.T) {
	v := []float32{0.5, 0.5}
	got := CosineSimilarity(v, v)
	if got > 1 {
		t.Errorf("self similarity = %v, must not exceed 1", got)
	}
	if got < 0.9999 {
		t.Errorf("self similarity = %v, want ~1", got)
	}
}
