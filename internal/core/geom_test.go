package core

import "testing"

func TestWithinTolerance(t *testing.T) {
	player := Vec3{X: 0, Y: 0, Z: 5}

	tests := []struct {
		name     string
		other    Vec3
		expected bool
	}{
		{"same spot", Vec3{X: 0, Z: 5}, true},
		{"just inside lateral", Vec3{X: 0.999, Z: 5}, true},
		{"exactly at lateral", Vec3{X: 1.0, Z: 5}, false},
		{"just inside longitudinal", Vec3{X: 0, Z: 6.999}, true},
		{"exactly at longitudinal", Vec3{X: 0, Z: 7}, false},
		{"behind, exactly at longitudinal", Vec3{X: 0, Z: 3}, false},
		{"adjacent lane", Vec3{X: 3, Z: 5}, false},
		{"height ignored", Vec3{X: 0, Y: 50, Z: 5}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := WithinTolerance(player, tc.other, 1.0, 2.0); got != tc.expected {
				t.Errorf("WithinTolerance() = %v, expected %v", got, tc.expected)
			}
			// Symmetric
			if got := WithinTolerance(tc.other, player, 1.0, 2.0); got != tc.expected {
				t.Errorf("WithinTolerance() (reversed) = %v, expected %v", got, tc.expected)
			}
		})
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, expected int
	}{
		{1, 0, 2, 1},
		{-1, 0, 2, 0},
		{3, 0, 2, 2},
		{0, 0, 2, 0},
		{2, 0, 2, 2},
	}

	for _, tc := range tests {
		if got := Clamp(tc.val, tc.min, tc.max); got != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tc.val, tc.min, tc.max, got, tc.expected)
		}
	}
}

func TestMinMaxAbs(t *testing.T) {
	if Min(5, 10) != 5 || Min(10, 5) != 5 {
		t.Error("Min should return the smaller value")
	}
	if Max(5, 10) != 10 || Max(10, 5) != 10 {
		t.Error("Max should return the larger value")
	}
	if Abs(-5) != 5 || Abs(5) != 5 || Abs(0) != 0 {
		t.Error("Abs returned a wrong value")
	}
}
