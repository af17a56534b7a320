package validator

import (
	"testing"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidMonth(t *testing.T) {
	for _, m := range []int{1, 6, 12} {
		if !IsValidMonth(m) {
			t.Errorf("IsValidMonth(%d) = false, want true", m)
		}
	}
	for _, m := range []int{0, -1, 13} {
		if IsValidMonth(m) {
			t.Errorf("IsValidMonth(%d) = true, want false", m)
		}
	}
}

func TestIsValidCutoffDay(t *testing.T) {
	for _, d := range []int{1, 15, 31} {
		if !IsValidCutoffDay(d) {
			t.Errorf("IsValidCutoffDay(%d) = false, want true", d)
		}
	}
	for _, d := range []int{0, 32, -5} {
		if IsValidCutoffDay(d) {
			t.Errorf("IsValidCutoffDay(%d) = true, want false", d)
		}
	}
}
