package ptr_test

import (
	"testing"

	"github.com/myrjola/trainplan/internal/ptr"
)

func TestRef(t *testing.T) {
	weeks := 12
	p := ptr.Ref(weeks)
	if p == &weeks {
		t.Fatal("Ref must copy its argument")
	}
	weeks = 4
	if *p != 12 {
		t.Errorf("*Ref() = %d, want 12", *p)
	}
}

func TestDeref(t *testing.T) {
	tests := []struct {
		name     string
		p        *float64
		fallback float64
		want     float64
	}{
		{name: "nil uses fallback", p: nil, fallback: 60, want: 60},
		{name: "value wins", p: ptr.Ref(102.5), fallback: 60, want: 102.5},
		{name: "zero value wins", p: ptr.Ref(0.0), fallback: 60, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ptr.Deref(tt.p, tt.fallback); got != tt.want {
				t.Errorf("Deref() = %v, want %v", got, tt.want)
			}
		})
	}
}
