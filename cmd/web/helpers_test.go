package main

import (
	"io/fs"
	"net/http"
	"testing"

	"github.com/myrjola/trainplan/internal/errors"
	"github.com/myrjola/trainplan/internal/workout"
)

type emptyFS struct{}

func (emptyFS) Open(string) (fs.File, error) {
	return nil, fs.ErrNotExist
}

func Test_apiStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "bad request", err: errors.Wrap(errBadRequest, "decode"), want: http.StatusBadRequest},
		{name: "not found", err: errors.Wrap(workout.ErrNotFound, "get plan"), want: http.StatusNotFound},
		{name: "rest day", err: errors.Wrap(workout.ErrRestDay, "complete"), want: http.StatusConflict},
		{name: "no alternative", err: workout.ErrNoAlternative, want: http.StatusConflict},
		{name: "no instructions", err: workout.ErrNoInstructions, want: http.StatusServiceUnavailable},
		{
			name: "enrichment failed",
			err:  errors.Join(workout.ErrEnrichmentFailed, errors.New("timeout")),
			want: http.StatusBadGateway,
		},
		{name: "unexpected", err: errors.New("disk full"), want: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := apiStatus(tt.err); got != tt.want {
				t.Errorf("apiStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func Test_label(t *testing.T) {
	tests := map[string]string{
		"upper_lower_split": "Upper lower split",
		"hiit":              "Hiit",
		"":                  "",
	}
	for in, want := range tests {
		if got := label(in); got != want {
			t.Errorf("label(%q) = %q, want %q", in, got, want)
		}
	}
}
