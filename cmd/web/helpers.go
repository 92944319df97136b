package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/myrjola/trainplan/internal/errors"
	"github.com/myrjola/trainplan/internal/workout"
)

const maxRequestBodyBytes = 1 << 20

var errBadRequest = errors.NewSentinel("bad request")

func (app *application) serverError(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.LogAttrs(r.Context(), slog.LevelError, "server error", errors.SlogError(err))
	app.render(w, r, http.StatusInternalServerError, "error", newBaseTemplateData(r))
}

func (app *application) notFound(w http.ResponseWriter, r *http.Request) {
	app.render(w, r, http.StatusNotFound, "not-found", newBaseTemplateData(r))
}

// pageError renders the HTML error page matching err.
func (app *application) pageError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, workout.ErrNotFound) {
		app.notFound(w, r)
		return
	}
	app.serverError(w, r, err)
}

// redirect detects if the request is originating from a fetch API call or a top-level navigation and points the user
// to the correct URL.
func redirect(w http.ResponseWriter, r *http.Request, path string) {
	if r.Header.Get("Sec-Fetch-Dest") == "empty" {
		w.Header().Set("Content-Location", path)
		w.WriteHeader(http.StatusOK)
		return
	}

	http.Redirect(w, r, path, http.StatusSeeOther)
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON encodes v as the response body.
func (app *application) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		app.logger.LogAttrs(r.Context(), slog.LevelError, "failed to encode response",
			errors.SlogError(errors.Wrap(err, "marshal response")))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// decodeJSON decodes the request body into v. Failures wrap errBadRequest.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.Join(errBadRequest, err), "decode request body")
	}
	return nil
}

// apiStatus maps service errors to HTTP status codes.
func apiStatus(err error) int {
	switch {
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, workout.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, workout.ErrRestDay), errors.Is(err, workout.ErrNoAlternative):
		return http.StatusConflict
	case errors.Is(err, workout.ErrNoInstructions):
		return http.StatusServiceUnavailable
	case errors.Is(err, workout.ErrEnrichmentFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// apiError responds with a JSON error. Only unexpected errors are logged at error level.
func (app *application) apiError(w http.ResponseWriter, r *http.Request, err error) {
	status := apiStatus(err)
	level := slog.LevelWarn
	message := err.Error()
	if status == http.StatusInternalServerError {
		level = slog.LevelError
		message = http.StatusText(status)
	}
	app.logger.LogAttrs(r.Context(), level, "api error", slog.Int("status_code", status), errors.SlogError(err))
	app.writeJSON(w, r, status, errorResponse{Error: message})
}

// intPathValue parses the path parameter name as an integer.
func intPathValue(r *http.Request, name string) (int, error) {
	v, err := strconv.Atoi(r.PathValue(name))
	if err != nil {
		return 0, errors.Wrap(errors.Join(errBadRequest, err), "parse path value", slog.String("name", name))
	}
	return v, nil
}
