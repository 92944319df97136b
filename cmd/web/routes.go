package main

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (app *application) routes() (*http.ServeMux, error) {
	mux := http.NewServeMux()

	var (
		shared = func(next http.Handler) http.Handler {
			return app.recoverPanic(app.logAndTraceRequest(secureHeaders(app.crossOriginProtection(
				commonContext(next)))))
		}
		standard = func(next http.Handler) http.Handler {
			return shared(noCache(app.timeout(next)))
		}
		slow = func(next http.Handler) http.Handler {
			return shared(noCache(app.slowTimeout(next)))
		}
	)

	mux.Handle("GET /api/healthy", standard(http.HandlerFunc(app.healthy)))
	mux.Handle("GET /api/test/timeout", standard(http.HandlerFunc(app.testTimeout)))
	mux.Handle("POST /api/csp-violation", standard(http.HandlerFunc(app.cspViolation)))

	mux.Handle("GET /api/programs", standard(http.HandlerFunc(app.programsGET)))
	mux.Handle("POST /api/programs/generate", standard(http.HandlerFunc(app.programGeneratePOST)))
	mux.Handle("GET /api/exercises", standard(http.HandlerFunc(app.exercisesGET)))
	mux.Handle("GET /api/exercises/{id}/instructions", slow(http.HandlerFunc(app.exerciseInstructionsGET)))

	mux.Handle("GET /api/plans", standard(http.HandlerFunc(app.plansGET)))
	mux.Handle("POST /api/plans", standard(http.HandlerFunc(app.plansPOST)))
	mux.Handle("GET /api/plans/{id}", standard(http.HandlerFunc(app.planGET)))
	mux.Handle("POST /api/plans/{id}/days/{day}/complete", standard(http.HandlerFunc(app.planDayCompletePOST)))
	mux.Handle("POST /api/plans/{id}/days/{day}/exercises/{index}/swap",
		standard(http.HandlerFunc(app.planExerciseSwapPOST)))
	mux.Handle("POST /api/alignment", standard(http.HandlerFunc(app.alignmentPOST)))

	mux.Handle("GET /metrics", app.logAndTraceRequest(promhttp.Handler()))

	mux.Handle("POST /plans", standard(http.HandlerFunc(app.planFormPOST)))
	mux.Handle("GET /plans/{id}", standard(http.HandlerFunc(app.planPageGET)))
	mux.Handle("POST /plans/{id}/days/{day}/complete", standard(http.HandlerFunc(app.planPageCompletePOST)))

	// Home route (most specific)
	mux.Handle("GET /{$}", standard(http.HandlerFunc(app.home)))

	// File server with custom 404 handling
	fileServerHandler, err := app.fileServerHandler()
	if err != nil {
		return nil, fmt.Errorf("fileServerHandler: %w", err)
	}
	mux.Handle("/", fileServerHandler)

	return mux, nil
}
