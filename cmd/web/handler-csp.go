package main

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/myrjola/trainplan/internal/errors"
)

// maxCSPReportBytes is plenty for a single violation report.
const maxCSPReportBytes = 64 * 1024

// cspViolationReport is the legacy report-uri payload sent by browsers.
type cspViolationReport struct {
	CSPReport struct {
		DocumentURI        string `json:"document-uri"`
		Referrer           string `json:"referrer"`
		ViolatedDirective  string `json:"violated-directive"`
		EffectiveDirective string `json:"effective-directive"`
		Disposition        string `json:"disposition"`
		BlockedURI         string `json:"blocked-uri"`
		LineNumber         int    `json:"line-number"`
		SourceFile         string `json:"source-file"`
		ScriptSample       string `json:"script-sample"`
	} `json:"csp-report"`
}

// cspViolation logs CSP violation reports.
func (app *application) cspViolation(w http.ResponseWriter, r *http.Request) {
	var report cspViolationReport
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxCSPReportBytes)).Decode(&report); err != nil {
		app.logger.LogAttrs(r.Context(), slog.LevelWarn, "invalid CSP violation report",
			errors.SlogError(errors.Wrap(err, "decode report")))
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	app.logger.LogAttrs(r.Context(), slog.LevelWarn, "CSP violation detected",
		slog.String("document_uri", report.CSPReport.DocumentURI),
		slog.String("violated_directive", report.CSPReport.ViolatedDirective),
		slog.String("effective_directive", report.CSPReport.EffectiveDirective),
		slog.String("blocked_uri", report.CSPReport.BlockedURI),
		slog.String("source_file", report.CSPReport.SourceFile),
		slog.Int("line_number", report.CSPReport.LineNumber),
		slog.String("script_sample", report.CSPReport.ScriptSample),
		slog.String("disposition", report.CSPReport.Disposition),
		slog.String("referrer", report.CSPReport.Referrer))

	w.WriteHeader(http.StatusNoContent)
}
