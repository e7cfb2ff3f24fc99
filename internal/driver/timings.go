package driver

import (
	"encoding/json"
	"fmt"

	"contenttag/internal/diag"
	"contenttag/internal/observ"
	"contenttag/internal/source"
)

type timingPayload struct {
	Kind    string               `json:"kind"`
	Path    string               `json:"path,omitempty"`
	TotalMS float64              `json:"total_ms"`
	Phases  []observ.PhaseReport `json:"phases"`
}

// TimingDiagnostic renders the phase report of fr as an informational
// diagnostic whose note carries the JSON payload.
func TimingDiagnostic(fr *FileResult) (diag.Diagnostic, bool) {
	if fr == nil || len(fr.Timing.Phases) == 0 {
		return diag.Diagnostic{}, false
	}
	payload := timingPayload{
		Kind:    "file",
		Path:    fr.Display,
		TotalMS: fr.Timing.TotalMS,
		Phases:  fr.Timing.Phases,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return diag.Diagnostic{}, false
	}
	var sp source.Span
	if fr.File != nil {
		sp.File = fr.File.ID
	}
	msg := fmt.Sprintf("timings (%s): total %.2f ms: %s", payload.Kind, payload.TotalMS, payload.Path)
	return diag.New(diag.SevInfo, diag.ObsTimings, sp, msg).WithNote(sp, string(data)), true
}
