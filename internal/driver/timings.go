package driver

import (
	"cmp"
	"encoding/json"
	"fmt"

	"wscheck/internal/diag"
	"wscheck/internal/observ"
	"wscheck/internal/source"
)

// timingPayload is the JSON carried in the note of an OBS6001 diagnostic.
type timingPayload struct {
	Kind    string               `json:"kind"`
	Path    string               `json:"path,omitempty"`
	TotalMS float64              `json:"total_ms"`
	Phases  []observ.PhaseReport `json:"phases"`
}

func (p timingPayload) summary() string {
	kind := cmp.Or(p.Kind, "pipeline")
	s := fmt.Sprintf("timings (%s): total %.2f ms", kind, p.TotalMS)
	if p.Path != "" {
		s += ", " + p.Path
	}
	return s
}

// appendTimingDiagnostic attaches p to bag as an info diagnostic. A full bag
// is widened by one so the report is kept.
func appendTimingDiagnostic(bag *diag.Bag, p timingPayload, file source.FileID) {
	if bag == nil {
		return
	}
	p.Kind = cmp.Or(p.Kind, "pipeline")
	data, err := json.Marshal(p)
	if err != nil {
		return
	}
	at := source.Span{File: file}
	d := diag.New(diag.SevInfo, diag.ObsTimings, at, p.summary()).WithNote(at, string(data))
	if !bag.Add(d) {
		extra := diag.NewBag(1)
		extra.Add(d)
		bag.Merge(extra)
	}
}
