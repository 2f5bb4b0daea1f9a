package diagfmt

import (
	"encoding/json"
	"io"
	"slices"

	"wscheck/internal/diag"
	"wscheck/internal/source"
)

const (
	sarifSchema  = "https://json.schemastore.org/sarif-2.1.0.json"
	sarifVersion = "2.1.0"
)

type sarifLog struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool        sarifTool         `json:"tool"`
	Invocations []sarifInvocation `json:"invocations,omitempty"`
	Results     []sarifResult     `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version,omitempty"`
	Rules   []sarifRule `json:"rules,omitempty"`
}

type sarifRule struct {
	ID               string          `json:"id"`
	ShortDescription sarifMessage    `json:"shortDescription"`
	Properties       sarifProperties `json:"properties"`
}

type sarifProperties struct {
	Category string `json:"category"`
}

type sarifInvocation struct {
	Arguments           []string `json:"arguments,omitempty"`
	ExecutionSuccessful bool     `json:"executionSuccessful"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	RuleIndex int             `json:"ruleIndex"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations"`
	Fixes     []sarifFix      `json:"fixes,omitempty"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           sarifRegion           `json:"region"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   uint32 `json:"startLine,omitempty"`
	StartColumn uint32 `json:"startColumn,omitempty"`
	EndLine     uint32 `json:"endLine,omitempty"`
	EndColumn   uint32 `json:"endColumn,omitempty"`
	ByteOffset  uint32 `json:"byteOffset"`
	ByteLength  uint32 `json:"byteLength"`
}

type sarifFix struct {
	Description     sarifMessage          `json:"description"`
	ArtifactChanges []sarifArtifactChange `json:"artifactChanges"`
}

type sarifArtifactChange struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Replacements     []sarifReplacement    `json:"replacements"`
}

type sarifReplacement struct {
	DeletedRegion   sarifRegion   `json:"deletedRegion"`
	InsertedContent *sarifMessage `json:"insertedContent,omitempty"`
}

func sarifRegionFor(fs *source.FileSet, span source.Span) sarifRegion {
	region := sarifRegion{
		ByteOffset: span.Start,
		ByteLength: span.Len(),
	}
	if fs.Get(span.File) != nil {
		start, end := fs.Resolve(span)
		region.StartLine = start.Line
		region.StartColumn = start.Col
		region.EndLine = end.Line
		region.EndColumn = end.Col
	}
	return region
}

// Sarif writes diagnostics as a single-run SARIF 2.1.0 log. Rules are derived
// from the codes present in bag; fixes become artifactChanges.
func Sarif(w io.Writer, bag *diag.Bag, fs *source.FileSet, meta SarifRunMeta) error {
	items := bag.Items()

	codes := make([]diag.Code, 0, 4)
	for _, d := range items {
		if !slices.Contains(codes, d.Code) {
			codes = append(codes, d.Code)
		}
	}
	slices.Sort(codes)

	rules := make([]sarifRule, len(codes))
	for i, code := range codes {
		rules[i] = sarifRule{
			ID:               code.ID(),
			ShortDescription: sarifMessage{Text: code.Title()},
			Properties:       sarifProperties{Category: code.Category()},
		}
	}

	results := make([]sarifResult, 0, len(items))
	for _, d := range items {
		uri := formatPath(fs, d.Primary.File, PathModeRelative)
		res := sarifResult{
			RuleID:    d.Code.ID(),
			RuleIndex: slices.Index(codes, d.Code),
			Level:     d.Severity.SARIFLevel(),
			Message:   sarifMessage{Text: d.Message},
			Locations: []sarifLocation{{
				PhysicalLocation: sarifPhysicalLocation{
					ArtifactLocation: sarifArtifactLocation{URI: uri},
					Region:           sarifRegionFor(fs, d.Primary),
				},
			}},
		}
		for _, fix := range d.Fixes {
			change := sarifArtifactChange{ArtifactLocation: sarifArtifactLocation{URI: uri}}
			for _, edit := range fix.Edits {
				repl := sarifReplacement{DeletedRegion: sarifRegionFor(fs, edit.Span)}
				if edit.NewText != "" {
					repl.InsertedContent = &sarifMessage{Text: edit.NewText}
				}
				change.Replacements = append(change.Replacements, repl)
			}
			res.Fixes = append(res.Fixes, sarifFix{
				Description:     sarifMessage{Text: fix.Title},
				ArtifactChanges: []sarifArtifactChange{change},
			})
		}
		results = append(results, res)
	}

	name := meta.ToolName
	if name == "" {
		name = "wscheck"
	}
	run := sarifRun{
		Tool:    sarifTool{Driver: sarifDriver{Name: name, Version: meta.ToolVersion, Rules: rules}},
		Results: results,
	}
	if len(meta.InvocationArgs) > 0 {
		run.Invocations = []sarifInvocation{{
			Arguments:           meta.InvocationArgs,
			ExecutionSuccessful: !bag.HasErrors(),
		}}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(sarifLog{
		Schema:  sarifSchema,
		Version: sarifVersion,
		Runs:    []sarifRun{run},
	})
}
