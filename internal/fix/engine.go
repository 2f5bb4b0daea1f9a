package fix

import (
	"cmp"
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"

	"wscheck/internal/diag"
	"wscheck/internal/source"
)

// ErrNoFixes is returned when no fixes were applied.
var ErrNoFixes = errors.New("no applicable fixes found")

// ApplyMode determines selection strategy for fixes.
type ApplyMode uint8

const (
	ApplyModeOnce ApplyMode = iota
	ApplyModeAll
	ApplyModeID
)

func (m ApplyMode) String() string {
	switch m {
	case ApplyModeOnce:
		return "once"
	case ApplyModeAll:
		return "all"
	case ApplyModeID:
		return "id"
	}
	return "unknown"
}

// Rewriter produces the new content of one file from the diagnostics whose
// fixes were selected for it, instead of splicing their edits.
type Rewriter interface {
	Rewrite(file *source.File, selected []diag.Diagnostic) ([]byte, error)
}

// RewriterFunc adapts a function to Rewriter.
type RewriterFunc func(file *source.File, selected []diag.Diagnostic) ([]byte, error)

func (f RewriterFunc) Rewrite(file *source.File, selected []diag.Diagnostic) ([]byte, error) {
	return f(file, selected)
}

// ApplyOptions configures how fixes are selected and written.
type ApplyOptions struct {
	Mode     ApplyMode
	TargetID string
	// DryRun computes changes and registers new versions without writing files.
	DryRun bool
	// Rewriter is optional; nil splices TextEdits directly.
	Rewriter Rewriter
}

// AppliedFix records a successfully applied fix.
type AppliedFix struct {
	ID            string
	Title         string
	Code          diag.Code
	Message       string
	Applicability diag.FixApplicability
	PrimaryPath   string
	EditCount     int
}

// SkippedFix names a fix that was not applied and why.
type SkippedFix struct {
	ID     string
	Title  string
	Reason string
}

// FileChange summarises modifications performed on a file. FileID is the new
// version registered in the FileSet; Before and After hold content without BOM.
type FileChange struct {
	Path      string
	FileID    source.FileID
	EditCount int
	Before    []byte
	After     []byte
}

// ApplyResult aggregates applied fixes, skipped ones, and file changes.
type ApplyResult struct {
	Applied     []AppliedFix
	Skipped     []SkippedFix
	FileChanges []FileChange
}

type candidate struct {
	diag  diag.Diagnostic
	fix   diag.Fix
	order int
}

func (c candidate) skip(reason string) SkippedFix {
	return SkippedFix{ID: c.fix.ID, Title: c.fix.Title, Reason: reason}
}

// staged is the pending new content of one file.
type staged struct {
	buf   []byte
	edits int
}

// plan is what a strategy decided to do before anything is committed.
type plan struct {
	applied []AppliedFix
	skipped []SkippedFix
	files   map[source.FileID]*staged
}

// Apply collects fixes from diagnostics, selects a subset according to opts,
// and applies them. ErrNoFixes is returned, together with the skip reasons,
// when nothing could be applied.
func Apply(fs *source.FileSet, diagnostics []diag.Diagnostic, opts ApplyOptions) (*ApplyResult, error) {
	res := &ApplyResult{}
	if fs == nil {
		return res, errors.New("fix: FileSet is nil")
	}

	cands, skipped := gatherCandidates(diagnostics)
	res.Skipped = append(res.Skipped, skipped...)
	if len(cands) == 0 {
		return res, ErrNoFixes
	}
	sortCandidates(cands)

	selected, skipped := selectCandidates(cands, opts)
	res.Skipped = append(res.Skipped, skipped...)
	if len(selected) == 0 {
		return res, ErrNoFixes
	}

	var p plan
	if opts.Rewriter != nil {
		p = planRewrite(fs, selected, opts)
	} else {
		p = planSplice(fs, selected, opts.DryRun)
	}
	res.Applied = p.applied
	res.Skipped = append(res.Skipped, p.skipped...)
	if len(res.Applied) == 0 {
		return res, ErrNoFixes
	}

	changes, err := commit(fs, p.files, opts.DryRun)
	res.FileChanges = changes
	return res, err
}

// gatherCandidates flattens the fixes of every diagnostic. Fixes without
// edits or repeating an id already seen in the same file are skipped. A fix
// without an id gets "<code>-<file>-<start>-<index>".
func gatherCandidates(diagnostics []diag.Diagnostic) ([]candidate, []SkippedFix) {
	type key struct {
		file source.FileID
		id   string
	}
	var (
		cands []candidate
		skips []SkippedFix
	)
	seen := make(map[key]bool)
	for _, d := range diagnostics {
		for i, f := range d.Fixes {
			c := candidate{diag: d, fix: f, order: len(cands)}
			if len(f.Edits) == 0 {
				skips = append(skips, c.skip("fix has no edits"))
				continue
			}
			if c.fix.ID == "" {
				c.fix.ID = fmt.Sprintf("%s-%d-%d-%d", d.Code.ID(), d.Primary.File, d.Primary.Start, i)
			}
			k := key{d.Primary.File, c.fix.ID}
			if seen[k] {
				skips = append(skips, c.skip("duplicate fix id"))
				continue
			}
			seen[k] = true
			cands = append(cands, c)
		}
	}
	return cands, skips
}

// sortCandidates orders by file and primary span, then by arrival so fixes of
// one diagnostic keep their order; preference and id only break exact ties.
func sortCandidates(cands []candidate) {
	slices.SortStableFunc(cands, func(a, b candidate) int {
		pa, pb := a.diag.Primary, b.diag.Primary
		if c := cmp.Or(
			cmp.Compare(pa.File, pb.File),
			cmp.Compare(pa.Start, pb.Start),
			cmp.Compare(pa.End, pb.End),
			cmp.Compare(a.order, b.order),
			cmp.Compare(a.diag.Code, b.diag.Code),
		); c != 0 {
			return c
		}
		if a.fix.IsPreferred != b.fix.IsPreferred {
			if a.fix.IsPreferred {
				return -1
			}
			return 1
		}
		return cmp.Or(cmp.Compare(a.fix.ID, b.fix.ID), cmp.Compare(a.fix.Title, b.fix.Title))
	})
}

// selectCandidates applies the mode. ApplyModeID selects every candidate with
// the id: ids are per position, so the same id may occur once in each file.
func selectCandidates(cands []candidate, opts ApplyOptions) ([]candidate, []SkippedFix) {
	safe := func(c candidate) bool { return c.fix.Applicability == diag.FixApplicabilityAlwaysSafe }

	switch opts.Mode {
	case ApplyModeID:
		var out []candidate
		for _, c := range cands {
			if c.fix.ID == opts.TargetID {
				out = append(out, c)
			}
		}
		if len(out) == 0 {
			return nil, []SkippedFix{{ID: opts.TargetID, Reason: "fix id not found"}}
		}
		return out, nil
	case ApplyModeAll:
		var (
			out   []candidate
			skips []SkippedFix
		)
		for _, c := range cands {
			if safe(c) {
				out = append(out, c)
			} else {
				skips = append(skips, c.skip("applicability is "+c.fix.Applicability.String()))
			}
		}
		return out, skips
	case ApplyModeOnce:
		if i := slices.IndexFunc(cands, safe); i >= 0 {
			return cands[i : i+1], nil
		}
		return cands[:1], nil
	}
	return nil, nil
}

func writable(file *source.File, dryRun bool) string {
	if file == nil {
		return "target file is unknown"
	}
	if file.Flags&source.FileVirtual != 0 && !dryRun {
		return "target file is virtual"
	}
	return ""
}

func appliedFrom(fs *source.FileSet, c candidate, edits int) AppliedFix {
	path := ""
	if f := fs.Get(c.diag.Primary.File); f != nil {
		path = f.FormatPath("auto", fs.BaseDir())
	}
	return AppliedFix{
		ID:            c.fix.ID,
		Title:         c.fix.Title,
		Code:          c.diag.Code,
		Message:       c.diag.Message,
		Applicability: c.fix.Applicability,
		PrimaryPath:   path,
		EditCount:     edits,
	}
}

// runsByFile splits cands, sorted by file, into one run per file.
func runsByFile(cands []candidate) [][]candidate {
	var runs [][]candidate
	for start := 0; start < len(cands); {
		end := start + 1
		for end < len(cands) && cands[end].diag.Primary.File == cands[start].diag.Primary.File {
			end++
		}
		runs = append(runs, cands[start:end])
		start = end
	}
	return runs
}

// planRewrite hands every file's selected diagnostics to the Rewriter at
// once. A failing file skips all of its fixes.
func planRewrite(fs *source.FileSet, selected []candidate, opts ApplyOptions) plan {
	p := plan{files: make(map[source.FileID]*staged)}

	for _, run := range runsByFile(selected) {
		file := fs.Get(run[0].diag.Primary.File)
		reason := writable(file, opts.DryRun)
		var buf []byte
		if reason == "" {
			ds := make([]diag.Diagnostic, len(run))
			for i, c := range run {
				ds[i] = c.diag
			}
			var err error
			if buf, err = opts.Rewriter.Rewrite(file, ds); err != nil {
				reason = err.Error()
			}
		}
		if reason != "" {
			for _, c := range run {
				p.skipped = append(p.skipped, c.skip(reason))
			}
			continue
		}

		st := &staged{buf: buf}
		for _, c := range run {
			st.edits += len(c.fix.Edits)
			p.applied = append(p.applied, appliedFrom(fs, c, len(c.fix.Edits)))
		}
		p.files[file.ID] = st
	}
	return p
}

// planSplice accepts fixes in order while their edits stay disjoint from the
// edits already accepted, then splices each file once. All spans refer to the
// original content, so no offset translation is needed.
func planSplice(fs *source.FileSet, selected []candidate, dryRun bool) plan {
	p := plan{files: make(map[source.FileID]*staged)}
	accepted := make(map[source.FileID][]diag.TextEdit)

	for _, c := range selected {
		if reason := checkEdits(fs, accepted, c.fix.Edits, dryRun); reason != "" {
			p.skipped = append(p.skipped, c.skip(reason))
			continue
		}
		for _, e := range c.fix.Edits {
			accepted[e.Span.File] = append(accepted[e.Span.File], e)
		}
		p.applied = append(p.applied, appliedFrom(fs, c, len(c.fix.Edits)))
	}

	for id, edits := range accepted {
		p.files[id] = &staged{buf: splice(fs.Get(id).Content, edits), edits: len(edits)}
	}
	return p
}

// checkEdits returns why edits cannot join accepted, or "".
func checkEdits(fs *source.FileSet, accepted map[source.FileID][]diag.TextEdit, edits []diag.TextEdit, dryRun bool) string {
	for i, e := range edits {
		file := fs.Get(e.Span.File)
		if reason := writable(file, dryRun); reason != "" {
			return reason
		}
		if e.Span.Start > e.Span.End || e.Span.End > file.Len() {
			return "edit span out of range"
		}
		if e.OldText != "" && string(file.Content[e.Span.Start:e.Span.End]) != e.OldText {
			return "existing text does not match expected content"
		}
		others := append(slices.Clone(accepted[e.Span.File]), edits[:i]...)
		for _, prev := range others {
			if prev.Span.File == e.Span.File && spansConflict(prev, e) {
				return "conflicts with previously applied edits in " + file.FormatPath("auto", fs.BaseDir())
			}
		}
	}
	return ""
}

// splice applies disjoint edits to a copy of content, last edit first.
func splice(content []byte, edits []diag.TextEdit) []byte {
	ordered := slices.Clone(edits)
	slices.SortStableFunc(ordered, func(a, b diag.TextEdit) int {
		return cmp.Or(cmp.Compare(b.Span.Start, a.Span.Start), cmp.Compare(b.Span.End, a.Span.End))
	})
	out := slices.Clone(content)
	for _, e := range ordered {
		out = slices.Replace(out, int(e.Span.Start), int(e.Span.End), []byte(e.NewText)...)
	}
	return out
}

// spansConflict reports whether two edits touch the same bytes. Spans are
// half-open; two insertions never conflict, and an insertion conflicts with a
// span only when it lands strictly inside or at its start.
func spansConflict(a, b diag.TextEdit) bool {
	as, ae := a.Span.Start, a.Span.End
	bs, be := b.Span.Start, b.Span.End
	switch {
	case as == ae && bs == be:
		return false
	case as == ae:
		return bs <= as && as < be
	case bs == be:
		return as <= bs && bs < ae
	}
	return as < be && bs < ae
}

// commit registers the new content as the next version of every touched file
// and, unless dryRun, writes it back with the original BOM and file mode.
func commit(fs *source.FileSet, files map[source.FileID]*staged, dryRun bool) ([]FileChange, error) {
	changes := make([]FileChange, 0, len(files))
	for _, id := range slices.Sorted(maps.Keys(files)) {
		st := files[id]
		file := fs.Get(id)
		next := fs.Get(fs.Derive(id, st.buf))

		if !dryRun {
			mode := os.FileMode(0o644)
			if info, err := os.Stat(file.Path); err == nil {
				mode = info.Mode()
			}
			if err := os.WriteFile(file.Path, next.Encoded(), mode); err != nil {
				return changes, fmt.Errorf("write %s: %w", file.Path, err)
			}
		}

		changes = append(changes, FileChange{
			Path:      file.FormatPath("relative", fs.BaseDir()),
			FileID:    next.ID,
			EditCount: st.edits,
			Before:    file.Content,
			After:     next.Content,
		})
	}
	slices.SortStableFunc(changes, func(a, b FileChange) int { return cmp.Compare(a.Path, b.Path) })
	return changes, nil
}
