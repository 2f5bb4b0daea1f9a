package diag

import (
	"cmp"
	"slices"
)

// Bag collects diagnostics up to a limit. It is not safe for concurrent use;
// the driver gives every file its own Bag and merges them afterwards.
type Bag struct {
	items []Diagnostic
	limit int
}

// NewBag creates a bag holding at most limit diagnostics; limit <= 0 means
// unlimited.
func NewBag(limit int) *Bag {
	if limit < 0 {
		limit = 0
	}
	return &Bag{items: make([]Diagnostic, 0, min(max(limit, 8), 64)), limit: limit}
}

// Add stores d and reports false once the limit is reached.
func (b *Bag) Add(d Diagnostic) bool {
	if b.limit > 0 && len(b.items) >= b.limit {
		return false
	}
	b.items = append(b.items, d)
	return true
}

// Cap is the configured limit, 0 when unlimited.
func (b *Bag) Cap() int { return b.limit }

func (b *Bag) Len() int { return len(b.items) }

// Items returns the stored diagnostics. The slice aliases the bag; callers
// must not modify it.
func (b *Bag) Items() []Diagnostic { return b.items }

func (b *Bag) has(floor Severity) bool {
	return slices.ContainsFunc(b.items, func(d Diagnostic) bool { return d.Severity >= floor })
}

// HasErrors reports whether any diagnostic is an error.
func (b *Bag) HasErrors() bool { return b.has(SevError) }

// HasWarnings reports whether any diagnostic is a warning or worse.
func (b *Bag) HasWarnings() bool { return b.has(SevWarning) }

// CountBySeverity returns how many diagnostics carry sev.
func (b *Bag) CountBySeverity(sev Severity) int {
	n := 0
	for i := range b.items {
		if b.items[i].Severity == sev {
			n++
		}
	}
	return n
}

// Merge appends other's diagnostics, raising the limit so none are lost.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	if b.limit > 0 {
		b.limit = max(b.limit, len(b.items)+len(other.items))
	}
	b.items = append(b.items, other.items...)
}

// Sort orders by file, span, severity (errors first) and code.
func (b *Bag) Sort() {
	slices.SortStableFunc(b.items, func(x, y Diagnostic) int {
		return cmp.Or(
			cmp.Compare(x.Primary.File, y.Primary.File),
			cmp.Compare(x.Primary.Start, y.Primary.Start),
			cmp.Compare(x.Primary.End, y.Primary.End),
			cmp.Compare(y.Severity, x.Severity),
			cmp.Compare(x.Code, y.Code),
		)
	})
}

// Filter keeps only the diagnostics for which keep returns true.
func (b *Bag) Filter(keep func(Diagnostic) bool) {
	b.items = slices.DeleteFunc(b.items, func(d Diagnostic) bool { return !keep(d) })
}
