package observ

import (
	"strings"
	"testing"
	"time"
)

// fakeClock advances by step on every call.
func fakeClock(step time.Duration) func() time.Time {
	now := time.Unix(0, 0)
	return func() time.Time {
		now = now.Add(step)
		return now
	}
}

func TestTimerReport(t *testing.T) {
	timer := NewTimer()
	timer.now = fakeClock(time.Millisecond)

	lex := timer.Begin("lex")
	timer.End(lex, "tokens=3")
	done := timer.Track("detect")
	done("")

	report := timer.Report()
	if len(report.Phases) != 2 {
		t.Fatalf("expected 2 phases, got %d", len(report.Phases))
	}
	if report.Phases[0].Name != "lex" || report.Phases[0].Note != "tokens=3" {
		t.Fatalf("unexpected first phase %+v", report.Phases[0])
	}
	if report.Phases[0].DurationMS != 1 || report.TotalMS != 2 {
		t.Fatalf("unexpected durations %+v", report)
	}
}

func TestTimerIgnoresUnknownIndex(t *testing.T) {
	timer := NewTimer()
	timer.End(3, "x")
	timer.End(-1, "x")
	if got := timer.Report(); len(got.Phases) != 0 || got.TotalMS != 0 {
		t.Fatalf("expected empty report, got %+v", got)
	}
}

func TestTimerSummary(t *testing.T) {
	timer := NewTimer()
	timer.now = fakeClock(2 * time.Millisecond)
	timer.Track("list_files")("files=4")

	summary := timer.Report().Summary("timings")
	for _, want := range []string{"timings:", "list_files", "2.00 ms", "(files=4)", "total"} {
		if !strings.Contains(summary, want) {
			t.Errorf("expected %q in summary:\n%s", want, summary)
		}
	}
}
