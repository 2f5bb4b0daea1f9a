package main

import (
	"fmt"
	"io"

	"wscheck/internal/driver"
)

// printTimings writes the run report and, for directory runs, the report of
// the slowest file.
func printTimings(out io.Writer, res *driver.CheckResult) {
	if res.Timing != nil {
		fmt.Fprint(out, res.Timing.Summary("timings (run)"))
	}
	if len(res.Files) < 2 {
		return
	}
	slowest := -1
	var worst float64
	for i := range res.Files {
		if t := res.Files[i].Timing; t != nil && t.TotalMS > worst {
			slowest, worst = i, t.TotalMS
		}
	}
	if slowest >= 0 {
		fmt.Fprint(out, res.Files[slowest].Timing.Summary("timings ("+res.Files[slowest].Path+")"))
	}
}
