package main

import (
	"fmt"
	"io"

	"contenttag/internal/observ"
	"contenttag/internal/pipeline"
)

// printStageTimings prints the summed stage durations of a run.
func printStageTimings(out io.Writer, timings pipeline.Timings) {
	if out == nil {
		return
	}
	for _, stage := range []pipeline.Stage{pipeline.StageLoad, pipeline.StageLocate, pipeline.StageRewrite, pipeline.StageWrite} {
		if !timings.Has(stage) {
			continue
		}
		fmt.Fprintf(out, "%s %.1f ms\n", stage, observ.Millis(timings.Duration(stage)))
	}
	total := timings.Sum(pipeline.StageLoad, pipeline.StageLocate, pipeline.StageRewrite, pipeline.StageWrite)
	fmt.Fprintf(out, "total %.1f ms\n", observ.Millis(total))
}
