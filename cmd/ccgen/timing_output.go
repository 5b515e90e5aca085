package main

import (
	"fmt"
	"io"
	"time"

	"ccgen/internal/buildpipeline"
	"ccgen/internal/observ"
)

func printStageTimings(out io.Writer, res *buildpipeline.Result, timer *observ.Timer) error {
	if out == nil || res == nil {
		return nil
	}
	var total buildpipeline.Timings
	for _, u := range res.Units {
		if u == nil || u.Timings == nil {
			continue
		}
		for _, stage := range buildpipeline.Stages {
			if u.Timings.Has(stage) {
				total.Add(stage, u.Timings.Duration(stage))
			}
		}
	}
	for _, stage := range buildpipeline.Stages {
		if !total.Has(stage) {
			continue
		}
		if _, err := fmt.Fprintf(out, "%s %.1f ms\n", stage, toMillis(total.Duration(stage))); err != nil {
			return err
		}
	}
	if timer != nil {
		if _, err := io.WriteString(out, timer.Summary()); err != nil {
			return err
		}
	}
	return nil
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
