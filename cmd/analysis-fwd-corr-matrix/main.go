package main

import "github.com/tyler180/fpl-championship-analysis/internal/app/pipeline"

func main() {
	pipeline.Main("analysis-fwd-corr-matrix", pipeline.ForwardCorrelation)
}
