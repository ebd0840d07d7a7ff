package main

import "github.com/tyler180/fpl-championship-analysis/internal/app/pipeline"

func main() {
	pipeline.Main("analysis-box-plot", pipeline.BoxPlot)
}
