package main

import "github.com/tyler180/fpl-championship-analysis/internal/app/pipeline"

func main() {
	pipeline.Main("get-championship-data", pipeline.GetChampionshipData)
}
