package pipeline

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/athena"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/tyler180/fpl-championship-analysis/internal/config"
	"github.com/tyler180/fpl-championship-analysis/internal/dataset"
	"github.com/tyler180/fpl-championship-analysis/internal/logging"
	"github.com/tyler180/fpl-championship-analysis/internal/materializer"
	"github.com/tyler180/fpl-championship-analysis/internal/model"
	"github.com/tyler180/fpl-championship-analysis/internal/stats"
	"github.com/tyler180/fpl-championship-analysis/internal/store"
)

// ResultsDB is the DynamoDB surface publish writes through and verifies with.
type ResultsDB interface {
	store.DynamoDBAPI
	store.DynamoDBReadAPI
}

// Publisher pushes the joined FPL table and the test results to S3 (parquet),
// exposes them as Athena tables and mirrors results into DynamoDB.
type Publisher struct {
	Uploader     *store.Uploader
	Athena       *materializer.Runner
	DDB          ResultsDB
	ResultsTable string
	PlayersTable string // optional
}

// Publish is the publish binary's step. Every run writes under runs/<run id>/
// and repoints the Athena tables at it.
func Publish(ctx context.Context, env *Env, e Event) (Summary, error) {
	bucket, err := config.MustEnv("CURATED_BUCKET")
	if err != nil {
		return nil, err
	}
	athenaOut, err := config.MustEnv("ATHENA_OUTPUT")
	if err != nil {
		return nil, err
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	runID := e.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	p := &Publisher{
		Uploader: &store.Uploader{
			Client: s3.NewFromConfig(awsCfg),
			Bucket: bucket,
			Prefix: config.Getenv("CURATED_PREFIX", "fpl_curated"),
		},
		Athena: &materializer.Runner{
			Client:    athena.NewFromConfig(awsCfg),
			Workgroup: config.Getenv("ATHENA_WORKGROUP", "primary"),
			Database:  config.Getenv("ATHENA_DB", "fpl_championship"),
			OutputS3:  athenaOut,
			Logger:    logging.WithRun("athena", runID),
		},
		DDB:          dynamodb.NewFromConfig(awsCfg),
		ResultsTable: config.Getenv("RESULTS_TABLE", "promotion_test_results"),
		PlayersTable: config.Getenv("PLAYERS_TABLE", ""),
	}
	return p.Run(ctx, env.Cfg.DataDir, runID)
}

// Run publishes the files under dataDir.
func (p *Publisher) Run(ctx context.Context, dataDir, runID string) (Summary, error) {
	log := logging.WithRun("publish", runID)

	players, err := dataset.ReadCSV[model.PlayerSeason](dataset.FPLJoinedPath(dataDir))
	if err != nil {
		return nil, fmt.Errorf("joined FPL table: %w", err)
	}
	var results []stats.FormattedResult
	perTest := map[string]int{}
	for _, b := range batteries {
		rows, err := dataset.ReadCSV[stats.FormattedResult](dataset.AnalysisPath(dataDir, b.file))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", b.file, err)
		}
		results = append(results, rows...)
		perTest[b.name] = len(rows)
	}

	runPrefix := "runs/" + runID
	playersLoc, err := store.UploadParquet(ctx, p.Uploader, runPrefix+"/player_seasons", players)
	if err != nil {
		return nil, err
	}
	resultsLoc, err := store.UploadParquet(ctx, p.Uploader, runPrefix+"/test_results", results)
	if err != nil {
		return nil, err
	}
	log.WithField("players", playersLoc).WithField("results", resultsLoc).Info("parquet uploaded")

	db := p.Athena.Database
	playersDDL, err := materializer.BuildExternalTable[model.PlayerSeason](db, materializer.PlayerSeasonsTable, playersLoc)
	if err != nil {
		return nil, err
	}
	resultsDDL, err := materializer.BuildExternalTable[stats.FormattedResult](db, materializer.TestResultsTable, resultsLoc)
	if err != nil {
		return nil, err
	}
	for _, sql := range []string{
		materializer.BuildDrop(db, materializer.PlayerSeasonsTable), playersDDL,
		materializer.BuildDrop(db, materializer.TestResultsTable), resultsDDL,
	} {
		if _, err := p.Athena.ExecAndWait(ctx, sql); err != nil {
			return nil, err
		}
	}
	n, err := p.Athena.CountRows(ctx, materializer.PlayerSeasonsTable)
	if err != nil {
		return nil, err
	}
	if n != int64(len(players)) {
		log.WithField("athena_rows", n).WithField("uploaded", len(players)).Warn("athena row count differs from upload")
	}

	if err := store.PutResults(ctx, p.DDB, p.ResultsTable, runID, results); err != nil {
		return nil, err
	}
	for name, cnt := range perTest {
		stored, err := store.CountRun(ctx, p.DDB, p.ResultsTable, name, runID)
		if err != nil {
			return nil, fmt.Errorf("verify %s: %w", name, err)
		}
		if stored != cnt {
			return nil, fmt.Errorf("verify %s: %d of %d results stored for run %s", name, stored, cnt, runID)
		}
		if err := store.MarkPublished(ctx, p.DDB, p.ResultsTable, name, runID, cnt); err != nil {
			return nil, fmt.Errorf("mark %s: %w", name, err)
		}
	}
	if p.PlayersTable != "" {
		if err := store.PutPlayerSeasons(ctx, p.DDB, p.PlayersTable, players); err != nil {
			return nil, err
		}
	}

	return Summary{
		"ok":             true,
		"run_id":         runID,
		"player_seasons": len(players),
		"results":        perTest,
		"athena_rows":    n,
		"s3":             p.Uploader.Location(p.Uploader.Key(runPrefix) + "/"),
	}, nil
}
