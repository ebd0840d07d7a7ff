package store

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/tyler180/fpl-championship-analysis/internal/model"
	"github.com/tyler180/fpl-championship-analysis/internal/stats"
)

// metaSK is the sort key of the per-test run marker item.
const metaSK = "#META"

type DynamoDBAPI interface {
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
}

// ResultKey is the sort key of a test result: "<position>#<price>".
func ResultKey(position string, price float64) string {
	return position + "#" + strconv.FormatFloat(price, 'f', 1, 64)
}

// PutResults writes formatted test results. PK=Test (S), SK=PositionPrice (S).
func PutResults(ctx context.Context, ddb DynamoDBAPI, table, runID string, rows []stats.FormattedResult) error {
	if len(rows) == 0 {
		return nil
	}
	now := strconv.FormatInt(time.Now().Unix(), 10)
	return putChunked(ctx, ddb, table, len(rows), func(i int) map[string]types.AttributeValue {
		r := rows[i]
		return map[string]types.AttributeValue{
			"Test":                  &types.AttributeValueMemberS{Value: r.Test},                          // PK
			"PositionPrice":         &types.AttributeValueMemberS{Value: ResultKey(r.Position, r.Price)}, // SK
			"Position":              &types.AttributeValueMemberS{Value: r.Position},
			"Price":                 num(r.Price, 1),
			"SampleSizePromoted":    &types.AttributeValueMemberN{Value: strconv.Itoa(r.SampleSizePromoted)},
			"SampleSizeNotPromoted": &types.AttributeValueMemberN{Value: strconv.Itoa(r.SampleSizeNotPromoted)},
			"AvgPointsPromoted":     num(r.AvgPromoted, 1),
			"AvgPointsNotPromoted":  num(r.AvgNotPromoted, 1),
			"Difference":            num(r.Difference, 1),
			"Statistic":             num(r.Statistic, -1),
			"PValue":                num(r.PValue, -1),
			"Significant":           &types.AttributeValueMemberBOOL{Value: r.Significant},
			"RunID":                 &types.AttributeValueMemberS{Value: runID},
			"UpdatedAt":             &types.AttributeValueMemberN{Value: now},
		}
	})
}

// PutPlayerSeasons writes labelled FPL rows. PK=Season (S), SK=NameTeam (S).
// Rows without a name or team are skipped. Players sharing a cleaned name and
// team within a season get "#2", "#3", ... appended in input order so no batch
// carries a duplicate key.
func PutPlayerSeasons(ctx context.Context, ddb DynamoDBAPI, table string, rows []model.PlayerSeason) error {
	var keep []model.PlayerSeason
	var sks []string
	seen := map[string]int{}
	for _, r := range rows {
		if r.Name == "" || r.Team == "" || r.Season == "" {
			continue
		}
		sk := r.Name + "#" + r.Team
		seen[r.Season+"|"+sk]++
		if n := seen[r.Season+"|"+sk]; n > 1 {
			sk += "#" + strconv.Itoa(n)
		}
		keep = append(keep, r)
		sks = append(sks, sk)
	}
	if len(keep) == 0 {
		return nil
	}
	now := strconv.FormatInt(time.Now().Unix(), 10)
	return putChunked(ctx, ddb, table, len(keep), func(i int) map[string]types.AttributeValue {
		r := keep[i]
		return map[string]types.AttributeValue{
			"Season":                   &types.AttributeValueMemberS{Value: r.Season}, // PK
			"NameTeam":                 &types.AttributeValueMemberS{Value: sks[i]},   // SK
			"Name":                     &types.AttributeValueMemberS{Value: r.Name},
			"Team":                     &types.AttributeValueMemberS{Value: r.Team},
			"Position":                 &types.AttributeValueMemberS{Value: r.Position},
			"TotalPoints":              &types.AttributeValueMemberN{Value: strconv.Itoa(r.TotalPoints)},
			"GoalsScored":              &types.AttributeValueMemberN{Value: strconv.Itoa(r.GoalsScored)},
			"Assists":                  &types.AttributeValueMemberN{Value: strconv.Itoa(r.Assists)},
			"MinutesPlayed":            &types.AttributeValueMemberN{Value: strconv.Itoa(r.MinutesPlayed)},
			"ValueFirstGW":             &types.AttributeValueMemberN{Value: strconv.Itoa(r.ValueFirstGW)},
			"TeamStrength":             &types.AttributeValueMemberN{Value: strconv.Itoa(r.TeamStrength)},
			"PromotedFromChampionship": &types.AttributeValueMemberBOOL{Value: r.PromotedFromChampionship == 1},
			"UpdatedAt":                &types.AttributeValueMemberN{Value: now},
		}
	})
}

// MarkPublished records the latest run for a test on its marker item.
func MarkPublished(ctx context.Context, ddb DynamoDBAPI, table, test, runID string, n int) error {
	_, err := ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(table),
		Key: map[string]types.AttributeValue{
			"Test":          &types.AttributeValueMemberS{Value: test},
			"PositionPrice": &types.AttributeValueMemberS{Value: metaSK},
		},
		UpdateExpression: aws.String("SET RunID=:r, ResultCount=:n, UpdatedAt=:now"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":r":   &types.AttributeValueMemberS{Value: runID},
			":n":   &types.AttributeValueMemberN{Value: strconv.Itoa(n)},
			":now": &types.AttributeValueMemberN{Value: strconv.FormatInt(time.Now().Unix(), 10)},
		},
	})
	return err
}

// num renders a DynamoDB number; NaN and Inf become NULL since N cannot hold them.
func num(f float64, prec int) types.AttributeValue {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return &types.AttributeValueMemberNULL{Value: true}
	}
	return &types.AttributeValueMemberN{Value: strconv.FormatFloat(f, 'f', prec, 64)}
}

func putChunked(ctx context.Context, ddb DynamoDBAPI, table string, n int, item func(int) map[string]types.AttributeValue) error {
	const maxBatch = 25
	for i := 0; i < n; i += maxBatch {
		end := min(i+maxBatch, n)
		reqs := make([]types.WriteRequest, 0, end-i)
		for j := i; j < end; j++ {
			reqs = append(reqs, types.WriteRequest{PutRequest: &types.PutRequest{Item: item(j)}})
		}
		if err := batchWriteWithRetry(ctx, ddb, table, reqs); err != nil {
			return fmt.Errorf("batch write %s: %w", table, err)
		}
	}
	return nil
}

func batchWriteWithRetry(ctx context.Context, ddb DynamoDBAPI, table string, reqs []types.WriteRequest) error {
	input := &dynamodb.BatchWriteItemInput{
		RequestItems: map[string][]types.WriteRequest{table: reqs},
	}
	const maxAttempts = 6
	backoff := 120 * time.Millisecond

	for attempt := 0; attempt < maxAttempts; attempt++ {
		out, err := ddb.BatchWriteItem(ctx, input)
		if err != nil {
			return err
		}
		if len(out.UnprocessedItems) == 0 {
			return nil
		}
		input.RequestItems = out.UnprocessedItems
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		if backoff < 2*time.Second {
			backoff += 120 * time.Millisecond
		}
	}
	return fmt.Errorf("unprocessed items remained after retries for table %s", table)
}
