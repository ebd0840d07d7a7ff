package store

import (
	"context"
	"fmt"
	"math"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type DynamoDBReadAPI interface {
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// StoredResult is one result item read back from the results table.
type StoredResult struct {
	PositionPrice string
	Position      string
	Price         float64
	PValue        *float64 // nil when stored as NULL
	Significant   bool
	RunID         string
}

// P returns the p-value, NaN when none was stored.
func (r StoredResult) P() float64 {
	if r.PValue == nil {
		return math.NaN()
	}
	return *r.PValue
}

// QueryResults reads every result item for a test, skipping the run marker.
func QueryResults(ctx context.Context, ddb DynamoDBReadAPI, table, test string) ([]StoredResult, error) {
	var out []StoredResult
	var lastKey map[string]types.AttributeValue
	for {
		page, err := ddb.Query(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(table),
			KeyConditionExpression:    aws.String("#T = :t"),
			ExpressionAttributeNames:  map[string]string{"#T": "Test"},
			ExpressionAttributeValues: map[string]types.AttributeValue{":t": &types.AttributeValueMemberS{Value: test}},
			ExclusiveStartKey:         lastKey,
		})
		if err != nil {
			return nil, err
		}
		var items []StoredResult
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, fmt.Errorf("decode %s items: %w", table, err)
		}
		for _, it := range items {
			if it.PositionPrice != metaSK {
				out = append(out, it)
			}
		}
		if len(page.LastEvaluatedKey) == 0 {
			return out, nil
		}
		lastKey = page.LastEvaluatedKey
	}
}

// CountRun counts the results of a test written by runID.
func CountRun(ctx context.Context, ddb DynamoDBReadAPI, table, test, runID string) (int, error) {
	rows, err := QueryResults(ctx, ddb, table, test)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, r := range rows {
		if r.RunID == runID {
			n++
		}
	}
	return n, nil
}
