package store

import (
	"context"
	"math"
	"strconv"
	"testing"

	ddb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tyler180/fpl-championship-analysis/internal/stats"
)

// pagedDDB serves stored items two per page.
type pagedDDB struct {
	fakeDDB
	pages int
}

func (p *pagedDDB) Query(ctx context.Context, in *ddb.QueryInput, _ ...func(*ddb.Options)) (*ddb.QueryOutput, error) {
	p.pages++
	test := in.ExpressionAttributeValues[":t"].(*types.AttributeValueMemberS).Value
	var match []map[string]types.AttributeValue
	for _, it := range p.items {
		if v, ok := it["Test"].(*types.AttributeValueMemberS); ok && v.Value == test {
			match = append(match, it)
		}
	}
	start := 0
	if in.ExclusiveStartKey != nil {
		start, _ = strconv.Atoi(in.ExclusiveStartKey["i"].(*types.AttributeValueMemberN).Value)
	}
	end := min(start+2, len(match))
	out := &ddb.QueryOutput{Items: match[start:end]}
	if end < len(match) {
		out.LastEvaluatedKey = map[string]types.AttributeValue{"i": &types.AttributeValueMemberN{Value: strconv.Itoa(end)}}
	}
	return out, nil
}

func TestQueryResults_Paginates(t *testing.T) {
	f := &pagedDDB{}
	ctx := context.Background()
	require.NoError(t, PutResults(ctx, f, "results", "old", []stats.FormattedResult{
		{Test: stats.WelchName, Position: "GK", Price: 4.5, PValue: 0.5},
	}))
	require.NoError(t, PutResults(ctx, f, "results", "new", []stats.FormattedResult{
		{Test: stats.WelchName, Position: "MID", Price: 5.5, PValue: 0.01, Significant: true},
		{Test: stats.WelchName, Position: "DEF", Price: 4.0, PValue: math.NaN()},
		{Test: stats.MannWhitneyName, Position: "FWD", Price: 6.0, PValue: 0.2},
	}))
	f.items = append(f.items, map[string]types.AttributeValue{
		"Test":          &types.AttributeValueMemberS{Value: stats.WelchName},
		"PositionPrice": &types.AttributeValueMemberS{Value: metaSK},
	})

	got, err := QueryResults(ctx, f, "results", stats.WelchName)
	require.NoError(t, err)
	require.Len(t, got, 3, "marker item is skipped")
	assert.Equal(t, 2, f.pages)
	assert.Equal(t, "MID", got[1].Position)
	assert.True(t, got[1].Significant)
	assert.Nil(t, got[2].PValue)
	assert.True(t, math.IsNaN(got[2].P()))
	assert.Equal(t, 0.01, got[1].P())
	assert.Equal(t, 5.5, got[1].Price)

	n, err := CountRun(ctx, f, "results", stats.WelchName, "new")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
