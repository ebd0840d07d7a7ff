package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tyler180/fpl-championship-analysis/internal/model"
)

func TestTokenSortRatio(t *testing.T) {
	assert.Equal(t, 100, TokenSortRatio("Aleksandar Mitrović", "Mitrovic, Aleksandar"))
	assert.Equal(t, 100, TokenSortRatio("JOÃO MOUTINHO", "João Moutinho"))
	assert.Equal(t, 0, TokenSortRatio("", "Anyone"))
	assert.Equal(t, 0, TokenSortRatio("---", "Anyone"))
	assert.Less(t, TokenSortRatio("Tom Cairney", "Harry Kane"), 70)
	assert.GreaterOrEqual(t, TokenSortRatio("Ryan Sessegnon", "Ryan Sessegnon-Jr"), 70)
}

func TestRatio(t *testing.T) {
	assert.Equal(t, 100, Ratio("abc", "abc"))
	assert.Equal(t, 67, Ratio("abc", "abd"))
	assert.Equal(t, 0, Ratio("", ""))
}

func TestBestMatch_TieGoesToFirstCandidate(t *testing.T) {
	// both candidates are one substitution away from the query
	require.Equal(t, TokenSortRatio("Jon Smith", "Jon Smyth"), TokenSortRatio("Jon Smith", "Jon Smitt"))

	best, score, ok := BestMatch("Jon Smith", []string{"Jon Smyth", "Jon Smitt"}, 70)
	require.True(t, ok)
	assert.Equal(t, "Jon Smyth", best)
	assert.Equal(t, 89, score)

	best, _, _ = BestMatch("Jon Smith", []string{"Jon Smitt", "Jon Smyth"}, 70)
	assert.Equal(t, "Jon Smitt", best)
}

func TestBestMatch_BelowThreshold(t *testing.T) {
	best, score, ok := BestMatch("Tom Cairney", []string{"Harry Kane", "Son Heung-min"}, 70)
	assert.False(t, ok)
	assert.Empty(t, best)
	assert.Less(t, score, 70)

	_, score, ok = BestMatch("Tom Cairney", nil, 70)
	assert.False(t, ok)
	assert.Equal(t, 0, score)
}

func TestMatchAndMerge(t *testing.T) {
	champ := []model.ChampionshipRow{
		{Player: "Aleksandar Mitrović", Team: "Fulham", Season: "2017-2018", PromotionYear: 2018, NextSeasonStart: 2019, Count: 12},
		{Player: "Ryan Sessegnon", Team: "Fulham", Season: "2017-2018", PromotionYear: 2018, NextSeasonStart: 2019, Count: 15},
		{Player: "Ruben Neves", Team: "Wolves", Season: "2017-2018", PromotionYear: 2018, NextSeasonStart: 2019, Count: 6},
	}
	fpl := []model.PlayerSeason{
		{Name: "Aleksandar Mitrovic", Team: "Fulham", SeasonStart: 2018, TotalPoints: 141},
		{Name: "Aleksandar Mitrovic", Team: "Fulham", SeasonStart: 2020, TotalPoints: 80},
		{Name: "Ryan Sessegnon", Team: "Spurs", SeasonStart: 2018, TotalPoints: 60},
		{Name: "Rúben Neves", Team: "Wolves", SeasonStart: 2019, TotalPoints: 120},
	}

	got := MatchAndMerge(champ, fpl, 70)
	require.Len(t, got, 3)

	require.NotNil(t, got[0].FPL)
	assert.Equal(t, "Aleksandar Mitrovic", got[0].FuzzyMatch)
	assert.Equal(t, 141, got[0].FPL.TotalPoints)

	assert.Equal(t, "Ryan Sessegnon", got[1].FuzzyMatch, "name matched")
	assert.Nil(t, got[1].FPL, "but the FPL row is for another team")

	assert.Empty(t, got[2].FuzzyMatch, "no Wolves FPL names in 2018")
	assert.Nil(t, got[2].FPL)
}
