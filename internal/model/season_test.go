package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeasonString(t *testing.T) {
	s, err := SeasonString(2023)
	require.NoError(t, err)
	assert.Equal(t, "2023-24", s)

	s, err = SeasonString(2099)
	require.NoError(t, err)
	assert.Equal(t, "2099-00", s)

	_, err = SeasonString(23)
	assert.Error(t, err)
	_, err = SeasonString(20233)
	assert.Error(t, err)
}

func TestSeasonParsing(t *testing.T) {
	y, err := SeasonStart("2017-2018")
	require.NoError(t, err)
	assert.Equal(t, 2017, y)

	e, err := SeasonEnd("2017-18")
	require.NoError(t, err)
	assert.Equal(t, 2018, e)

	_, err = SeasonStart("17")
	assert.Error(t, err)

	assert.Equal(t, "2017-18", ShortSeason("2017-2018"))
	assert.Equal(t, "2017-18", ShortSeason("2017-18"))
	assert.Equal(t, "18/19", SlashSeason("2018-19"))
}

func TestPositionAndMetric(t *testing.T) {
	assert.Equal(t, PosGK, PositionFromElementType(1))
	assert.Equal(t, PosFWD, PositionFromElementType(4))
	assert.Equal(t, "Unknown", PositionFromElementType(9))

	m, ok := ParseMetric("assists")
	assert.True(t, ok)
	assert.Equal(t, Assists, m)
	assert.Equal(t, "goals", Goals.Slug())
	_, ok = ParseMetric("cards")
	assert.False(t, ok)
}
