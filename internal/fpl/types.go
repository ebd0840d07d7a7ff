package fpl

// GameweekRow is one line of a season's gws/merged_gw.csv. Seasons before
// 2020-21 ship without position and team; EnrichPositions fills them.
type GameweekRow struct {
	Name            string `csv:"name"`
	Element         int    `csv:"element"`
	GW              int    `csv:"GW"`
	Position        string `csv:"position"`
	Team            string `csv:"team"`
	Value           int    `csv:"value"`
	Minutes         int    `csv:"minutes"`
	TotalPoints     int    `csv:"total_points"`
	GoalsScored     int    `csv:"goals_scored"`
	Assists         int    `csv:"assists"`
	CleanSheets     int    `csv:"clean_sheets"`
	YellowCards     int    `csv:"yellow_cards"`
	RedCards        int    `csv:"red_cards"`
	GoalsConceded   int    `csv:"goals_conceded"`
	OwnGoals        int    `csv:"own_goals"`
	PenaltiesMissed int    `csv:"penalties_missed"`
	PenaltiesSaved  int    `csv:"penalties_saved"`
	Saves           int    `csv:"saves"`
	Bonus           int    `csv:"bonus"`
}

var gameweekRequired = []string{"name", "element", "GW", "value", "minutes", "total_points", "goals_scored", "assists"}

// PlayerRaw is the subset of players_raw.csv needed to recover positions.
type PlayerRaw struct {
	ID          int `csv:"id"`
	Team        int `csv:"team"`
	ElementType int `csv:"element_type"`
}

// MasterTeam is one line of master_team_list.csv.
type MasterTeam struct {
	Season   string `csv:"season"`
	Team     int    `csv:"team"`
	TeamName string `csv:"team_name"`
}

// TeamStrength is the strength block of a season's teams.csv.
type TeamStrength struct {
	Name        string `csv:"name"`
	Strength    int    `csv:"strength"`
	OverallHome int    `csv:"strength_overall_home"`
	OverallAway int    `csv:"strength_overall_away"`
	AttackHome  int    `csv:"strength_attack_home"`
	AttackAway  int    `csv:"strength_attack_away"`
	DefenceHome int    `csv:"strength_defence_home"`
	DefenceAway int    `csv:"strength_defence_away"`
}
