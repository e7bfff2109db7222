package model

type LeaderboardEntry struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Score    int64  `json:"score"`
	Project  string `json:"project"`
	Rank     int    `json:"rank"`
}

type LeaderboardUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Project  string `json:"project"`
	Score    int64  `json:"score"`
}

type Leaderboard struct {
	Users        []LeaderboardEntry `json:"users"`
	SpecificUser LeaderboardUser    `json:"specificUser"`
	Rank         int                `json:"rank"`
}
