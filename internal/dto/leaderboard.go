package dto

type LeaderboardEntry struct {
	Username string `json:"username"`
	Count    int64  `json:"count"`
}

type AreaEntry struct {
	Username string  `json:"username"`
	Area     float64 `json:"area"`
}
