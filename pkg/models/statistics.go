package models

// StageCounts holds how many words sit at each stage for a user.
// Words without progress are counted at stage 1.
type StageCounts struct {
	Total   int         `json:"total"`
	ByStage map[int]int `json:"by_stage"`
}

// WordStats summarises how far a user got through the word list
type WordStats struct {
	TotalItems       int     `json:"total_items"`
	Stage1ClearedPct float64 `json:"stage1_cleared_pct"`
	Stage2ClearedPct float64 `json:"stage2_cleared_pct"`
	Stage3ClearedPct float64 `json:"stage3_cleared_pct"`
}
