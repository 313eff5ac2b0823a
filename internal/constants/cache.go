package constants

import "time"

// Turnover snapshot keys are "turnovers:all:<generation>" and the counter is
// "turnovers:generation".
const (
	TurnoverCachePrefix   = "turnovers"
	TurnoverSnapshotKey   = "all"
	TurnoverGenerationKey = "generation"
	TurnoverCacheExpiry   = 24 * time.Hour
	TurnoverCacheTimeout  = 500 * time.Millisecond
)
