package models

import "time"

// Snapshot is what observers see: every coin at the same tick plus the store flags.
type Snapshot struct {
	Version   uint64       `json:"version"`
	Coins     []CoinRecord `json:"coins"`
	Loading   bool         `json:"loading"`
	Error     string       `json:"error,omitempty"`
	UpdatedAt time.Time    `json:"updatedAt"`
}
