package models

type FrameType string

const (
	// Frame types pushed over the feed
	FrameSnapshot FrameType = "snapshot"
	FrameError    FrameType = "error"
)

var FrameTypes = map[FrameType]bool{
	FrameSnapshot: true,
	FrameError:    true,
}

// Frame is the wire envelope of the live feed. Ts is unix millis.
type Frame struct {
	Type    FrameType    `json:"type"`
	Version uint64       `json:"version"`
	Coins   []CoinRecord `json:"coins,omitempty"`
	Loading bool         `json:"loading"`
	Error   string       `json:"error,omitempty"`
	Ts      int64        `json:"ts"`
}
