package parser

import (
	"encoding/json"
	"fmt"

	"cryptoflow/models"
)

// EncodeSnapshot builds the JSON frame pushed to feed clients.
func EncodeSnapshot(s models.Snapshot) ([]byte, error) {
	frame := models.Frame{
		Type:    models.FrameSnapshot,
		Version: s.Version,
		Coins:   s.Coins,
		Loading: s.Loading,
		Error:   s.Error,
		Ts:      s.UpdatedAt.UnixMilli(),
	}
	data, err := json.Marshal(frame)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot frame: %w", err)
	}
	return data, nil
}

// EncodeError builds a frame that carries only an error message.
func EncodeError(msg string, ts int64) ([]byte, error) {
	return json.Marshal(models.Frame{Type: models.FrameError, Error: msg, Ts: ts})
}

// ParseFrame decodes a feed frame and checks its type.
func ParseFrame(data []byte) (*models.Frame, error) {
	frame := &models.Frame{}
	if err := json.Unmarshal(data, frame); err != nil {
		return nil, fmt.Errorf("failed to decode frame: %w", err)
	}

	if !models.FrameTypes[frame.Type] {
		return nil, fmt.Errorf("unknown frame type %q", frame.Type)
	}
	if frame.Type == models.FrameSnapshot && len(frame.Coins) == 0 {
		return nil, fmt.Errorf("snapshot frame %d carries no coins", frame.Version)
	}
	return frame, nil
}
