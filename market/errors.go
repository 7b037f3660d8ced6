package market

import (
	"errors"
	"fmt"
)

var (
	ErrNonPositivePrice = errors.New("price must be positive and finite")
	ErrEmptyChart       = errors.New("chart window is empty")
	ErrNegativeVolume   = errors.New("volume must be non-negative")
)

// UpdateFailure is the single failure kind of the tick path. The store keeps the
// previous snapshot when a tick returns one.
type UpdateFailure struct {
	CoinID string
	Reason string
	Err    error
}

func (e *UpdateFailure) Error() string {
	if e.CoinID == "" {
		return fmt.Sprintf("update failed: %s", e.Reason)
	}
	return fmt.Sprintf("update failed for %s: %s", e.CoinID, e.Reason)
}

func (e *UpdateFailure) Unwrap() error {
	return e.Err
}
