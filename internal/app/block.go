package app

import (
	"context"
	"fmt"
	"time"

	"lotteryd/internal/lottery/types"
)

// blockClock exposes the block being finalized as the lottery's time source.
// Slot is the block height and the timestamp is the block time in unix seconds.
// Guarded by the app mutex.
type blockClock struct {
	height int64
	time   time.Time
	open   bool
}

var _ types.TimeSource = (*blockClock)(nil)

func (c *blockClock) begin(height int64, t time.Time) {
	c.height, c.time, c.open = height, t, true
}

func (c *blockClock) end() {
	c.open = false
}

func (c *blockClock) CurrentSlot(context.Context) (uint64, error) {
	if !c.open {
		return 0, fmt.Errorf("no block in progress")
	}
	if c.height < 0 {
		return 0, fmt.Errorf("negative block height %d", c.height)
	}
	return uint64(c.height), nil
}

func (c *blockClock) CurrentTimestamp(context.Context) (int64, error) {
	if !c.open {
		return 0, fmt.Errorf("no block in progress")
	}
	return c.time.Unix(), nil
}
