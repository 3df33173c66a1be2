package game

import (
	"fmt"
	"time"
)

// Drawing is one generated winning combination. It is immutable after
// creation; the session keeps the latest plus a small recent buffer.
type Drawing struct {
	Seq       uint64              `json:"seq"`
	Whites    [WhiteBallCount]int `json:"whites"`
	Powerball int                 `json:"powerball"`
	DrawnAt   time.Time           `json:"drawn_at"`
}

// checkDistinct panics when a generated drawing carries a duplicate white
// ball. Whites are sorted before the drawing is built, so adjacent equality
// covers every pair. A duplicate means the number source is broken, which is
// a programming error, not a recoverable condition.
func (d Drawing) checkDistinct() {
	for i := 1; i < WhiteBallCount; i++ {
		if d.Whites[i] == d.Whites[i-1] {
			panic(fmt.Sprintf("drawing %d contains duplicate white ball %d", d.Seq, d.Whites[i]))
		}
	}
}
