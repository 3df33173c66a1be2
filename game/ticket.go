package game

import (
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"
)

// Powerball rules.
const (
	WhiteBallCount = 5
	WhiteBallMax   = 69
	PowerballMax   = 26
)

// ValidationError reports malformed join input. It is recoverable and
// surfaced to the caller of Join; the engine itself never sees a bad ticket.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Ticket is a player's pick: five distinct white balls plus one Powerball.
// Whites are stored sorted so match checks and display ordering are stable.
type Ticket struct {
	Whites    [WhiteBallCount]int `json:"numbers"`
	Powerball int                 `json:"powerball"`
}

// NewTicket validates the raw numbers and returns a normalized Ticket.
func NewTicket(whites []int, powerball int) (Ticket, error) {
	var t Ticket
	if len(whites) != WhiteBallCount {
		return t, &ValidationError{Field: "numbers", Reason: fmt.Sprintf("must pick exactly %d numbers", WhiteBallCount)}
	}
	seen := make(map[int]bool, WhiteBallCount)
	for _, n := range whites {
		if n < 1 || n > WhiteBallMax {
			return t, &ValidationError{Field: "numbers", Reason: fmt.Sprintf("white balls must be 1-%d", WhiteBallMax)}
		}
		if seen[n] {
			return t, &ValidationError{Field: "numbers", Reason: "white ball numbers must be unique"}
		}
		seen[n] = true
	}
	if powerball < 1 || powerball > PowerballMax {
		return t, &ValidationError{Field: "powerball", Reason: fmt.Sprintf("powerball must be 1-%d", PowerballMax)}
	}
	copy(t.Whites[:], whites)
	sort.Ints(t.Whites[:])
	t.Powerball = powerball
	return t, nil
}

// MatchCount returns the size of the intersection between the ticket's white
// balls and the drawing's, and whether the Powerball matches.
func (t Ticket) MatchCount(d Drawing) (int, bool) {
	matches := 0
	for _, n := range t.Whites {
		for _, w := range d.Whites {
			if n == w {
				matches++
				break
			}
		}
	}
	return matches, t.Powerball == d.Powerball
}

// NumberSource produces one independent uniform sample of winning numbers:
// five distinct white balls in [1,69] and a Powerball in [1,26]. It backs
// both drawings and Quick Picks, which can run concurrently, so
// implementations must be safe for concurrent use.
type NumberSource interface {
	Draw() (whites [WhiteBallCount]int, powerball int)
}

type randSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandSource returns the default time-seeded NumberSource.
func NewRandSource() NumberSource {
	return &randSource{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// Draw samples without replacement via a partial Fisher-Yates shuffle, so
// every 5-combination is equally likely and duplicates cannot occur.
func (s *randSource) Draw() ([WhiteBallCount]int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var pool [WhiteBallMax]int
	for i := range pool {
		pool[i] = i + 1
	}
	var whites [WhiteBallCount]int
	for i := 0; i < WhiteBallCount; i++ {
		j := i + s.rng.Intn(WhiteBallMax-i)
		pool[i], pool[j] = pool[j], pool[i]
		whites[i] = pool[i]
	}
	sort.Ints(whites[:])
	return whites, 1 + s.rng.Intn(PowerballMax)
}
