package game

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// State is the session lifecycle. Drawings only happen in StateRunning;
// StateJackpot is terminal until an admin resumes or resets.
type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
	StateJackpot State = "jackpot"
)

// ErrInvalidState is the base error for tick requests the lifecycle forbids.
var ErrInvalidState = errors.New("invalid game state")

var (
	// ErrJackpot is returned by Tick once the jackpot has been hit.
	ErrJackpot = fmt.Errorf("%w: jackpot reached", ErrInvalidState)
	// ErrNotRunning is returned by Tick when no players are in the game.
	// The scheduler treats it as "nothing to do", not a failure.
	ErrNotRunning = fmt.Errorf("%w: not running", ErrInvalidState)
)

const (
	// DefaultMaxPlayers caps the party size, matching the shared display.
	DefaultMaxPlayers = 8

	maxNameLength = 20
	recentKept    = 10

	// Speed bounds in drawings per second.
	MinSpeed = 1
	MaxSpeed = 10_000
)

// Config carries the static game configuration.
type Config struct {
	MaxPlayers    int
	TicketCost    int64
	Prizes        PrizeTable
	Source        NumberSource
	InitialSpeed  int
	JackpotAmount int64
}

// Session is the single shared game: player registry, drawing counter,
// lifecycle state and speed setting. One mutex guards membership and every
// per-player counter; a tick holds it for the whole scoring pass, so joins
// and removals can never corrupt an in-flight drawing.
type Session struct {
	mu sync.Mutex

	cfg       Config
	players   map[string]*Player
	joinOrder []string

	drawCount uint64
	latest    *Drawing
	recent    []Drawing

	state State
	speed int

	jackpotWinner string
	// Jackpot history survives Reset so the display banner can keep
	// showing how long the last jackpot took.
	lastJackpotDraws  uint64
	lastJackpotWinner string
}

// NewSession creates an idle session. Zero-value config fields fall back to
// the standard Powerball rules.
func NewSession(cfg Config) *Session {
	if cfg.MaxPlayers <= 0 {
		cfg.MaxPlayers = DefaultMaxPlayers
	}
	if cfg.TicketCost <= 0 {
		cfg.TicketCost = DefaultTicketCost
	}
	if cfg.JackpotAmount <= 0 {
		cfg.JackpotAmount = DefaultJackpotAmount
	}
	if cfg.Prizes == nil {
		cfg.Prizes = DefaultPrizeTable(cfg.JackpotAmount)
	}
	if cfg.Source == nil {
		cfg.Source = NewRandSource()
	}
	if cfg.InitialSpeed <= 0 {
		cfg.InitialSpeed = MinSpeed
	}
	return &Session{
		cfg:     cfg,
		players: make(map[string]*Player),
		state:   StateIdle,
		speed:   clampSpeed(cfg.InitialSpeed),
	}
}

// Join registers a new player with the given validated tickets and zeroed
// counters. The first join starts the game.
func (s *Session) Join(name string, tickets ...Ticket) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", &ValidationError{Field: "name", Reason: "name is required"}
	}
	if len(tickets) == 0 {
		return "", &ValidationError{Field: "tickets", Reason: "at least one ticket is required"}
	}
	if nameRunes := []rune(name); len(nameRunes) > maxNameLength {
		name = string(nameRunes[:maxNameLength])
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.players) >= s.cfg.MaxPlayers {
		return "", &ValidationError{Field: "game", Reason: fmt.Sprintf("game is full (%d players max)", s.cfg.MaxPlayers)}
	}

	p := &Player{
		ID:       uuid.New().String(),
		Name:     name,
		Tickets:  append([]Ticket(nil), tickets...),
		JoinedAt: time.Now(),
	}
	s.players[p.ID] = p
	s.joinOrder = append(s.joinOrder, p.ID)

	if s.state == StateIdle {
		s.state = StateRunning
	}
	return p.ID, nil
}

// JoinQuickPick registers a player with one randomly generated ticket.
func (s *Session) JoinQuickPick(name string) (string, error) {
	return s.Join(name, s.QuickPick())
}

// QuickPick generates a uniform random ticket from the same source that
// backs drawings.
func (s *Session) QuickPick() Ticket {
	whites, pb := s.cfg.Source.Draw()
	sort.Ints(whites[:])
	return Ticket{Whites: whites, Powerball: pb}
}

// RemovePlayer deletes a player. Removing an unknown id is a no-op, so the
// call is idempotent. When the last player leaves the game returns to idle.
func (s *Session) RemovePlayer(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.players[id]; !ok {
		return
	}
	delete(s.players, id)
	for i, pid := range s.joinOrder {
		if pid == id {
			s.joinOrder = append(s.joinOrder[:i], s.joinOrder[i+1:]...)
			break
		}
	}
	if len(s.players) == 0 && s.state == StateRunning {
		s.state = StateIdle
	}
}

// Reset clears all players and counters back to idle. The jackpot history
// banner fields are deliberately kept.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.players = make(map[string]*Player)
	s.joinOrder = nil
	s.drawCount = 0
	s.latest = nil
	s.recent = nil
	s.state = StateIdle
	s.jackpotWinner = ""
}

// Resume clears the jackpot state after the celebration: running again if
// players remain, idle otherwise.
func (s *Session) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateJackpot {
		return
	}
	s.jackpotWinner = ""
	if len(s.players) > 0 {
		s.state = StateRunning
	} else {
		s.state = StateIdle
	}
}

// SetSpeed sets the target drawings per second, clamped to [1, 10000].
// The scheduler reads it each pass; the engine itself never looks at it.
func (s *Session) SetSpeed(speed int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.speed = clampSpeed(speed)
}

// Speed returns the current drawings-per-second setting.
func (s *Session) Speed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.speed
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func clampSpeed(speed int) int {
	if speed < MinSpeed {
		return MinSpeed
	}
	if speed > MaxSpeed {
		return MaxSpeed
	}
	return speed
}

// Tick advances the game by one drawing: it generates a fresh independent
// sample, buys and scores every ticket of every player in join order, and
// transitions to the terminal jackpot state if anyone matched everything.
// Returns ErrJackpot after the game has ended and ErrNotRunning while idle.
func (s *Session) Tick() (Drawing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateJackpot:
		return Drawing{}, ErrJackpot
	case StateRunning:
	default:
		return Drawing{}, ErrNotRunning
	}
	if len(s.players) == 0 {
		return Drawing{}, ErrNotRunning
	}

	whites, pb := s.cfg.Source.Draw()
	sort.Ints(whites[:])
	d := Drawing{
		Seq:       s.drawCount + 1,
		Whites:    whites,
		Powerball: pb,
		DrawnAt:   time.Now(),
	}
	// A broken source is a programming error; abort before any scoring.
	d.checkDistinct()
	s.drawCount++
	s.latest = &d
	s.recent = append(s.recent, d)
	if len(s.recent) > recentKept {
		s.recent = s.recent[len(s.recent)-recentKept:]
	}

	for _, pid := range s.joinOrder {
		p := s.players[pid]
		if _, hitJackpot := p.settle(d, s.cfg.Prizes, s.cfg.TicketCost); hitJackpot {
			s.state = StateJackpot
			s.jackpotWinner = p.Name
			s.lastJackpotDraws = s.drawCount
			s.lastJackpotWinner = p.Name
		}
	}
	return d, nil
}

// Snapshot is the read-only view handed to the rendering and HTTP layers.
type Snapshot struct {
	State             State        `json:"state"`
	Running           bool         `json:"running"`
	DrawCount         uint64       `json:"draw_count"`
	Speed             int          `json:"speed"`
	Latest            *Drawing     `json:"latest,omitempty"`
	Recent            []Drawing    `json:"recent,omitempty"`
	Players           []PlayerView `json:"players"`
	PlayerCount       int          `json:"player_count"`
	JackpotWinner     string       `json:"jackpot_winner,omitempty"`
	LastJackpotDraws  uint64       `json:"last_jackpot_draws"`
	LastJackpotWinner string       `json:"last_jackpot_winner,omitempty"`
}

// Snapshot copies the current state out under the lock; callers own the
// result and may serialize it without further coordination.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	players := make([]PlayerView, 0, len(s.joinOrder))
	for _, pid := range s.joinOrder {
		players = append(players, s.players[pid].view(now))
	}

	var latest *Drawing
	if s.latest != nil {
		d := *s.latest
		latest = &d
	}
	recent := make([]Drawing, len(s.recent))
	copy(recent, s.recent)

	return Snapshot{
		State:             s.state,
		Running:           s.state == StateRunning,
		DrawCount:         s.drawCount,
		Speed:             s.speed,
		Latest:            latest,
		Recent:            recent,
		Players:           players,
		PlayerCount:       len(players),
		JackpotWinner:     s.jackpotWinner,
		LastJackpotDraws:  s.lastJackpotDraws,
		LastJackpotWinner: s.lastJackpotWinner,
	}
}
