package game

import (
	"fmt"
	"time"
)

// Player holds one participant's tickets and cumulative results. All fields
// are guarded by the session mutex; players are never shared outside it,
// only copied out as PlayerView snapshots.
type Player struct {
	ID          string
	Name        string
	Tickets     []Ticket
	TicketCount int64
	Spent       int64
	Winnings    int64
	LastMatches int
	LastPB      bool
	LastPrize   int64
	BestMatches int
	BestPB      bool
	NearMisses  int64 // 5 white matches without the Powerball
	JackpotWins int64
	JoinedAt    time.Time
}

// settle performs one tick's pass for this player: every ticket is bought
// once ($ticketCost) and scored against the drawing. Returns the total
// payout won this tick and whether any ticket hit the jackpot.
func (p *Player) settle(d Drawing, prizes PrizeTable, ticketCost int64) (int64, bool) {
	var won int64
	hitJackpot := false
	for _, t := range p.Tickets {
		matches, pb := t.MatchCount(d)
		prize := prizes.Payout(matches, pb)

		p.TicketCount++
		p.Spent += ticketCost
		p.Winnings += prize
		p.LastMatches, p.LastPB = matches, pb
		p.LastPrize = prize

		if matches > p.BestMatches || (matches == p.BestMatches && pb && !p.BestPB) {
			p.BestMatches, p.BestPB = matches, pb
		}
		switch {
		case matches == WhiteBallCount && pb:
			p.JackpotWins++
			hitJackpot = true
		case matches == WhiteBallCount:
			p.NearMisses++
		}
		won += prize
	}
	return won, hitJackpot
}

// PlayerView is the read-only copy of a player exposed by Snapshot.
type PlayerView struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Tickets     []Ticket `json:"tickets"`
	TicketCount int64    `json:"ticket_count"`
	Spent       int64    `json:"spent"`
	Winnings    int64    `json:"winnings"`
	Net         int64    `json:"net"`
	LastMatches int      `json:"last_matches"`
	LastPB      bool     `json:"last_powerball"`
	LastPrize   int64    `json:"last_prize"`
	BestMatches int      `json:"best_matches"`
	BestPB      bool     `json:"best_powerball"`
	NearMisses  int64    `json:"near_misses"`
	JackpotWins int64    `json:"jackpot_wins"`
	Elapsed     string   `json:"elapsed_time"`
}

func (p *Player) view(now time.Time) PlayerView {
	tickets := make([]Ticket, len(p.Tickets))
	copy(tickets, p.Tickets)
	return PlayerView{
		ID:          p.ID,
		Name:        p.Name,
		Tickets:     tickets,
		TicketCount: p.TicketCount,
		Spent:       p.Spent,
		Winnings:    p.Winnings,
		Net:         p.Winnings - p.Spent,
		LastMatches: p.LastMatches,
		LastPB:      p.LastPB,
		LastPrize:   p.LastPrize,
		BestMatches: p.BestMatches,
		BestPB:      p.BestPB,
		NearMisses:  p.NearMisses,
		JackpotWins: p.JackpotWins,
		Elapsed:     formatElapsed(now.Sub(p.JoinedAt)),
	}
}

func formatElapsed(d time.Duration) string {
	total := int(d.Seconds())
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	switch {
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}
