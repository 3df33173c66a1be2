package game

// Ticket cost and default jackpot, in whole dollars.
const (
	DefaultTicketCost    int64 = 2
	DefaultJackpotAmount int64 = 500_000_000
)

// PrizeKey identifies one row of the prize table.
type PrizeKey struct {
	Matches   int
	Powerball bool
}

// PrizeTable maps (white-match-count, powerball-match) to a fixed payout.
// It is static configuration; combinations without a row pay nothing.
type PrizeTable map[PrizeKey]int64

// DefaultPrizeTable returns the standard Powerball payout structure with the
// given jackpot value for the (5, true) row.
func DefaultPrizeTable(jackpot int64) PrizeTable {
	return PrizeTable{
		{5, true}:  jackpot,
		{5, false}: 1_000_000,
		{4, true}:  50_000,
		{4, false}: 100,
		{3, true}:  100,
		{3, false}: 7,
		{2, true}:  7,
		{1, true}:  4,
		{0, true}:  4,
	}
}

// Payout looks up the prize for a match result, 0 when unconfigured.
func (p PrizeTable) Payout(matches int, powerball bool) int64 {
	return p[PrizeKey{Matches: matches, Powerball: powerball}]
}

// Jackpot returns the configured top prize.
func (p PrizeTable) Jackpot() int64 {
	return p[PrizeKey{Matches: WhiteBallCount, Powerball: true}]
}
