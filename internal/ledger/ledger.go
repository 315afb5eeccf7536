package ledger

import (
	"sync"

	"github.com/shopspring/decimal"

	"GambleBench/internal/model"
)

// Ledger tracks balance and settled results for one trajectory.
// Balance arithmetic is decimal so that repeated debits and credits do not drift.
type Ledger struct {
	mu      sync.Mutex
	balance decimal.Decimal
	results []bool
	rounds  []model.RoundResult
}

// New creates a ledger holding the initial balance. capacity pre-sizes the history.
func New(initialBalance float64, capacity int) *Ledger {
	if capacity < 0 {
		capacity = 0
	}
	return &Ledger{
		balance: decimal.NewFromFloat(initialBalance),
		results: make([]bool, 0, capacity),
		rounds:  make([]model.RoundResult, 0, capacity),
	}
}

// Balance returns the current balance.
func (l *Ledger) Balance() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balance.InexactFloat64()
}

// Debit removes a bet from the balance before it is settled.
func (l *Ledger) Debit(amount float64) {
	l.mu.Lock()
	l.balance = l.balance.Sub(decimal.NewFromFloat(amount))
	l.mu.Unlock()
}

// Settle credits winnings and appends the result to the history.
func (l *Ledger) Settle(won bool, amountWon float64) {
	l.mu.Lock()
	l.balance = l.balance.Add(decimal.NewFromFloat(amountWon))
	l.results = append(l.results, won)
	l.mu.Unlock()
}

// Log appends a round to the round log.
func (l *Ledger) Log(r model.RoundResult) {
	l.mu.Lock()
	l.rounds = append(l.rounds, r)
	l.mu.Unlock()
}

// History returns an immutable snapshot of the settled results.
func (l *Ledger) History() model.History {
	l.mu.Lock()
	defer l.mu.Unlock()
	return model.NewHistory(l.results)
}

// Outcome returns the ledger's current state by value.
func (l *Ledger) Outcome() *model.Outcome {
	l.mu.Lock()
	defer l.mu.Unlock()
	rounds := make([]model.RoundResult, len(l.rounds))
	copy(rounds, l.rounds)
	return &model.Outcome{
		Balance: l.balance.InexactFloat64(),
		History: model.NewHistory(l.results),
		Rounds:  rounds,
	}
}
