package house

import (
	"context"
	"sync"

	"GambleBench/internal/model"
)

// MockHouse returns controllable fixed results for development and testing.
type MockHouse struct {
	Won       bool
	AmountWon float64
	// Err, when set, is returned for every gamble.
	Err error
	// Results, when set, is consumed in order before falling back to Won/AmountWon/Err.
	Results []MockResult

	mu    sync.Mutex
	calls []model.Gamble
}

// MockResult is one scripted house response.
type MockResult struct {
	Won       bool
	AmountWon float64
	Err       error
}

func (m *MockHouse) Name() string { return "mock" }

func (m *MockHouse) Gamble(_ context.Context, g model.Gamble) (*model.GambleOutcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, g)
	won, amount, err := m.Won, m.AmountWon, m.Err
	if len(m.Results) > 0 {
		r := m.Results[0]
		m.Results = m.Results[1:]
		won, amount, err = r.Won, r.AmountWon, r.Err
	}
	if err != nil {
		return nil, err
	}
	return &model.GambleOutcome{
		AmountBet:     g.AmountBet,
		WinPercentage: g.WinPercentage,
		Won:           won,
		AmountWon:     amount,
	}, nil
}

// Calls returns the gambles received so far.
func (m *MockHouse) Calls() []model.Gamble {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Gamble, len(m.calls))
	copy(out, m.calls)
	return out
}
