package model

// Strategy maps the state of a trajectory to the next bet.
type Strategy interface {
	Play(balance float64, roundsLeft int, history History) (Gamble, error)
}

// Describer is implemented by strategies that carry descriptive metadata.
type Describer interface {
	Name() string
	Author() string
}

// StrategyFunc adapts an ordinary function to the Strategy interface.
type StrategyFunc func(balance float64, roundsLeft int, history History) (Gamble, error)

func (f StrategyFunc) Play(balance float64, roundsLeft int, history History) (Gamble, error) {
	return f(balance, roundsLeft, history)
}
