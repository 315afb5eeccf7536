package house

import (
	"context"

	"GambleBench/internal/model"
)

// DefaultURL is the public gamble endpoint.
const DefaultURL = "https://stake-api-b79578c75931.herokuapp.com/gamble"

// House settles a single gamble.
type House interface {
	Gamble(ctx context.Context, g model.Gamble) (*model.GambleOutcome, error)
	Name() string
}
