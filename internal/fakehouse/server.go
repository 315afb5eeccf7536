package fakehouse

import (
	"crypto/sha256"
	"encoding/hex"
	"math"
	"math/rand"
	"strconv"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Config tunes the fake house.
type Config struct {
	Edge       float64 // fraction kept by the house, 0.0 ~ 1.0
	FailRate   float64 // fraction of requests answered with a 503 and a non-JSON body
	ClientSeed string
}

// House is an in-memory gambling endpoint for local development.
type House struct {
	cfg        Config
	logger     zerolog.Logger
	serverSeed string

	mu    sync.Mutex
	nonce int
	rng   *rand.Rand
}

// New creates a house with a fresh random server seed.
func New(cfg Config, logger zerolog.Logger) *House {
	if cfg.ClientSeed == "" {
		cfg.ClientSeed = "gamblebench"
	}
	return &House{
		cfg:        cfg,
		logger:     logger,
		serverSeed: uuid.NewString(),
		rng:        rand.New(rand.NewSource(rand.Int63())),
	}
}

// SeedHash is the commitment to the server seed, published before any roll.
func (h *House) SeedHash() string {
	sum := sha256.Sum256([]byte(h.serverSeed))
	return hex.EncodeToString(sum[:])
}

// App builds the fiber application serving the house.
func (h *House) App() *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "seed_hash": h.SeedHash()})
	})
	app.Get("/gamble", h.handleGamble)
	return app
}

type gambleResponse struct {
	AmountBet     float64 `json:"amount_bet"`
	WinPercentage float64 `json:"win_percentage"`
	Won           bool    `json:"won"`
	AmountWon     float64 `json:"amount_won"`
	Roll          float64 `json:"roll"`
	Nonce         int     `json:"nonce"`
	Hash          string  `json:"hash"`
}

func (h *House) handleGamble(c *fiber.Ctx) error {
	bet, err := strconv.ParseFloat(c.Query("amount_bet"), 64)
	if err != nil || bet < 0 || math.IsNaN(bet) || math.IsInf(bet, 0) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "amount_bet must be a non-negative number"})
	}
	pct, err := strconv.ParseFloat(c.Query("win_percentage"), 64)
	if err != nil || !(pct > 0 && pct <= 100) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "win_percentage must be in (0, 100]"})
	}

	h.mu.Lock()
	if h.cfg.FailRate > 0 && h.rng.Float64() < h.cfg.FailRate {
		h.mu.Unlock()
		return c.Status(fiber.StatusServiceUnavailable).SendString("service unavailable")
	}
	h.nonce++
	nonce := h.nonce
	h.mu.Unlock()

	roll, hash := Roll(h.serverSeed, h.cfg.ClientSeed, nonce)
	resp := gambleResponse{
		AmountBet:     bet,
		WinPercentage: pct,
		Won:           roll < pct,
		Roll:          roll,
		Nonce:         nonce,
		Hash:          hash,
	}
	if resp.Won {
		resp.AmountWon = Payout(bet, pct, h.cfg.Edge)
	}
	h.logger.Debug().Float64("amount_bet", bet).Float64("win_percentage", pct).Float64("roll", roll).
		Bool("won", resp.Won).Msg("gamble settled")
	return c.JSON(resp)
}
