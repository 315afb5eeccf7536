package strategy

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"GambleBench/internal/model"
)

const fixedStrategy = `package fixed

import (
	"math"
	"math/rand"

	"gamblebench/types"
)

type Strategy struct {
	Name   string
	Author string
}

func NewStrategy() *Strategy {
	return &Strategy{Name: "fixed", Author: "tester"}
}

func (s *Strategy) Play(balance float64, roundsLeft int, history types.History) types.Gamble {
	_ = rand.Intn
	bet := math.Min(10, balance)
	if history.Len() > 0 {
		if won, _ := history.Last(); !won {
			bet = math.Min(20, balance)
		}
	}
	return types.Gamble{AmountBet: bet, WinPercentage: 50}
}
`

func writeStrategy(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatalf("write strategy: %v", err)
	}
	return path
}

func TestLoad_WellFormed(t *testing.T) {
	path := writeStrategy(t, t.TempDir(), "fixed.go", fixedStrategy)

	s, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.Name() != "fixed" || s.Author() != "tester" {
		t.Errorf("unexpected metadata: %q / %q", s.Name(), s.Author())
	}

	g, err := s.Play(1000, 99, model.History{})
	if err != nil {
		t.Fatalf("play: %v", err)
	}
	if g.AmountBet != 10 || g.WinPercentage != 50 {
		t.Errorf("unexpected gamble: %+v", g)
	}

	g, err = s.Play(1000, 98, model.NewHistory([]bool{false}))
	if err != nil {
		t.Fatalf("play after loss: %v", err)
	}
	if g.AmountBet != 20 {
		t.Errorf("expected doubled bet after a loss, got %+v", g)
	}
}

func TestLoad_ZeroValueConstructor(t *testing.T) {
	src := `package plain

import "gamblebench/types"

type Strategy struct{}

func (Strategy) Play(balance float64, roundsLeft int, history types.History) types.Gamble {
	return types.Gamble{AmountBet: 1, WinPercentage: 99}
}
`
	path := writeStrategy(t, t.TempDir(), "plain.go", src)
	s, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.Name() != "" {
		t.Errorf("expected empty name, got %q", s.Name())
	}
	g, err := s.Play(10, 0, model.History{})
	if err != nil || g.WinPercentage != 99 {
		t.Fatalf("unexpected play result %+v, err=%v", g, err)
	}
}

func TestLoad_UnauthorizedImport(t *testing.T) {
	src := strings.Replace(fixedStrategy, `"math"`, `"math"
	"os"`, 1)
	path := writeStrategy(t, t.TempDir(), "bad.go", src)

	_, err := Load(path)
	if !errors.Is(err, ErrUnauthorizedImport) {
		t.Fatalf("expected ErrUnauthorizedImport, got %v", err)
	}
	var verr *ViolationError
	if !errors.As(err, &verr) || verr.Module != "os" {
		t.Fatalf("expected violation citing os, got %v", err)
	}
	if !strings.Contains(err.Error(), `"os"`) {
		t.Errorf("error should name the module: %v", err)
	}
}

func TestLoad_ForbiddenPrint(t *testing.T) {
	src := strings.Replace(fixedStrategy, "_ = rand.Intn", `println("hello")`, 1)
	path := writeStrategy(t, t.TempDir(), "noisy.go", src)

	_, err := Load(path)
	if !errors.Is(err, ErrForbiddenOperation) {
		t.Fatalf("expected ErrForbiddenOperation, got %v", err)
	}
}

func TestLoad_MissingStrategy(t *testing.T) {
	src := `package nothing

import "gamblebench/types"

type Other struct{}

func (Other) Play(balance float64, roundsLeft int, history types.History) types.Gamble {
	return types.Gamble{}
}
`
	path := writeStrategy(t, t.TempDir(), "nothing.go", src)
	if _, err := Load(path); !errors.Is(err, ErrMissingStrategyClass) {
		t.Fatalf("expected ErrMissingStrategyClass, got %v", err)
	}
}

func TestLoad_NonGambleReturn(t *testing.T) {
	src := `package number

import "gamblebench/types"

type Strategy struct{}

func (s *Strategy) Play(balance float64, roundsLeft int, history types.History) float64 {
	return 10
}
`
	path := writeStrategy(t, t.TempDir(), "number.go", src)
	s, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	_, err = s.Play(1000, 99, model.History{})
	if !errors.Is(err, model.ErrInvalidGambleType) {
		t.Fatalf("expected ErrInvalidGambleType, got %v", err)
	}
	if !strings.Contains(err.Error(), "float64") {
		t.Errorf("error should name the returned type: %v", err)
	}
}

func TestLoad_PanicBecomesError(t *testing.T) {
	src := `package boom

import "gamblebench/types"

type Strategy struct{}

func (s *Strategy) Play(balance float64, roundsLeft int, history types.History) types.Gamble {
	if history.Len() == 0 {
		panic("no history")
	}
	return types.Gamble{}
}
`
	path := writeStrategy(t, t.TempDir(), "boom.go", src)
	s, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := s.Play(1000, 99, model.History{}); err == nil {
		t.Fatal("expected panic to surface as an error")
	}
}

func TestFindStrategyFile(t *testing.T) {
	dir := t.TempDir()
	writeStrategy(t, dir, "doc.go", "package strategies\n")
	writeStrategy(t, dir, "a_test.go", "package strategies\n")
	writeStrategy(t, dir, "notes.txt", "")
	writeStrategy(t, dir, "zeta.go", fixedStrategy)
	writeStrategy(t, dir, "alpha.go", fixedStrategy)

	got, err := FindStrategyFile(dir)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if filepath.Base(got) != "alpha.go" {
		t.Errorf("expected alpha.go, got %s", got)
	}

	empty := t.TempDir()
	writeStrategy(t, empty, "doc.go", "package strategies\n")
	if _, err := FindStrategyFile(empty); !errors.Is(err, ErrNoStrategyFile) {
		t.Errorf("expected ErrNoStrategyFile, got %v", err)
	}
}

func TestLoad_Martingale(t *testing.T) {
	s, err := Load(filepath.Join("testdata", "martingale.go"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.Name() != "martingale" {
		t.Errorf("expected name martingale, got %q", s.Name())
	}

	steps := []struct {
		history []bool
		want    float64
	}{
		{nil, 5},
		{[]bool{false}, 10},
		{[]bool{false, false}, 20},
		{[]bool{false, false, true}, 5},
	}
	for _, st := range steps {
		g, err := s.Play(1000, 100, model.NewHistory(st.history))
		if err != nil {
			t.Fatalf("play: %v", err)
		}
		if g.AmountBet != st.want || g.WinPercentage != 50 {
			t.Errorf("after %v: expected %v @ 50, got %+v", st.history, st.want, g)
		}
	}

	g, _ := s.Play(3, 10, model.NewHistory([]bool{false}))
	if g.AmountBet != 3 {
		t.Errorf("stake must be capped by balance, got %v", g.AmountBet)
	}
}

func TestLoad_MainPackageWithOwnRand(t *testing.T) {
	src := `package main

import (
	"math/rand"

	"gamblebench/types"
)

type Strategy struct {
	rng *rand.Rand
}

func NewStrategy() *Strategy {
	return &Strategy{rng: rand.New(rand.NewSource(1))}
}

func (s *Strategy) Play(balance float64, roundsLeft int, history types.History) types.Gamble {
	return types.Gamble{AmountBet: float64(1 + s.rng.Intn(5)), WinPercentage: 25}
}
`
	path := writeStrategy(t, t.TempDir(), "seeded.go", src)
	s, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	for i := 0; i < 10; i++ {
		g, err := s.Play(100, 10-i, model.History{})
		if err != nil {
			t.Fatalf("play: %v", err)
		}
		if g.AmountBet < 1 || g.AmountBet > 5 || g.WinPercentage != 25 {
			t.Errorf("unexpected gamble %+v", g)
		}
	}
}
