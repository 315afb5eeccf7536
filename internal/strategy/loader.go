package strategy

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/traefik/yaegi/interp"

	"GambleBench/internal/model"
)

// markerFile is ignored when looking for a strategy in a directory.
const markerFile = "doc.go"

// FindStrategyFile returns the first .go file in dir, in directory listing order,
// skipping the marker file and test files.
func FindStrategyFile(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("read strategy dir: %w", err)
	}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".go") {
			continue
		}
		if name == markerFile || strings.HasSuffix(name, "_test.go") {
			continue
		}
		return filepath.Join(dir, name), nil
	}
	return "", fmt.Errorf("%w in %s", ErrNoStrategyFile, dir)
}

// Loaded is a strategy instance living inside its own interpreter.
type Loaded struct {
	File       string
	name       string
	author     string
	playResult string
	play       func(float64, int, model.History) (model.Gamble, bool)
}

// Load validates the strategy source at path and, only if it passes, evaluates it
// in an isolated interpreter and constructs the Strategy.
func Load(path string) (*Loaded, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read strategy: %w", err)
	}
	filename := filepath.Base(path)

	f, err := Validate(filename, src)
	if err != nil {
		return nil, err
	}
	sh, err := inspectShape(filename, f)
	if err != nil {
		return nil, err
	}

	i := interp.New(interp.Options{
		Stdin:  strings.NewReader(""),
		Stdout: io.Discard,
		Stderr: io.Discard,
	})
	if err := i.Use(Symbols()); err != nil {
		return nil, fmt.Errorf("install symbols: %w", err)
	}
	if _, err := i.Eval(string(src)); err != nil {
		return nil, fmt.Errorf("evaluate %s: %w", filename, err)
	}

	qual := sh.pkg + "."
	if sh.pkg == "main" {
		qual = ""
	}
	ctor := "&" + qual + "Strategy{}"
	if sh.hasCtor {
		ctor = qual + "NewStrategy()"
	}

	glue := []string{
		`import gbtypes "` + TypesImportPath + `"`,
		"var gbStrategy = " + ctor,
		`func gbPlay(b float64, r int, h gbtypes.History) (gbtypes.Gamble, bool) {
	var out interface{} = gbStrategy.Play(b, r, h)
	g, ok := out.(gbtypes.Gamble)
	return g, ok
}`,
	}
	for _, stmt := range glue {
		if _, err := i.Eval(stmt); err != nil {
			return nil, fmt.Errorf("construct Strategy in %s: %w", filename, err)
		}
	}

	v, err := i.Eval("gbPlay")
	if err != nil {
		return nil, fmt.Errorf("bind Strategy.Play in %s: %w", filename, err)
	}
	play, ok := v.Interface().(func(float64, int, model.History) (model.Gamble, bool))
	if !ok {
		return nil, fmt.Errorf("bind Strategy.Play in %s: unexpected type %T", filename, v.Interface())
	}

	l := &Loaded{File: path, playResult: sh.playResult, play: play}
	if sh.nameField {
		l.name = evalString(i, "gbStrategy.Name")
	}
	if sh.authorField {
		l.author = evalString(i, "gbStrategy.Author")
	}
	return l, nil
}

func evalString(i *interp.Interpreter, expr string) string {
	v, err := i.Eval(expr)
	if err != nil || !v.IsValid() {
		return ""
	}
	s, _ := v.Interface().(string)
	return s
}

// Play implements model.Strategy. A panic inside the strategy is returned as an error.
func (l *Loaded) Play(balance float64, roundsLeft int, history model.History) (g model.Gamble, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("strategy panicked: %v", r)
		}
	}()
	g, ok := l.play(balance, roundsLeft, history)
	if !ok {
		return model.Gamble{}, fmt.Errorf("%w: expected Gamble, got %s", model.ErrInvalidGambleType, l.playResult)
	}
	return g, nil
}

func (l *Loaded) Name() string   { return l.name }
func (l *Loaded) Author() string { return l.author }
