package ledger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"GambleBench/internal/model"
)

// Snapshot is the JSON form of the most recent evaluation.
type Snapshot struct {
	ID           string    `json:"id"`
	StrategyFile string    `json:"strategy_file"`
	StrategyName string    `json:"strategy_name,omitempty"`
	Author       string    `json:"author,omitempty"`
	Balance      float64   `json:"balance"`
	History      []bool    `json:"history"`
	ElapsedSec   float64   `json:"elapsed_seconds"`
	Passed       bool      `json:"passed"`
	Error        string    `json:"error,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewSnapshot flattens an evaluation.
func NewSnapshot(ev *model.Evaluation) *Snapshot {
	s := &Snapshot{
		ID:           ev.ID,
		StrategyFile: ev.StrategyFile,
		StrategyName: ev.StrategyName,
		Author:       ev.Author,
		ElapsedSec:   ev.Elapsed.Seconds(),
		Passed:       ev.Passed,
		History:      []bool{},
	}
	if ev.Outcome != nil {
		s.Balance = ev.Outcome.Balance
		s.History = ev.Outcome.History.Results()
	}
	if ev.Err != nil {
		s.Error = ev.Err.Error()
	}
	return s
}

// LoadSnapshot reads the last outcome from a JSON file. Returns nil if the file doesn't exist.
func LoadSnapshot(filePath string) (*Snapshot, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// SaveSnapshot writes the last outcome to a JSON file, creating parent directories.
func SaveSnapshot(filePath string, s *Snapshot) error {
	s.UpdatedAt = time.Now()
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return err
	}
	return os.WriteFile(filePath, data, 0644)
}
