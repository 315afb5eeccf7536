package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"GambleBench/internal/ledger"
	"GambleBench/internal/model"
	"GambleBench/internal/strategy"
)

func TestFormatSummary(t *testing.T) {
	ev := &model.Evaluation{
		Outcome: &model.Outcome{Balance: 2000, History: model.NewHistory([]bool{true, true})},
		Elapsed: 1500 * time.Millisecond,
		Budget:  5 * time.Minute,
		Passed:  true,
	}
	got := FormatSummary(ev)
	if !strings.HasPrefix(got, "(2000, [true, true])") {
		t.Errorf("summary should start with the outcome: %q", got)
	}
	if !strings.Contains(got, "Test passed: Execution completed in 1.50 seconds.") {
		t.Errorf("missing pass line: %q", got)
	}

	ev.Passed = false
	ev.Elapsed = 301 * time.Second
	if got := FormatSummary(ev); !strings.Contains(got, "exceeded the 5-minute limit") {
		t.Errorf("missing fail line: %q", got)
	}
}

func TestFormatError(t *testing.T) {
	rejected := &strategy.ViolationError{Kind: strategy.ErrUnauthorizedImport, File: "bad.go", Module: "os", Detail: "not allowed"}
	tests := []struct {
		err    error
		prefix string
	}{
		{rejected, "Error in strategy file: "},
		{fmt.Errorf("wrapped: %w", rejected), "Error in strategy file: "},
		{&strategy.ViolationError{Kind: strategy.ErrForbiddenOperation, File: "noisy.go", Detail: "print"}, "Error in strategy file: "},
		{errors.New("connection refused"), "Error occurred during test execution: "},
		{fmt.Errorf("round 3: %w", model.ErrInvalidGambleType), "Error occurred during test execution: "},
	}
	for _, tt := range tests {
		got := FormatError(tt.err)
		if !strings.HasPrefix(got, tt.prefix) || !strings.HasSuffix(got, tt.err.Error()) {
			t.Errorf("FormatError(%v) = %q, want prefix %q", tt.err, got, tt.prefix)
		}
	}
}

func TestFormatReport(t *testing.T) {
	ev := &model.Evaluation{
		ID:           "abc",
		StrategyFile: "strategies/fixed.go",
		Author:       "<script>",
		Outcome:      &model.Outcome{Balance: 1100},
		Stats:        model.TrajectoryStats{RoundsPlayed: 10, WinRate: 0.6, ReturnOnInitial: 0.1},
		Passed:       true,
		Budget:       5 * time.Minute,
	}
	got := FormatReport(ev)
	if !strings.Contains(got, "fixed.go") || !strings.Contains(got, "+10.0%") {
		t.Errorf("unexpected report: %s", got)
	}
	if strings.Contains(got, "<script>") {
		t.Error("author must be escaped")
	}

	ev.Err = errors.New("round 3: invalid gamble type")
	if got := FormatReport(ev); !strings.Contains(got, "Aborted") {
		t.Errorf("expected aborted report, got %s", got)
	}
}

func TestFormatSnapshot(t *testing.T) {
	if got := FormatSnapshot(nil); !strings.Contains(got, "No evaluation") {
		t.Errorf("unexpected empty snapshot text: %s", got)
	}
	got := FormatSnapshot(&ledger.Snapshot{StrategyFile: "s/a.go", Balance: 900, History: []bool{true, false, false}})
	if !strings.Contains(got, "Settled: 3 (wins 1)") {
		t.Errorf("unexpected snapshot text: %s", got)
	}
}

func TestTelegramNotify(t *testing.T) {
	var mu sync.Mutex
	var got []sendMessageRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/bottoken/sendMessage") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var p sendMessageRequest
		_ = json.NewDecoder(r.Body).Decode(&p)
		mu.Lock()
		defer mu.Unlock()
		got = append(got, p)
	}))
	defer srv.Close()

	n := NewTelegramNotifier("token", "42", "", zerolog.Nop())
	n.BaseURL = srv.URL
	if err := n.Notify(context.Background(), Message{Text: "<b>hi</b>", HTML: true, Silent: true}); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if err := n.Notify(context.Background(), Message{Text: "plain"}); err != nil {
		t.Fatalf("notify: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	want := []sendMessageRequest{
		{ChatID: "42", Text: "<b>hi</b>", ParseMode: "HTML", DisableNotification: true},
		{ChatID: "42", Text: "plain"},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d requests, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("request %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestTelegramNotifyRetries(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
		}
	}))
	defer srv.Close()

	n := NewTelegramNotifier("token", "42", "", zerolog.Nop())
	n.BaseURL = srv.URL
	n.Backoff = time.Millisecond
	if err := n.Notify(context.Background(), Message{Text: "hello"}); err != nil {
		t.Fatalf("expected success on third attempt, got %v", err)
	}

	n.MaxRetries = 0
	mu.Lock()
	calls = 0
	mu.Unlock()
	if err := n.Notify(context.Background(), Message{Text: "hello"}); err == nil {
		t.Fatal("expected failure with no retries left")
	}
}

func TestTelegramNotifyCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	n := NewTelegramNotifier("token", "42", "", zerolog.Nop())
	n.BaseURL = srv.URL
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := n.Notify(ctx, Message{Text: "hello"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestReportMessage(t *testing.T) {
	ev := &model.Evaluation{Outcome: &model.Outcome{Balance: 1000}, Passed: true}
	if msg := ReportMessage(ev); !msg.HTML || !msg.Silent {
		t.Errorf("passing report should be silent HTML, got %+v", msg)
	}
	ev.Passed = false
	if msg := ReportMessage(ev); msg.Silent {
		t.Error("failing report must not be silent")
	}
	if msg := ErrorMessage(errors.New("boom")); msg.HTML || !strings.Contains(msg.Text, "boom") {
		t.Errorf("unexpected error message: %+v", msg)
	}
}

func TestPollDispatchesCommands(t *testing.T) {
	var sent []string
	var mu sync.Mutex
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/getUpdates") {
			_, _ = w.Write([]byte(`{"ok":true,"result":[{"update_id":7,"message":{"text":" /last "}},{"update_id":8}]}`))
			return
		}
		var p map[string]string
		_ = json.NewDecoder(r.Body).Decode(&p)
		mu.Lock()
		sent = append(sent, p["text"])
		mu.Unlock()
	}))
	defer srv.Close()

	n := NewTelegramNotifier("token", "42", "", zerolog.Nop())
	n.BaseURL = srv.URL
	var cmds []string
	next, err := n.poll(context.Background(), srv.Client(), 0, func(cmd string) string {
		cmds = append(cmds, cmd)
		return "reply to " + cmd
	})
	if err != nil {
		t.Fatalf("poll: %v", err)
	}
	if next != 9 {
		t.Errorf("expected next offset 9, got %d", next)
	}
	if len(cmds) != 1 || cmds[0] != "/last" {
		t.Errorf("unexpected commands: %v", cmds)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(sent) != 1 || sent[0] != "reply to /last" {
		t.Errorf("unexpected replies: %v", sent)
	}
}
