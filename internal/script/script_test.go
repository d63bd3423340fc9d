package script

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/quill/internal/command"
	"github.com/dshills/quill/internal/command/builtin"
	"github.com/dshills/quill/internal/state"
)

const sample = `
doc: "hello"
stored_marks:
  - type: bold
steps:
  - name: probe
    mode: can
    commands:
      - name: deleteSelection
      - name: insertText
        args: ["!"]
  - name: edit
    mode: chain
    commands:
      - name: insertAt
        args: [5, " world"]
      - name: setSelection
        args: [0, 5]
  - name: type
    commands:
      - name: insertText
        args: ["HELLO"]
      - name: deleteRange
        args: [99, 100]
  - name: dry run
    mode: can-chain
    commands:
      - name: insertText
        args: ["x"]
`

func newRunner(t *testing.T) *Runner {
	t.Helper()
	reg := command.NewRegistry()
	require.NoError(t, builtin.Register(reg))
	return NewRunner(reg)
}

func TestParse(t *testing.T) {
	s, err := Parse([]byte(sample))
	require.NoError(t, err)

	require.Len(t, s.Steps, 4)
	assert.Equal(t, ModeCan, s.Steps[0].Mode)
	assert.Equal(t, ModeImmediate, s.Steps[2].Mode)
	assert.Equal(t, []any{5, " world"}, s.Steps[1].Commands[0].Args)
	assert.Equal(t, []state.Mark{{Type: "bold"}}, s.StoredMarks)
	assert.Equal(t, []string{"deleteSelection", "insertText", "insertAt", "setSelection", "deleteRange"}, s.Names())
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"syntax", "steps: [unclosed"},
		{"mode", "steps:\n  - mode: sometimes\n"},
		{"missing name", "steps:\n  - commands:\n      - args: [1]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.in))
			assert.ErrorIs(t, err, ErrInvalidScript)
		})
	}
}

func TestRun(t *testing.T) {
	s, err := Parse([]byte(sample))
	require.NoError(t, err)

	report, err := newRunner(t).Run(context.Background(), s)
	require.NoError(t, err)
	require.Len(t, report.Steps, 4)

	probe := report.Steps[0]
	assert.False(t, probe.OK)
	assert.Equal(t, []bool{false, true}, probe.Results)
	assert.Equal(t, 0, probe.Dispatched)
	assert.Equal(t, "hello", probe.Doc)

	edit := report.Steps[1]
	assert.True(t, edit.OK)
	assert.Equal(t, 1, edit.Dispatched)
	assert.Equal(t, "hello world", edit.Doc)

	typed := report.Steps[2]
	assert.False(t, typed.OK)
	assert.Equal(t, []bool{true, false}, typed.Results)
	assert.Equal(t, 2, typed.Dispatched)
	assert.Equal(t, "HELLO world", typed.Doc)

	dry := report.Steps[3]
	assert.True(t, dry.OK)
	assert.Equal(t, 0, dry.Dispatched)

	assert.Equal(t, "HELLO world", report.Doc)
	assert.Equal(t, uint64(3), report.Version)
	assert.False(t, report.OK())
}

func TestRunUnknownCommand(t *testing.T) {
	s, err := Parse([]byte("steps:\n  - commands:\n      - name: nope\n"))
	require.NoError(t, err)

	_, err = newRunner(t).Run(context.Background(), s)
	assert.ErrorIs(t, err, ErrUnknownCommand)
}

func TestRunCancelled(t *testing.T) {
	s, err := Parse([]byte(sample))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := newRunner(t).Run(ctx, s)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, report.Steps)
}

func TestReportWrite(t *testing.T) {
	s, err := Parse([]byte(sample))
	require.NoError(t, err)
	report, err := newRunner(t).Run(context.Background(), s)
	require.NoError(t, err)

	var b strings.Builder
	require.NoError(t, report.Write(&b))

	out := b.String()
	assert.Contains(t, out, "probe")
	assert.Contains(t, out, `doc: "HELLO world"`)
	assert.Contains(t, out, "version: 3")
}

func TestWatchRerunsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "script.yaml")
	write := func(doc string) {
		content := "doc: " + doc + "\nsteps:\n  - commands:\n      - name: insertText\n        args: [\"!\"]\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	write("one")

	var (
		mu   sync.Mutex
		docs []string
	)
	onRun := func(r *Report, err error) {
		mu.Lock()
		defer mu.Unlock()
		if err == nil {
			docs = append(docs, r.Doc)
		}
	}
	seen := func() []string {
		mu.Lock()
		defer mu.Unlock()
		return append([]string(nil), docs...)
	}

	runner := newRunner(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- runner.Watch(ctx, path, onRun, WithDebounce(20*time.Millisecond))
	}()

	require.Eventually(t, func() bool { return len(seen()) == 1 }, 5*time.Second, 10*time.Millisecond)
	write("two")
	require.Eventually(t, func() bool {
		d := seen()
		return len(d) >= 2 && d[len(d)-1] == "two!"
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	assert.Equal(t, "one!", seen()[0])
}
