package progress

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"sensei/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Modes(t *testing.T) {
	var buf bytes.Buffer

	tests := []struct {
		mode    string
		want    any
		wantErr bool
	}{
		{models.ProgressNone, Nop{}, false},
		{models.ProgressLog, &Log{}, false},
		{models.ProgressBar, &Bar{}, false},
		{models.ProgressAuto, &Log{}, false}, // a buffer is never a terminal
		{"", &Log{}, false},
		{"fancy", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			reporter, err := New(tt.mode, &buf, nil)
			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.IsType(t, tt.want, reporter)
		})
	}
}

func TestLog_ReportsStartProgressAndFinish(t *testing.T) {
	var buf bytes.Buffer

	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tracker := NewLog(logger).Start("a/x.txt", 1000)
	for range 10 {
		tracker.Add(100)
	}

	tracker.Finish()

	out := buf.String()
	assert.Contains(t, out, "Transfer started")
	assert.Contains(t, out, "file=a/x.txt")
	assert.Equal(t, 10, strings.Count(out, "Transfer progress"))
	assert.Contains(t, out, "Transfer finished")
	assert.Contains(t, out, `bytes="1000 B"`)
}

func TestLog_Abort(t *testing.T) {
	var buf bytes.Buffer

	logger := slog.New(slog.NewTextHandler(&buf, nil))

	tracker := NewLog(logger).Start("a/x.txt", 1000)
	tracker.Add(300)
	tracker.Abort()

	out := buf.String()
	assert.Contains(t, out, "Transfer aborted")
	assert.Contains(t, out, `bytes="300 B"`)
	assert.NotContains(t, out, "Transfer finished")
}

func TestBar_AbortKeepsPosition(t *testing.T) {
	var buf bytes.Buffer

	tracker := NewBar(&buf).Start("x.txt", 1000)
	tracker.Add(100)
	tracker.Abort()

	assert.NotContains(t, buf.String(), "100%")
}

func TestLog_UnknownSize(t *testing.T) {
	var buf bytes.Buffer

	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tracker := NewLog(logger).Start("blob", -1)
	tracker.Add(5000)
	tracker.Finish()

	out := buf.String()
	assert.Contains(t, out, `size="unknown size"`)
	assert.NotContains(t, out, "Transfer progress")
}

func TestBar_WritesToWriter(t *testing.T) {
	var buf bytes.Buffer

	tracker := NewBar(&buf).Start("x.txt", 2048)
	tracker.Add(1024)
	tracker.Add(1024)
	tracker.Finish()

	assert.Contains(t, buf.String(), "x.txt")
}

func TestNop(t *testing.T) {
	tracker := Nop{}.Start("x", 10)
	tracker.Add(10)
	tracker.Finish()
	tracker.Abort()
}
