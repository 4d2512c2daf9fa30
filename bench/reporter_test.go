package bench

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReporter_Output(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf, FormatDuration)

	require.NoError(t, r.Banner(1000))
	require.NoError(t, r.Result(Result{Label: "Raw", Elapsed: 1234 * time.Microsecond}))
	require.NoError(t, r.Footer())

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Dependency injection benchmark (1000 iterations)", lines[0])
	assert.Equal(t, strings.Repeat("=", 53), lines[1])
	assert.Equal(t, "Raw : 1.234ms", lines[2])
	assert.Equal(t, lines[1], lines[3])
}

func TestReporter_ClockFormat(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf, FormatClock)

	require.NoError(t, r.Result(Result{Label: "vessel (BeginScope)", Elapsed: 1500 * time.Millisecond}))
	assert.Equal(t, "vessel (BeginScope) : 00:00:01.5000000\n", buf.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed pipe") }

func TestReporter_WriteError(t *testing.T) {
	r := NewReporter(failingWriter{}, "")
	err := r.Banner(1)
	assert.ErrorIs(t, err, ErrReportFailed)
	assert.ErrorContains(t, err, "closed pipe")
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		name   string
		d      time.Duration
		format ElapsedFormat
		want   string
	}{
		{"clock fraction", 1500 * time.Millisecond, FormatClock, "00:00:01.5000000"},
		{"clock zero", 0, FormatClock, "00:00:00"},
		{"clock days", 26 * time.Hour, FormatClock, "1.02:00:00"},
		{"clock 100ns", 1234567800 * time.Nanosecond, FormatClock, "00:00:01.2345678"},
		{"clock minutes", 61*time.Minute + 5*time.Second, FormatClock, "01:01:05"},
		{"duration", 1500 * time.Millisecond, FormatDuration, "1.5s"},
		{"unknown falls back", 2 * time.Second, ElapsedFormat("ticks"), "2s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatElapsed(tt.d, tt.format))
		})
	}
}
