package application

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/KOMKZ/go-yogan-dibench/errcode"
	"github.com/KOMKZ/go-yogan-dibench/strategy"
	"github.com/KOMKZ/go-yogan-dibench/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPrefix = "DIBENCHAPP"

func writeConfig(t *testing.T, content string) string {
	return testutil.NewCLITestContext(t, testutil.CLITestOptions{ConfigYAML: content}).ConfigDir
}

func quietConfigDir(t *testing.T) string {
	return testutil.NewCLITestContext(t, testutil.CLITestOptions{}).ConfigDir
}

func TestBenchApplication_AllStrategies(t *testing.T) {
	var out bytes.Buffer
	app, err := NewBench(quietConfigDir(t), testPrefix, WithOutput(&out))
	require.NoError(t, err)

	require.NoError(t, app.Run([]string{"10"}))
	assert.Equal(t, StateStopped, app.GetState())

	lines := resultLines(out.String())
	require.Len(t, lines, 5)
	want := []string{
		strategy.LabelRaw,
		strategy.LabelDoScoped,
		strategy.LabelVesselScoped,
		strategy.LabelDigThreadScoped,
		strategy.LabelVesselContextScoped,
	}
	for i, label := range want {
		assert.True(t, strings.HasPrefix(lines[i], label+" : "), lines[i])
		assert.NotContains(t, lines[i], "-")
	}
	assert.Contains(t, out.String(), "(10 iterations)")
}

func TestBenchApplication_DefaultCount(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"zero", []string{"0"}},
		{"no argument", nil},
		{"negative looks like flag", []string{"-1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &countingStrategy{name: "noop"}
			var out bytes.Buffer
			app, err := NewBench(quietConfigDir(t), testPrefix, WithOutput(&out), WithStrategies(s))
			require.NoError(t, err)

			require.NoError(t, app.Run(tt.args))
			assert.Equal(t, DefaultIterations, s.calls)
		})
	}
}

func TestBenchApplication_SetupFailure(t *testing.T) {
	ok := &countingStrategy{name: "ok"}
	broken := &countingStrategy{name: "broken", setupErr: strategy.ErrSetupFailed}
	after := &countingStrategy{name: "after"}
	var out bytes.Buffer

	app, err := NewBench(quietConfigDir(t), testPrefix, WithOutput(&out), WithStrategies(ok, broken, after))
	require.NoError(t, err)

	err = app.Run([]string{"2"})
	require.Error(t, err)
	assert.Equal(t, errcode.ExitConfig, errcode.ExitCode(err))
	assert.Len(t, resultLines(out.String()), 1)
	assert.Equal(t, StateStopped, app.GetState())
}

func TestBenchApplication_ElapsedFormatFromEnv(t *testing.T) {
	tc := testutil.NewCLITestContext(t, testutil.CLITestOptions{
		Env: map[string]string{testPrefix + "_BENCH__ELAPSED_FORMAT": "clock"},
	})

	app, err := NewBench(tc.ConfigDir, testPrefix,
		WithOutput(tc.Out),
		WithStrategies(&countingStrategy{name: "Raw"}))
	require.NoError(t, err)
	assert.Equal(t, "clock", app.LoadAppConfig().Bench.ElapsedFormat)

	require.NoError(t, app.Run([]string{"1"}))
	assert.Regexp(t, `Raw : \d{2}:\d{2}:\d{2}`, tc.Out.String())
}

func TestBenchApplication_EnvFileOverridesBase(t *testing.T) {
	tc := testutil.NewCLITestContext(t, testutil.CLITestOptions{
		ConfigYAML: testutil.QuietConfig + "bench:\n  elapsed_format: duration\n",
		EnvYAML:    "bench:\n  elapsed_format: clock\n",
	})

	app, err := NewBench(tc.ConfigDir, testPrefix, WithOutput(tc.Out))
	require.NoError(t, err)
	assert.Equal(t, "clock", app.LoadAppConfig().Bench.ElapsedFormat)
	assert.Len(t, app.GetConfigLoader().GetLoadedFiles(), 2)
	require.NoError(t, app.Shutdown(time.Second))
}

func TestNewBench_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"bad elapsed format", "logger:\n  enable_console: false\nbench:\n  elapsed_format: hours\n"},
		{"bad logger level", "logger:\n  enable_console: false\n  level: loud\n"},
		{"unparsable yaml", "bench: [oops\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBench(writeConfig(t, tt.yaml), testPrefix)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrConfigLoad)
			assert.Equal(t, errcode.ExitConfig, errcode.ExitCode(err))
		})
	}
}

func TestNewBench_TelemetryStartFailure(t *testing.T) {
	dir := writeConfig(t, `
logger:
  enable_console: false
telemetry:
  enabled: true
  exporter:
    type: jaeger
`)
	s := &countingStrategy{name: "noop"}
	app, err := NewBench(dir, testPrefix, WithOutput(&bytes.Buffer{}), WithStrategies(s))
	require.NoError(t, err)

	err = app.Run([]string{"1"})
	require.Error(t, err)
	assert.Equal(t, errcode.ExitConfig, errcode.ExitCode(err))
	assert.Equal(t, 0, s.setups)
}
