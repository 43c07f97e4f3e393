package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		give    string
		want    zapcore.Level
		wantErr bool
	}{
		{name: "empty defaults to info", give: "", want: zapcore.InfoLevel},
		{name: "debug", give: "debug", want: zapcore.DebugLevel},
		{name: "upper case warn", give: "WARN", want: zapcore.WarnLevel},
		{name: "invalid", give: "loud", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseLevel(tt.give)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfig_New(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		giveCfg  Config
		wantErr  string
		wantName string
	}{
		{name: "console", giveCfg: Config{Level: zapcore.DebugLevel, Encoding: EncodingConsole}},
		{name: "json", giveCfg: Config{Level: zapcore.InfoLevel, Encoding: EncodingJSON}},
		{name: "empty encoding", giveCfg: Config{}},
		{name: "unknown encoding", giveCfg: Config{Encoding: "xml"}, wantErr: "unsupported log encoding"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			lggr, err := tt.giveCfg.New()
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, lggr)
		})
	}
}

func TestNamed(t *testing.T) {
	t.Parallel()

	lggr, logs := TestObserved(t, zapcore.DebugLevel)
	child := Named(lggr, "move.compiler")

	child.Debugw("compiler output", "line", "BUILDING AptosGame")

	assert.Equal(t, "move.compiler", child.Name())
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "move.compiler", logs.All()[0].LoggerName)
}

func TestNamed_foreignLogger(t *testing.T) {
	t.Parallel()

	var l Logger = foreign{Logger: Nop()}
	assert.Equal(t, l, Named(l, "x"))
}

type foreign struct{ Logger }
