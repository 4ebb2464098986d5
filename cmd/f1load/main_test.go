package main

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/f1load/internal/config"
)

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name    string
		raw     []string
		want    args
		wantErr string
	}{
		{name: "race weekend", raw: []string{"5", "false"}, want: args{Round: 5}},
		{name: "sprint weekend", raw: []string{"6", "true"}, want: args{Round: 6, Sprint: true}},
		{name: "sprint as digit", raw: []string{"6", "1"}, want: args{Round: 6, Sprint: true}},
		{name: "zero round", raw: []string{"0", "false"}, wantErr: "round"},
		{name: "word round", raw: []string{"five", "false"}, wantErr: "round"},
		{name: "bad sprint", raw: []string{"5", "maybe"}, wantErr: "sprint"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseArgs(tt.raw)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRootCmd(t *testing.T) {
	cfg := &config.Config{Loader: config.LoaderConfig{CSVFolder: "csv"}}
	cmd := newRootCmd(cfg)

	assert.Error(t, cmd.Args(cmd, []string{"5"}))
	assert.NoError(t, cmd.Args(cmd, []string{"5", "true"}))

	require.NoError(t, cmd.Flags().Set("csv-dir", "/data/2024"))
	assert.Equal(t, "/data/2024", cfg.Loader.CSVFolder)
}

// captureLogs redirects the default logger to a buffer for the test.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestExecuteLogsUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "missing sprint", args: []string{"3"}, want: "accepts 2 arg(s), received 1"},
		{name: "bad round", args: []string{"0", "true"}, want: "round must be a positive integer"},
		{name: "unknown flag", args: []string{"--year", "2024", "3", "true"}, want: "unknown flag: --year"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logs := captureLogs(t)
			cmd := newRootCmd(&config.Config{})
			cmd.SetArgs(tt.args)

			assert.Equal(t, 1, execute(context.Background(), cmd))
			assert.Contains(t, logs.String(), "f1load failed")
			assert.Contains(t, logs.String(), tt.want)
		})
	}
}

func TestExecuteDoesNotRelogRunFailures(t *testing.T) {
	logs := captureLogs(t)
	cmd := &cobra.Command{
		Use:           "f1load",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(*cobra.Command, []string) error {
			return &loggedError{errors.New("stage lap_times: boom")}
		},
	}
	cmd.SetArgs([]string{})

	assert.Equal(t, 1, execute(context.Background(), cmd))
	assert.Empty(t, logs.String())
}

func TestExecuteSuccess(t *testing.T) {
	cmd := &cobra.Command{Use: "f1load", RunE: func(*cobra.Command, []string) error { return nil }}
	cmd.SetArgs([]string{})
	assert.Equal(t, 0, execute(context.Background(), cmd))
}
