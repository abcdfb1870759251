package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsCmd_Use(t *testing.T) {
	assert.Equal(t, "stats", statsCmd.Use)
}

func TestStatsCmd_Short(t *testing.T) {
	assert.Equal(t, "Show usage statistics", statsCmd.Short)
}

func TestStatsCmd_HasResetFlag(t *testing.T) {
	flag := statsCmd.Flags().Lookup("reset")
	require.NotNil(t, flag, "reset flag should exist")
	assert.Equal(t, "false", flag.DefValue)
}

func TestStatsCmd_Executes(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"stats"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "10 total, 9 ok, 1 failed")
	assert.Contains(t, buf.String(), "90.0%")
	assert.Contains(t, buf.String(), "1234")
}

func TestStatsCmd_ResetFlag(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	mock := questionService.(*mockQuestionService)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"stats", "--reset"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Counters reset.")
	assert.True(t, mock.reset)
}

func TestStatsCmd_ErrorsWithoutService(t *testing.T) {
	prev := questionService
	questionService = nil
	defer func() { questionService = prev }()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"stats"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "question service not configured")
}
