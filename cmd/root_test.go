package main

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubcommandsRegistered(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"run", "status", "import", "reset"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}

func TestRunFlags(t *testing.T) {
	require.NotNil(t, runCmd.Flags().Lookup("csv"))
	offline := runCmd.Flags().Lookup("offline")
	require.NotNil(t, offline)
	assert.Equal(t, "false", offline.DefValue)
	limit := runCmd.Flags().Lookup("limit")
	require.NotNil(t, limit)
	assert.Equal(t, "0", limit.DefValue)
}

func TestResetRequiresField(t *testing.T) {
	f := resetCmd.Flags().Lookup("field")
	require.NotNil(t, f)
	assert.Equal(t, []string{"true"}, f.Annotations[cobra.BashCompOneRequiredFlag])
}
