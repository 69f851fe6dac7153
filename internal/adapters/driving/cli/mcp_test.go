package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMCPServeCmd_PortFlag(t *testing.T) {
	flag := mcpServeCmd.Flags().Lookup("port")
	require.NotNil(t, flag)
	assert.Equal(t, "p", flag.Shorthand)
	assert.Equal(t, "0", flag.DefValue)
}

func TestMCPServeCmd_InvalidPort(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	defer func() { _ = mcpServeCmd.Flags().Set("port", "0") }()

	_, _, err := execute(t, "", "mcp", "serve", "--port", "70000")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "port must be between")
}

func TestMCPServeCmd_MissingServices(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	transformService = nil

	_, _, err := execute(t, "", "mcp", "serve")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "validating ports")
}
