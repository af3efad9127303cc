package cmd

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeCmd(t *testing.T) {
	assert.Equal(t, "serve", ServeCmd.Use)
	assert.NotNil(t, ServeCmd.Run)
}

func TestServeCmdFlags(t *testing.T) {
	assert.Equal(t, "stdio", ServeCmd.Flags().Lookup("transport").DefValue)
	assert.Equal(t, "8080", ServeCmd.Flags().Lookup("port").DefValue)
	assert.Equal(t, "", ServeCmd.Flags().Lookup("config").DefValue)
	assert.Equal(t, "false", ServeCmd.Flags().Lookup("verbose").DefValue)

	require.NoError(t, ServeCmd.ParseFlags([]string{"-t", "http", "-p", "9191", "-c", "bridge.yaml", "-v"}))

	// The init-time binds connect each flag to viper.
	assert.Equal(t, "http", viper.GetString("transport"))
	assert.Equal(t, "9191", viper.GetString("port"))
	assert.Equal(t, "bridge.yaml", viper.GetString("config"))
	assert.True(t, viper.GetBool("verbose"))
}
