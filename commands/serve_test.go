package commands

import (
	"testing"

	"github.com/penwyp/go-vessel-trail/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeCommandFlags(t *testing.T) {
	listen := serveCmd.Flags().Lookup("listen")
	require.NotNil(t, listen)
	assert.Equal(t, "127.0.0.1", listen.DefValue)

	port := serveCmd.Flags().Lookup("port")
	require.NotNil(t, port)
	assert.Equal(t, "8080", port.DefValue)
}

func TestBuildServeConfig(t *testing.T) {
	resetFlags(t)
	defer resetFlags(t)

	displayMode = "dark"
	servePort = 9090
	config, err := buildServeConfig()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9090", config.Addr())
	assert.Equal(t, model.ModeDark, config.Mode)
	assert.Equal(t, "", config.DataPath)

	servePort = 70000
	_, err = buildServeConfig()
	assert.ErrorContains(t, err, "out of range")

	servePort = 8080
	displayMode = "sepia"
	_, err = buildServeConfig()
	assert.ErrorContains(t, err, "invalid display mode")
}
