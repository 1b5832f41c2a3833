package host

import (
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/kardianos/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thand-io/components/internal/config"
)

// testConfig listens on a free loopback port and points the client at a
// stub backend.
func testConfig(t *testing.T, port int) *config.Config {
	t.Helper()

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	}))
	t.Cleanup(backend.Close)

	cfg := config.DefaultConfig()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = port
	cfg.API.BaseURL = backend.URL
	cfg.Session.Secret = "0123456789abcdef0123456789abcdef"
	return cfg
}

func freePort(t *testing.T) int {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()
	return listener.Addr().(*net.TCPAddr).Port
}

func TestProgramStartStop(t *testing.T) {
	cfg := testConfig(t, freePort(t))

	client, err := cfg.NewAPIClient()
	require.NoError(t, err)

	program := NewProgram(cfg, client)
	require.NoError(t, program.Start(nil))
	assert.True(t, program.Running())

	resp, err := http.Get("http://127.0.0.1:" + strconv.Itoa(cfg.Server.Port) + cfg.Server.Health.Path)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, program.Stop(nil))
	assert.False(t, program.Running())

	// Stopping twice is a no-op.
	require.NoError(t, program.Stop(nil))
}

func TestProgramStartPortInUse(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()

	cfg := testConfig(t, listener.Addr().(*net.TCPAddr).Port)

	client, err := cfg.NewAPIClient()
	require.NoError(t, err)

	program := NewProgram(cfg, client)
	assert.Error(t, program.Start(nil))
	assert.False(t, program.Running())
}

func TestServiceConfig(t *testing.T) {
	tests := []struct {
		name       string
		configFile string
		expected   []string
	}{
		{name: "defaults", expected: []string{"server"}},
		{name: "config file", configFile: "/etc/components/config.yaml", expected: []string{"server", "--config", "/etc/components/config.yaml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svcConfig, err := ServiceConfig(tt.configFile)
			require.NoError(t, err)
			assert.Equal(t, ServiceName, svcConfig.Name)
			assert.Equal(t, tt.expected, svcConfig.Arguments)
			assert.NotEmpty(t, svcConfig.Executable)
		})
	}
}

func TestStatusText(t *testing.T) {
	assert.Equal(t, "Running", StatusText(service.StatusRunning))
	assert.Equal(t, "Stopped", StatusText(service.StatusStopped))
	assert.Equal(t, "Unknown", StatusText(service.StatusUnknown))
}
