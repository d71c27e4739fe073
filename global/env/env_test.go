package env

import (
	"net"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnv(t *testing.T) {
	assert.NotNil(t, net.ParseIP(GetLocalHostIP()))

	old := ConfigPath
	defer SetDefaultConfigPath(old)
	SetDefaultConfigPath("/etc/tinyhttp")
	assert.Equal(t, filepath.Join("/etc/tinyhttp", "default.yaml"), ConfigFile("default.yaml"))
}
