package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewOptions(t *testing.T) {
	o := NewOptions()
	assert.Equal(t, "default", o.Name)
	assert.Equal(t, "0.0.0.0:80", o.Addr)
	assert.Equal(t, "tcp", o.Network)
	assert.Equal(t, ServerModeStandard, o.Mode)
	assert.Equal(t, "www", o.DocumentRoot)
	assert.Equal(t, "index.html", o.IndexFile)
	assert.Equal(t, 1048576, o.MaxHeaderBytes)
	assert.Equal(t, time.Duration(0), o.ReadTimeout)
	assert.Equal(t, time.Duration(0), o.IdleTimeout)
	assert.False(t, o.EnableMetrics)

	o = NewOptions(
		WithName("static"),
		WithAddr("127.0.0.1:0"),
		WithMode(ServerModeNetpoll),
		WithDocumentRoot("/srv/www"),
		WithIdleTimeout(time.Second),
		WithMetrics(true, ":9100"),
		WithStatsCron("*/5 * * * * *"),
	)
	assert.Equal(t, "static", o.Name)
	assert.Equal(t, "127.0.0.1:0", o.Addr)
	assert.Equal(t, ServerModeNetpoll, o.Mode)
	assert.Equal(t, "/srv/www", o.DocumentRoot)
	assert.Equal(t, time.Second, o.IdleTimeout)
	assert.True(t, o.EnableMetrics)
	assert.Equal(t, ":9100", o.MetricsAddr)
	assert.Equal(t, "*/5 * * * * *", o.StatsCron)
}

func TestSetDefaults(t *testing.T) {
	o := Options{Addr: "127.0.0.1:8080", MaxHeaderBytes: 512}
	assert.Nil(t, o.SetDefaults())
	assert.Equal(t, "127.0.0.1:8080", o.Addr)
	assert.Equal(t, 512, o.MaxHeaderBytes)
	assert.Equal(t, "www", o.DocumentRoot)
}

func TestUnlimitedHeaderBytes(t *testing.T) {
	o := NewOptions(WithMaxHeaderBytes(-1))
	assert.Nil(t, o.SetDefaults())
	assert.Equal(t, -1, o.MaxHeaderBytes)

	o = NewOptions(WithMaxHeaderBytes(0))
	assert.Nil(t, o.SetDefaults())
	assert.Equal(t, 1048576, o.MaxHeaderBytes)
}
