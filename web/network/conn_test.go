package network

import (
	"errors"
	"io"
	"net"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConnShutdownOnce(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	assert.Nil(t, err)
	defer ln.Close()

	accepted := make(chan net.Conn, 1)
	go func() {
		c, _ := ln.Accept()
		accepted <- c
	}()

	client, err := net.Dial("tcp", ln.Addr().String())
	assert.Nil(t, err)
	defer client.Close()

	conn := NewConn(<-accepted)
	assert.Equal(t, client.LocalAddr().String(), conn.RemoteAddr().String())
	assert.Nil(t, conn.Shutdown())
	assert.Nil(t, conn.Shutdown())

	_, err = client.Read(make([]byte, 1))
	assert.Equal(t, io.EOF, err)
}

func TestConnReadTimeout(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()

	conn := NewConn(server)
	assert.Nil(t, conn.SetReadTimeout(20*time.Millisecond))
	_, err := conn.Read(make([]byte, 1))
	assert.True(t, errors.Is(err, os.ErrDeadlineExceeded))

	assert.Nil(t, conn.SetReadTimeout(0))
	go func() {
		_, _ = client.Write([]byte("x"))
	}()
	buf := make([]byte, 1)
	n, err := conn.Read(buf)
	assert.Nil(t, err)
	assert.Equal(t, 1, n)
	assert.Nil(t, conn.Shutdown())
}
