package http1

import (
	"errors"
	"testing"

	"github.com/caiflower/tinyhttp/web/protocol"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestParseRequest(t *testing.T) {
	raw := "GET /index.html HTTP/1.1\r\nHost: localhost:8080\r\nConnection: keep-alive\r\nX-Empty: \r\n\r\n"
	req, err := ParseRequest([]byte(raw))
	assert.Nil(t, err)
	assert.Equal(t, protocol.MethodGet, req.Method())
	assert.Equal(t, "/index.html", req.URI())
	assert.Equal(t, protocol.HTTP11, req.Version())
	assert.Equal(t, "localhost:8080", req.Get("Host"))
	assert.Equal(t, "keep-alive", req.Get("Connection"))
	v, ok := req.Lookup("X-Empty")
	assert.True(t, ok)
	assert.Equal(t, "", v)
	want := protocol.Header{"Host": "localhost:8080", "Connection": "keep-alive", "X-Empty": ""}
	if diff := cmp.Diff(want, req.Header()); diff != "" {
		t.Errorf("header mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRequestNoHeaders(t *testing.T) {
	req, err := ParseRequest([]byte("HEAD / HTTP/1.0\r\n\r\n"))
	assert.Nil(t, err)
	assert.Equal(t, protocol.MethodHead, req.Method())
	assert.Equal(t, protocol.HTTP10, req.Version())
	assert.Equal(t, 0, req.Header().Len())

	// 没有终止符也可以解析
	req, err = ParseRequest([]byte("DELETE relative HTTP/1"))
	assert.Nil(t, err)
	assert.Equal(t, "relative", req.URI())
	assert.Equal(t, protocol.HTTP10, req.Version())
}

func TestParseRequestHeaderValue(t *testing.T) {
	req, err := ParseRequest([]byte("GET / HTTP/1.1\r\nX-Time: 12: 30\r\nX-Time: 13: 00\r\n\r\n"))
	assert.Nil(t, err)
	// 只按第一个": "分割，后出现的同名字段覆盖
	assert.Equal(t, "13: 00", req.Get("X-Time"))
	assert.Equal(t, 1, req.Header().Len())
}

func TestParseRequestErrors(t *testing.T) {
	tests := []struct {
		raw  string
		want error
	}{
		{"\r\n\r\n", protocol.ErrMalformedRequestLine},
		{"GET /\r\n\r\n", protocol.ErrMalformedRequestLine},
		{"GET  / HTTP/1.1\r\n\r\n", protocol.ErrMalformedRequestLine},
		{"GET / HTTP/1.1 extra\r\n\r\n", protocol.ErrMalformedRequestLine},
		{"GET / HTTP/one\r\n\r\n", protocol.ErrMalformedVersion},
		{"GET / HTTP1.1\r\n\r\n", protocol.ErrMalformedVersion},
		{"GET / HTTP/1.1\r\nHost:localhost\r\n\r\n", protocol.ErrMalformedHeader},
		{"FETCH / HTTP/1.1\r\n\r\n", protocol.ErrUnknownMethod},
		{"get / HTTP/1.1\r\n\r\n", protocol.ErrUnknownMethod},
	}
	for _, tt := range tests {
		req, err := ParseRequest([]byte(tt.raw))
		assert.Nil(t, req, tt.raw)
		assert.True(t, errors.Is(err, tt.want), "%q: %v", tt.raw, err)
	}

	_, err := ParseRequest([]byte("GET / HTTP/1.1\r\nBadLine\r\n\r\n"))
	var pe *protocol.ParseError
	assert.True(t, errors.As(err, &pe))
	assert.Equal(t, "BadLine", pe.Detail)
}
