package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeader(t *testing.T) {
	h := Header{}
	h.Set("Host", "a")
	h.Set("host", "b")
	h.Set("Host", "c")

	assert.Equal(t, 2, h.Len())
	assert.Equal(t, "c", h.Get("Host"))
	assert.Equal(t, "b", h.Get("host"))

	_, ok := h.Lookup("HOST")
	assert.False(t, ok)

	c := h.Clone()
	c.Del("Host")
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, 2, h.Len())

	h.Set("Accept", "*/*")
	assert.Equal(t, []string{"Accept", "Host", "host"}, h.SortedKeys())
}

func TestParseVersion(t *testing.T) {
	tests := []struct {
		proto string
		want  Version
		ok    bool
	}{
		{"HTTP/1.1", HTTP11, true},
		{"HTTP/1.0", HTTP10, true},
		{"HTTP/1", HTTP10, true},
		{"HTTP/2.0", Version{Major: 2}, true},
		{"HTTP/x.y", Version{}, false},
		{"HTTP/1.", Version{}, false},
		{"HTTP/.9", Version{}, false},
		{"HTTP/-1.1", Version{}, false},
		{"HTTP", Version{}, false},
		{"HTTP/", Version{}, false},
		{"HTTP/1.1/2", Version{}, false},
	}
	for _, tt := range tests {
		v, err := ParseVersion(tt.proto)
		if tt.ok {
			assert.Nil(t, err, tt.proto)
			assert.Equal(t, tt.want, v, tt.proto)
		} else {
			assert.ErrorIs(t, err, ErrMalformedVersion, tt.proto)
		}
	}
	assert.Equal(t, "1.1", HTTP11.String())
}

func TestRequestImmutable(t *testing.T) {
	h := Header{"Connection": "keep-alive"}
	r := NewRequest(MethodGet, HTTP11, "/index.html", h)
	h.Set("Connection", "close")

	assert.Equal(t, "keep-alive", r.Get("Connection"))
	r.Header().Set("Connection", "close")
	assert.Equal(t, "keep-alive", r.Get("Connection"))
	assert.Equal(t, MethodGet, r.Method())
	assert.Equal(t, "/index.html", r.URI())
	assert.Equal(t, HTTP11, r.Version())

	r = NewRequest(MethodHead, HTTP10, "/", nil)
	assert.Equal(t, 0, r.Header().Len())
}
