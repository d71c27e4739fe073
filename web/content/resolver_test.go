package content

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/caiflower/tinyhttp/web/protocol"
	"github.com/stretchr/testify/assert"
)

var pngData = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0x00, 0x00, 0x00, 0x0d, 'I', 'H', 'D', 'R', 0x00, 0xff}

func testFS() MapFileSystem {
	return MapFileSystem{
		"www/index.html":  []byte("<!DOCTYPE html><html><body>hello</body></html>"),
		"www/logo.png":    pngData,
		"www/notes.txt":   []byte("plain notes\n"),
		"www/sub/a.txt":   []byte("nested"),
		"www/broken.txt":  []byte("ok\xff\xfe"),
		"www/blob.bin":    {0x00, 0x07, 0x13, 0x05, 0x1f},
		"secret/keys.txt": []byte("top secret"),
	}
}

type stubSniffer struct {
	mime string
	text bool
	err  error
}

func (s stubSniffer) Classify([]byte) (string, bool, error) {
	return s.mime, s.text, s.err
}

func TestResolveIndex(t *testing.T) {
	r := NewResolver("www", WithFileSystem(testFS()))

	res, err := r.Resolve("/")
	assert.Nil(t, err)
	assert.True(t, strings.HasPrefix(res.MIME, "text/html"), res.MIME)
	assert.Equal(t, protocol.PayloadText, res.Payload.Kind())
	assert.Equal(t, len(testFS()["www/index.html"]), res.ContentLength)

	res, err = r.Resolve("/sub/a.txt?v=1")
	assert.Nil(t, err)
	assert.Equal(t, "nested", res.Payload.Text())
}

func TestResolveBinary(t *testing.T) {
	r := NewResolver("www", WithFileSystem(testFS()))

	res, err := r.Resolve("/logo.png")
	assert.Nil(t, err)
	assert.Equal(t, "image/png", res.MIME)
	assert.Equal(t, protocol.PayloadBinary, res.Payload.Kind())
	assert.Equal(t, pngData, res.Payload.Binary())
	assert.Equal(t, len(pngData), res.ContentLength)
}

func TestResolveNotFound(t *testing.T) {
	r := NewResolver("www", WithFileSystem(testFS()))

	for _, uri := range []string{"/missing.html", "/../secret/keys.txt", "/sub/../../secret/keys.txt", "index.html", "", "/sub/"} {
		_, err := r.Resolve(uri)
		assert.True(t, errors.Is(err, ErrNotFound), uri)
	}
}

func TestResolveConversionFailed(t *testing.T) {
	r := NewResolver("www", WithFileSystem(testFS()), WithSniffer(stubSniffer{mime: "text/plain", text: true}))

	_, err := r.Resolve("/broken.txt")
	assert.True(t, errors.Is(err, ErrConversionFailed))
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestResolveUnclassified(t *testing.T) {
	r := NewResolver("www", WithFileSystem(testFS()), WithSniffer(stubSniffer{err: errors.New("no match")}))
	_, err := r.Resolve("/notes.txt")
	assert.True(t, errors.Is(err, ErrUnclassified))

	r = NewResolver("www", WithFileSystem(testFS()), WithSniffer(MimeSniffer{Strict: true}))
	_, err = r.Resolve("/notes.txt")
	assert.Nil(t, err)
	_, err = r.Resolve("/blob.bin")
	assert.True(t, errors.Is(err, ErrUnclassified))
}

func TestResolveCustomIndex(t *testing.T) {
	r := NewResolver("www", WithFileSystem(testFS()), WithIndexFile("notes.txt"))
	res, err := r.Resolve("/")
	assert.Nil(t, err)
	assert.Equal(t, "plain notes\n", res.Payload.Text())
}

func TestResolveCache(t *testing.T) {
	fs := testFS()
	r := NewResolver("www", WithFileSystem(fs), WithCache(time.Minute))

	_, err := r.Resolve("/notes.txt")
	assert.Nil(t, err)
	assert.Equal(t, 1, r.CacheLen())

	delete(fs, "www/notes.txt")
	res, err := r.Resolve("/notes.txt")
	assert.Nil(t, err)
	assert.Equal(t, "plain notes\n", res.Payload.Text())

	_, err = r.Resolve("/missing")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, 1, r.CacheLen())
}

func TestResolveOSFileSystem(t *testing.T) {
	dir := t.TempDir()
	assert.Nil(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html><body>disk</body></html>"), 0644))

	r := NewResolver(dir)
	assert.Equal(t, dir, r.Root())
	res, err := r.Resolve("/")
	assert.Nil(t, err)
	assert.Equal(t, protocol.PayloadText, res.Payload.Kind())
	assert.Equal(t, 0, r.CacheLen())
}

func TestMimeSniffer(t *testing.T) {
	s := MimeSniffer{}

	mime, text, err := s.Classify([]byte("hello world"))
	assert.Nil(t, err)
	assert.True(t, text)
	assert.True(t, strings.HasPrefix(mime, "text/plain"))

	mime, text, err = s.Classify(pngData)
	assert.Nil(t, err)
	assert.False(t, text)
	assert.Equal(t, "image/png", mime)

	mime, text, err = s.Classify([]byte(`{"a": 1}`))
	assert.Nil(t, err)
	assert.True(t, text)
	assert.Equal(t, "application/json", mime)
}
