package loader

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
)

// Source is anything that can produce mesh bytes. The core never cares
// whether the bytes come from disk, the network, or memory; it only
// ever sees decoded vertex buffers.
type Source interface {
	// Open returns a reader over the raw mesh bytes.
	Open() (io.ReadCloser, error)
	// Name is used for format sniffing (extension) and display.
	Name() string
}

// FileSource reads mesh bytes from a local path.
type FileSource string

func (f FileSource) Open() (io.ReadCloser, error) {
	return os.Open(string(f))
}

func (f FileSource) Name() string {
	return string(f)
}

// URLSource fetches mesh bytes over HTTP(S).
type URLSource string

func (u URLSource) Open() (io.ReadCloser, error) {
	resp, err := http.Get(string(u))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch %s: unexpected status %s", string(u), resp.Status)
	}
	return resp.Body, nil
}

func (u URLSource) Name() string {
	return string(u)
}

// ByteSource serves an in-memory buffer, mainly for tests and the
// script pipeline.
type ByteSource struct {
	Label string
	Data  []byte
}

func (b ByteSource) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(b.Data)), nil
}

func (b ByteSource) Name() string {
	return b.Label
}
