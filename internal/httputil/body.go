// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"compress/gzip"
	"compress/zlib"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
)

// AcceptEncoding is the value requests advertise. Setting the header
// explicitly disables the transport's automatic gzip handling, so every
// listed encoding must be decoded by DecodeBody.
const AcceptEncoding = "gzip, deflate, br"

// DecodeBody returns a reader that decompresses resp.Body according to the
// Content-Encoding response header. The caller closes the returned reader
// when it differs from resp.Body, and resp.Body in any case.
func DecodeBody(resp *http.Response) (io.ReadCloser, error) {
	encoding := strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding")))
	switch encoding {
	case "", "identity":
		return resp.Body, nil
	case "gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("gzip reader: %w", err)
		}
		return gz, nil
	case "deflate":
		zr, err := zlib.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("deflate reader: %w", err)
		}
		return zr, nil
	case "br":
		return io.NopCloser(brotli.NewReader(resp.Body)), nil
	default:
		return nil, fmt.Errorf("unsupported content encoding %q", encoding)
	}
}
