package transport

import (
	"bytes"
	"compress/gzip"
	"fmt"
)

// Compress gzips data. The output framing is deterministic: no name,
// no modification time, default compression level.
func Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	if _, err := gw.Write(data); err != nil {
		return nil, fmt.Errorf("transport: gzip compress: %w", err)
	}
	if err := gw.Close(); err != nil {
		return nil, fmt.Errorf("transport: gzip close: %w", err)
	}
	return buf.Bytes(), nil
}
