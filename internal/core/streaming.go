package core

import (
	"bufio"
	"bytes"
	"io"
)

// utf8BOM is written at the start of files saved by spreadsheet tools on Windows.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// SkipBOM returns a reader that drops a leading UTF-8 byte order mark.
// Input without a BOM passes through unchanged, including a partial BOM.
func SkipBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	head, err := br.Peek(len(utf8BOM))
	if err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	return br
}
