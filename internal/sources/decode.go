package sources

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"golang.org/x/sync/errgroup"
)

const maxParallelDecodes = 16

var extraneousWhitespace = regexp.MustCompile(`\s+`)

// DecodeAll reads every handle concurrently and returns the documents in
// selection order. The first failure cancels the rest and is returned as a
// *ReadError; no partial result is returned.
func DecodeAll(ctx context.Context, handles []Handle) ([]Document, error) {
	docs := make([]Document, len(handles))
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(maxParallelDecodes)
	for i, handle := range handles {
		i, handle := i, handle
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return &ReadError{Name: handle.Name, Err: err}
			}
			content, err := Decode(handle)
			if err != nil {
				return &ReadError{Name: handle.Name, Err: err}
			}
			docs[i] = Document{Name: handle.Name, Content: content}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}

// Decode reads a single handle as text. PDFs are reduced to their plain text;
// anything else is read like a browser text read: a leading UTF-8 BOM is
// dropped and each maximal invalid subsequence becomes one U+FFFD.
func Decode(handle Handle) (string, error) {
	if strings.EqualFold(filepath.Ext(handle.Path), ".pdf") {
		return decodePDF(handle.Path)
	}
	data, err := os.ReadFile(handle.Path)
	if err != nil {
		return "", err
	}
	return strings.TrimPrefix(toValidText(data), "\uFEFF"), nil
}

// toValidText replaces invalid UTF-8 the way the WHATWG decoder does: one
// U+FFFD per maximal subpart of an ill-formed sequence, so "\xff\xfe" yields
// two replacements and a truncated "\xe2\x82" yields one.
func toValidText(data []byte) string {
	var b strings.Builder
	b.Grow(len(data))
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			b.WriteRune(utf8.RuneError)
			data = data[invalidPrefixLen(data):]
			continue
		}
		b.Write(data[:size])
		data = data[size:]
	}
	return b.String()
}

// invalidPrefixLen is the length of the ill-formed prefix of data: the lead
// byte plus any continuation bytes that were still acceptable for it.
func invalidPrefixLen(data []byte) int {
	lead := data[0]
	lo, hi := byte(0x80), byte(0xBF)
	var need int
	switch {
	case lead >= 0xC2 && lead <= 0xDF:
		need = 1
	case lead == 0xE0:
		need, lo = 2, 0xA0
	case lead == 0xED:
		need, hi = 2, 0x9F
	case lead >= 0xE1 && lead <= 0xEF:
		need = 2
	case lead == 0xF0:
		need, lo = 3, 0x90
	case lead == 0xF4:
		need, hi = 3, 0x8F
	case lead >= 0xF1 && lead <= 0xF3:
		need = 3
	default:
		return 1
	}
	n := 1
	for n <= need && n < len(data) && data[n] >= lo && data[n] <= hi {
		lo, hi = 0x80, 0xBF
		n++
	}
	return n
}

func decodePDF(path string) (string, error) {
	file, reader, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	content, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}

	var builder strings.Builder
	if _, err := io.Copy(&builder, content); err != nil {
		return "", err
	}
	return strings.TrimSpace(extraneousWhitespace.ReplaceAllString(builder.String(), " ")), nil
}
