package dataset

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gocarina/gocsv"
	"golang.org/x/text/encoding/charmap"
)

// WriteCSV writes rows (with header) to path, creating parent directories.
func WriteCSV[T any](path string, rows []T) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := gocsv.MarshalFile(&rows, f); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// ReadCSV loads a file produced by WriteCSV.
func ReadCSV[T any](path string) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []T
	if err := gocsv.UnmarshalFile(f, &out); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return out, nil
}

// UnmarshalRemote decodes a downloaded CSV after checking that every required
// column is present. Bytes that are not valid UTF-8 are read as Latin-1.
func UnmarshalRemote[T any](b []byte, required ...string) ([]T, error) {
	b = DecodeText(b)
	hdr, err := Header(b)
	if err != nil {
		return nil, err
	}
	if err := RequireColumns(hdr, required...); err != nil {
		return nil, err
	}
	var out []T
	if err := gocsv.UnmarshalBytes(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DecodeText returns b as UTF-8, converting from ISO-8859-1 when needed.
func DecodeText(b []byte) []byte {
	b = bytes.TrimPrefix(b, []byte("\xef\xbb\xbf"))
	if utf8.Valid(b) {
		return b
	}
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
	if err != nil {
		return b
	}
	return out
}

// Header reads the first record of a CSV document.
func Header(b []byte) ([]string, error) {
	r := csv.NewReader(bytes.NewReader(b))
	r.FieldsPerRecord = -1
	hdr, err := r.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty csv")
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	return hdr, nil
}

// HasColumn reports whether name is in hdr (case-insensitive).
func HasColumn(hdr []string, name string) bool {
	return colIndex(hdr, name) >= 0
}

// RequireColumns fails with the list of absent columns.
func RequireColumns(hdr []string, names ...string) error {
	var missing []string
	for _, n := range names {
		if colIndex(hdr, n) < 0 {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("required columns missing (%s); have: %v", strings.Join(missing, ", "), hdr)
	}
	return nil
}

func colIndex(hdr []string, name string) int {
	for i, h := range hdr {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i
		}
	}
	return -1
}
