package formatter

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"io"
	"strings"

	"github.com/kataras/kicad-xyrs/pkg/board"
)

// Write serializes the header and one row per footprint to w.
func (f *Format) Write(w io.Writer, fps []board.Footprint) error {
	records := append([][]string{f.Header()}, f.Rows(fps)...)

	if f.QuoteAll {
		return writeQuoted(w, f.Delimiter, records)
	}

	cw := csv.NewWriter(w)
	cw.Comma = f.Delimiter
	if err := cw.WriteAll(records); err != nil {
		return err
	}
	return cw.Error()
}

// Marshal returns the complete output as bytes.
func (f *Format) Marshal(fps []board.Footprint) ([]byte, error) {
	var buf bytes.Buffer
	if err := f.Write(&buf, fps); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeQuoted writes every field in double quotes; encoding/csv only
// quotes fields that need it.
func writeQuoted(w io.Writer, delim rune, records [][]string) error {
	bw := bufio.NewWriter(w)
	for _, record := range records {
		for i, field := range record {
			if i > 0 {
				bw.WriteRune(delim)
			}
			bw.WriteByte('"')
			bw.WriteString(strings.ReplaceAll(field, `"`, `""`))
			bw.WriteByte('"')
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
