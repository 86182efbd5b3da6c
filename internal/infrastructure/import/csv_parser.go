// Package csvimport loads field surveys of poles from CSV files.
package csvimport

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Source encodings reported by Parser.Encoding
const (
	EncodingUTF8        = "utf-8"
	EncodingWindows1252 = "windows-1252"
)

// sniffWindow is how much of the file decides its encoding
const sniffWindow = 4096

var (
	// ErrEmptyFile is returned when the CSV file is empty
	ErrEmptyFile = errors.New("CSV file is empty")

	// ErrInvalidEncoding is returned for a row that is not valid UTF-8 when
	// the start of the file was detected as UTF-8
	ErrInvalidEncoding = errors.New("CSV row is not valid UTF-8")

	// ErrMissingHeader is returned when the CSV file has no header row
	ErrMissingHeader = errors.New("CSV file missing header row")
)

// Parser reads a headed CSV file row by row. Header names are matched
// case-insensitively.
type Parser struct {
	reader   *csv.Reader
	headers  []string
	index    map[string]int
	line     int
	encoding string
}

// ParserOption configures a Parser
type ParserOption func(*csv.Reader)

// WithDelimiter sets the field delimiter (default is comma). Survey
// spreadsheets exported with a Spanish locale use ';'.
func WithDelimiter(d rune) ParserOption {
	return func(r *csv.Reader) {
		r.Comma = d
	}
}

// NewParser strips a UTF-8 BOM and reads the header row. Files whose first
// block is not UTF-8 are decoded as Windows-1252, the default of
// Spanish-locale Excel exports.
func NewParser(r io.Reader, opts ...ParserOption) (*Parser, error) {
	buf := bufio.NewReaderSize(r, sniffWindow)

	if bom, err := buf.Peek(3); err == nil && bom[0] == 0xEF && bom[1] == 0xBB && bom[2] == 0xBF {
		_, _ = buf.Discard(3)
	}

	head, err := buf.Peek(sniffWindow)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, fmt.Errorf("read file: %w", err)
	}
	if len(head) == 0 {
		return nil, ErrEmptyFile
	}
	if len(head) == sniffWindow {
		head = trimPartialRune(head)
	}

	var src io.Reader = buf
	encoding := EncodingUTF8
	if !utf8.Valid(head) {
		src = transform.NewReader(buf, charmap.Windows1252.NewDecoder())
		encoding = EncodingWindows1252
	}

	reader := csv.NewReader(src)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	for _, opt := range opts {
		opt(reader)
	}

	p := &Parser{reader: reader, index: make(map[string]int), encoding: encoding}
	record, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrMissingHeader
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	p.line = 1
	for i, h := range record {
		h = strings.ToLower(strings.TrimSpace(h))
		p.headers = append(p.headers, h)
		if _, dup := p.index[h]; !dup {
			p.index[h] = i
		}
	}
	return p, nil
}

// Encoding returns the detected source encoding
func (p *Parser) Encoding() string {
	return p.encoding
}

// Headers returns the normalized header names
func (p *Parser) Headers() []string {
	return p.headers
}

// Missing returns the required headers that are not present
func (p *Parser) Missing(required ...string) []string {
	var missing []string
	for _, h := range required {
		if _, ok := p.index[h]; !ok {
			missing = append(missing, h)
		}
	}
	return missing
}

// Row is a data row with its line number in the file
type Row struct {
	Line int
	data map[string]string
}

// Get returns the trimmed value under header, or "" when absent
func (r *Row) Get(header string) string {
	return r.data[header]
}

// IsEmpty reports whether every cell is blank
func (r *Row) IsEmpty() bool {
	for _, v := range r.data {
		if v != "" {
			return false
		}
	}
	return true
}

// Next returns the next row or io.EOF
func (p *Parser) Next() (*Row, error) {
	record, err := p.reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, io.EOF
	}
	if err != nil {
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			p.line = perr.Line
		}
		return nil, err
	}
	// csv.Reader skips blank lines, so take the physical line from the reader
	p.line, _ = p.reader.FieldPos(0)

	row := &Row{Line: p.line, data: make(map[string]string, len(p.headers))}
	for header, i := range p.index {
		if i >= len(record) {
			continue
		}
		if !utf8.ValidString(record[i]) {
			return nil, ErrInvalidEncoding
		}
		row.data[header] = strings.TrimSpace(record[i])
	}
	return row, nil
}

// trimPartialRune drops a multi-byte sequence cut by the peek window
func trimPartialRune(b []byte) []byte {
	for i := 1; i < utf8.UTFMax && !utf8.Valid(b); i++ {
		if r, _ := utf8.DecodeLastRune(b); r != utf8.RuneError {
			break
		}
		b = b[:len(b)-1]
	}
	return b
}
