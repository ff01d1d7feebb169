package locfile

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// Column widths of the location-program output format.
const (
	headerFieldWidth = 10 // hypocenter lat/lon/depth, 4 decimals
	offsetFieldWidth = 8  // center deviations, 2 decimals
	matrixFieldWidth = 10 // orientation rows and semi-axes, 5 decimals

	yearWidth      = 4
	dateFieldWidth = 2

	// The header is one descriptive line, the hypocenter line, and five
	// metadata lines. Each record is a timestamp line, a deviation line,
	// and three orientation/semi-axis rows.
	headerLineCount = 7
	recordLineCount = 5
)

// ParseError reports a malformed location file. Record is the 1-based
// index of the offending record block, or 0 when the header itself is
// malformed. Line is the 1-based physical line number.
type ParseError struct {
	File   string
	Record int
	Line   int
	Detail string
}

func (e *ParseError) Error() string {
	if e.Record == 0 {
		return fmt.Sprintf("%s: line %d: header: %s", e.File, e.Line, e.Detail)
	}
	return fmt.Sprintf("%s: line %d: record %d: %s", e.File, e.Line, e.Record, e.Detail)
}

// ParseFile reads the location file at path. Missing or unreadable paths
// surface the underlying os error, so errors.Is(err, fs.ErrNotExist)
// identifies absent files.
func ParseFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening location file: %w", err)
	}
	defer f.Close()

	return Parse(f, path)
}

// Parse reads one location file from r; name is used in errors only.
// The format is strict and positional, and the first malformed line
// aborts the parse with a ParseError. A file with zero record blocks
// after the header is valid.
func Parse(r io.Reader, name string) (*File, error) {
	p := &parser{sc: bufio.NewScanner(r), name: name}

	hypo, err := p.header()
	if err != nil {
		return nil, err
	}

	f := &File{Path: name, Hypocenter: hypo}
	for {
		rec, ok, err := p.recordBlock()
		if err != nil {
			return nil, err
		}
		if !ok {
			return f, nil
		}
		f.Records = append(f.Records, rec)
	}
}

type parser struct {
	sc     *bufio.Scanner
	name   string
	line   int // physical line number of the last line read
	record int // 1-based index of the record being parsed, 0 in the header
}

// next returns the next physical line with trailing whitespace removed.
// ok is false at end of input.
func (p *parser) next() (line string, ok bool, err error) {
	if !p.sc.Scan() {
		if err := p.sc.Err(); err != nil {
			return "", false, fmt.Errorf("reading location file %s: %w", p.name, err)
		}
		return "", false, nil
	}
	p.line++
	return strings.TrimRight(p.sc.Text(), "\r\n\t "), true, nil
}

func (p *parser) errorf(format string, args ...any) error {
	return &ParseError{
		File:   p.name,
		Record: p.record,
		Line:   p.line,
		Detail: fmt.Sprintf(format, args...),
	}
}

// header consumes the seven header lines and returns the hypocenter from
// line 2. The remaining lines are free-form metadata and are ignored.
func (p *parser) header() (Hypocenter, error) {
	if _, ok, err := p.next(); err != nil {
		return Hypocenter{}, err
	} else if !ok {
		return Hypocenter{}, p.errorf("empty file")
	}

	line, ok, err := p.next()
	if err != nil {
		return Hypocenter{}, err
	}
	if !ok {
		return Hypocenter{}, p.errorf("missing hypocenter line")
	}
	vals, err := fields(line, headerFieldWidth, 3)
	if err != nil {
		return Hypocenter{}, p.errorf("hypocenter: %v", err)
	}

	for i := 3; i <= headerLineCount; i++ {
		if _, ok, err := p.next(); err != nil {
			return Hypocenter{}, err
		} else if !ok {
			return Hypocenter{}, p.errorf("truncated header: %d of %d lines", i-1, headerLineCount)
		}
	}

	return Hypocenter{LatDeg: vals[0], LonDeg: vals[1], DepthKm: vals[2]}, nil
}

// recordBlock parses the next five-line record block. ok is false when
// the input ends cleanly before another block starts. Blank lines are
// tolerated between blocks but not inside one.
func (p *parser) recordBlock() (Record, bool, error) {
	var first string
	for {
		line, ok, err := p.next()
		if err != nil {
			return Record{}, false, err
		}
		if !ok {
			return Record{}, false, nil
		}
		if strings.TrimSpace(line) != "" {
			first = line
			break
		}
	}
	p.record++

	var rec Record
	if err := p.timestamp(first, &rec); err != nil {
		return Record{}, false, err
	}

	line, err := p.blockLine(2)
	if err != nil {
		return Record{}, false, err
	}
	devs, err := fields(line, offsetFieldWidth, 3)
	if err != nil {
		return Record{}, false, p.errorf("deviations: %v", err)
	}
	rec.NorthKm, rec.EastKm, rec.DepthKm = devs[0], devs[1], devs[2]

	for row := 0; row < 3; row++ {
		line, err := p.blockLine(3 + row)
		if err != nil {
			return Record{}, false, err
		}
		vals, err := fields(line, matrixFieldWidth, 4)
		if err != nil {
			return Record{}, false, p.errorf("orientation row %d: %v", row+1, err)
		}
		rec.Orientation[row] = [3]float64{vals[0], vals[1], vals[2]}
		rec.SemiAxesKm[row] = vals[3]
	}

	return rec, true, nil
}

// blockLine reads line n (1-based) of the current record block.
func (p *parser) blockLine(n int) (string, error) {
	line, ok, err := p.next()
	if err != nil {
		return "", err
	}
	if !ok {
		return "", p.errorf("truncated record: %d of %d lines", n-1, recordLineCount)
	}
	if strings.TrimSpace(line) == "" {
		return "", p.errorf("blank line inside record block")
	}
	return line, nil
}

// timestamp parses YYYY-MM-DD-HH:MM-SS.SS. The trailing seconds field
// carries the event magnitude in this format.
func (p *parser) timestamp(line string, rec *Record) error {
	parts := strings.FieldsFunc(strings.TrimSpace(line), func(r rune) bool {
		return r == '-' || r == ':'
	})
	if len(parts) != 6 {
		return p.errorf("timestamp: expected 6 dash/colon separated fields, found %d", len(parts))
	}

	ints := []struct {
		name  string
		tok   string
		width int
		dst   *int
	}{
		{"year", parts[0], yearWidth, &rec.Year},
		{"month", parts[1], dateFieldWidth, &rec.Month},
		{"day", parts[2], dateFieldWidth, &rec.Day},
		{"hour", parts[3], dateFieldWidth, &rec.Hour},
		{"minute", parts[4], dateFieldWidth, &rec.Minute},
	}
	for _, f := range ints {
		if len(f.tok) > f.width {
			return p.errorf("timestamp: %s %q wider than %d digits", f.name, f.tok, f.width)
		}
		v, err := strconv.Atoi(f.tok)
		if err != nil {
			return p.errorf("timestamp: invalid %s %q", f.name, f.tok)
		}
		*f.dst = v
	}

	mag, err := strconv.ParseFloat(parts[5], 64)
	if err != nil || math.IsNaN(mag) || math.IsInf(mag, 0) {
		return p.errorf("timestamp: invalid magnitude field %q", parts[5])
	}
	rec.Magnitude = mag

	return nil
}

// fields tokenizes a line of fixed-width decimal fields. Each field is at
// most width non-space characters, so fields printed at maximum width may
// abut the next one with no separating space; scanning is width-capped
// rather than whitespace-split for exactly that case. Lines that cannot
// be consumed as count such fields, including lines with leftover
// content, are rejected rather than guessed at.
func fields(line string, width, count int) ([]float64, error) {
	vals := make([]float64, 0, count)
	i := 0
	for f := 0; f < count; f++ {
		for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
			i++
		}
		start := i
		for i < len(line) && i-start < width && line[i] != ' ' && line[i] != '\t' {
			i++
		}
		if i == start {
			return nil, fmt.Errorf("expected %d fields, found %d", count, f)
		}
		tok := line[start:i]
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, fmt.Errorf("field %d: invalid number %q", f+1, tok)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("field %d: non-finite value %q", f+1, tok)
		}
		vals = append(vals, v)
	}
	for ; i < len(line); i++ {
		if line[i] != ' ' && line[i] != '\t' {
			return nil, fmt.Errorf("unexpected trailing content %q", strings.TrimSpace(line[i:]))
		}
	}
	return vals, nil
}
