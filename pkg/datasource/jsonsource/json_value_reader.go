package jsonsource

import (
	"bufio"
	"bytes"
	"io"

	"github.com/pkg/errors"
	"github.com/valyala/fastjson"

	"github.com/c9s/tspipe/pkg/pipeline"
)

var (
	// ErrKeyNotFound is returned when the configured key is missing from a
	// line's JSON object.
	ErrKeyNotFound = errors.New("key not found")

	// ErrNotNumeric is returned when the extracted JSON value is not a
	// number.
	ErrNotNumeric = errors.New("value is not numeric")
)

var _ pipeline.Source = (*JSONValueReader)(nil)

// JSONValueReader reads one numeric value per line of JSON. With a key, the
// value is extracted from that field of each object; without one, each line
// must be a bare number. Blank lines are skipped.
type JSONValueReader struct {
	scanner *bufio.Scanner
	parser  fastjson.Parser
	key     string
}

func NewJSONValueReader(r io.Reader, key string) *JSONValueReader {
	return &JSONValueReader{
		scanner: bufio.NewScanner(r),
		key:     key,
	}
}

// Poll parses the next line and extracts its numeric value.
func (r *JSONValueReader) Poll() (float64, error) {
	for r.scanner.Scan() {
		line := bytes.TrimSpace(r.scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		val, err := r.parser.ParseBytes(line)
		if err != nil {
			return 0, errors.Wrapf(err, "failed to parse line: %s", line)
		}

		if r.key != "" {
			val = val.Get(r.key)
			if val == nil {
				return 0, errors.Wrapf(ErrKeyNotFound, "%q in line: %s", r.key, line)
			}
		}

		f, err := val.Float64()
		if err != nil {
			return 0, errors.Wrapf(ErrNotNumeric, "%s in line: %s", val.String(), line)
		}

		return f, nil
	}

	if err := r.scanner.Err(); err != nil {
		return 0, err
	}

	return 0, io.EOF
}

func (r *JSONValueReader) Name() string { return "jsonl" }
