package csvsource

import (
	"encoding/csv"
	"io"

	"github.com/c9s/tspipe/pkg/pipeline"
)

var _ pipeline.Source = (*CSVValueReader)(nil)

// CSVValueReader decodes one numeric value per CSV record through a
// pluggable decoder. It implements pipeline.Source; the csv package's io.EOF
// passes through untouched as the end-of-sequence signal, while decode
// failures surface as errors on the record they occur.
type CSVValueReader struct {
	csv     *csv.Reader
	decoder CSVValueDecoder
}

// NewCSVValueReader creates a reader decoding the first column of each
// record.
func NewCSVValueReader(csv *csv.Reader) *CSVValueReader {
	return &CSVValueReader{
		csv:     csv,
		decoder: ColumnDecoder(0),
	}
}

// NewCSVValueReaderWithDecoder creates a reader with the given decoder.
func NewCSVValueReaderWithDecoder(csv *csv.Reader, decoder CSVValueDecoder) *CSVValueReader {
	return &CSVValueReader{
		csv:     csv,
		decoder: decoder,
	}
}

// Poll reads and decodes the next value from the underlying CSV data.
func (r *CSVValueReader) Poll() (float64, error) {
	rec, err := r.csv.Read()
	if err != nil {
		return 0, err
	}

	return r.decoder(rec)
}

// ReadAll drains all remaining values at once.
func (r *CSVValueReader) ReadAll() ([]float64, error) {
	var vs []float64
	for {
		v, err := r.Poll()
		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, err
		}

		vs = append(vs, v)
	}

	return vs, nil
}

func (r *CSVValueReader) Name() string { return "csv" }
