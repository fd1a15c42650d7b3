package csvsource

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrNotEnoughColumns is returned when a record has no column at the
	// configured index.
	ErrNotEnoughColumns = errors.New("not enough columns")

	// ErrNotNumeric is returned when the selected column cannot be parsed as
	// a float.
	ErrNotNumeric = errors.New("value is not numeric")
)

// CSVValueDecoder is an extension point for CSVValueReader to support
// custom record layouts.
type CSVValueDecoder func(record []string) (float64, error)

// ColumnDecoder decodes the value at the given zero-based column index.
func ColumnDecoder(column int) CSVValueDecoder {
	return func(record []string) (float64, error) {
		if column < 0 || column >= len(record) {
			return 0, errors.Wrapf(ErrNotEnoughColumns, "column %d of %d", column, len(record))
		}

		v, err := strconv.ParseFloat(strings.TrimSpace(record[column]), 64)
		if err != nil {
			return 0, errors.Wrapf(ErrNotNumeric, "%q", record[column])
		}

		return v, nil
	}
}
