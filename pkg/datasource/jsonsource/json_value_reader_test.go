package jsonsource

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJSONValueReader_BareNumbers(t *testing.T) {
	input := "1.5\n\n  2.5\n3\n"

	reader := NewJSONValueReader(strings.NewReader(input), "")

	for _, want := range []float64{1.5, 2.5, 3} {
		v, err := reader.Poll()
		assert.NoError(t, err)
		assert.Equal(t, want, v)
	}

	_, err := reader.Poll()
	assert.ErrorIs(t, err, io.EOF)
}

func TestJSONValueReader_ObjectKey(t *testing.T) {
	input := strings.Join([]string{
		`{"time": "2021-01-01T00:00:00Z", "price": 28923.63}`,
		`{"time": "2021-01-01T00:01:00Z", "price": 28995.13}`,
	}, "\n")

	reader := NewJSONValueReader(strings.NewReader(input), "price")

	v, err := reader.Poll()
	assert.NoError(t, err)
	assert.Equal(t, 28923.63, v)

	v, err = reader.Poll()
	assert.NoError(t, err)
	assert.Equal(t, 28995.13, v)

	_, err = reader.Poll()
	assert.ErrorIs(t, err, io.EOF)
}

func TestJSONValueReader_Errors(t *testing.T) {
	t.Run("missing key", func(t *testing.T) {
		reader := NewJSONValueReader(strings.NewReader(`{"price": 1.0}`), "close")

		_, err := reader.Poll()
		assert.ErrorIs(t, err, ErrKeyNotFound)
	})

	t.Run("not numeric", func(t *testing.T) {
		reader := NewJSONValueReader(strings.NewReader(`{"price": "high"}`), "price")

		_, err := reader.Poll()
		assert.ErrorIs(t, err, ErrNotNumeric)
	})

	t.Run("invalid json", func(t *testing.T) {
		reader := NewJSONValueReader(strings.NewReader("{price:"), "price")

		_, err := reader.Poll()
		assert.Error(t, err)
	})
}
