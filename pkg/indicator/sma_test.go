package indicator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/stat"

	"github.com/c9s/tspipe/pkg/pipeline"
)

/*
python:

import pandas as pd

s = pd.Series([1, 2, 3, 4, 5])
print(s.rolling(3, min_periods=1).mean())

0    1.0
1    1.5
2    2.0
3    3.0
4    4.0
dtype: float64
*/
func TestSMA(t *testing.T) {
	input := []float64{1, 2, 3, 4, 5}
	want := []float64{1, 1.5, 2, 3, 4}

	sma, err := NewSMA(3)
	assert.NoError(t, err)

	for i, v := range input {
		out := sma.Apply(pipeline.NewValue(v))
		assert.True(t, out.Valid)
		assert.InDelta(t, want[i], out.Float64, 1e-9, "index %d", i)
	}
}

func TestSMAGrowingWindowIsPlainMean(t *testing.T) {
	input := []float64{4, 8, 15, 16, 23, 42}

	sma, err := NewSMA(len(input))
	assert.NoError(t, err)

	for i, v := range input {
		out := sma.Apply(pipeline.NewValue(v))
		assert.True(t, out.Valid)
		assert.InDelta(t, stat.Mean(input[:i+1], nil), out.Float64, 1e-9, "index %d", i)
	}
}

func TestSMAIgnoresGaps(t *testing.T) {
	sma, err := NewSMA(2)
	assert.NoError(t, err)

	// no input yet, no estimate
	assert.False(t, sma.Apply(pipeline.Missing).Valid)

	assert.Equal(t, 1.0, sma.Apply(pipeline.NewValue(1)).Float64)

	// a gap leaves the window untouched and re-emits the current mean
	out := sma.Apply(pipeline.Missing)
	assert.True(t, out.Valid)
	assert.Equal(t, 1.0, out.Float64)

	assert.Equal(t, 2.0, sma.Apply(pipeline.NewValue(3)).Float64)
}

func TestSMAValidation(t *testing.T) {
	_, err := NewSMA(0)
	assert.Error(t, err)

	_, err = NewSMA(-3)
	assert.Error(t, err)
}
