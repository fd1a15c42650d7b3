package indicator

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/floats"

	"github.com/c9s/tspipe/pkg/pipeline"
)

/*
python:

import pandas as pd
import pandas_ta as ta

s = pd.Series([1, 2, 3, 4, 5])
print(ta.fwma(s, length=3, asc=True))

0     NaN
1     NaN
2    2.25
3    3.25
4    4.25
Name: FWMA_3, dtype: float64
*/
func TestFWMA(t *testing.T) {
	fwma, err := NewFWMA(3, true)
	assert.NoError(t, err)

	assert.False(t, fwma.Apply(pipeline.NewValue(1)).Valid)
	assert.False(t, fwma.Apply(pipeline.NewValue(2)).Valid)

	out := fwma.Apply(pipeline.NewValue(3))
	assert.True(t, out.Valid)
	assert.InDelta(t, 2.25, out.Float64, 1e-9)

	assert.InDelta(t, 3.25, fwma.Apply(pipeline.NewValue(4)).Float64, 1e-9)
	assert.InDelta(t, 4.25, fwma.Apply(pipeline.NewValue(5)).Float64, 1e-9)
}

func TestFWMADescending(t *testing.T) {
	fwma, err := NewFWMA(3, false)
	assert.NoError(t, err)

	fwma.Apply(pipeline.NewValue(1))
	fwma.Apply(pipeline.NewValue(2))

	// descending weights put the heaviest weight on the oldest value
	assert.InDelta(t, 1.75, fwma.Apply(pipeline.NewValue(3)).Float64, 1e-9)
	assert.InDelta(t, 2.75, fwma.Apply(pipeline.NewValue(4)).Float64, 1e-9)
	assert.InDelta(t, 3.75, fwma.Apply(pipeline.NewValue(5)).Float64, 1e-9)
}

func TestFWMAWeightsNormalized(t *testing.T) {
	for _, window := range []int{1, 2, 3, 5, 8, 21} {
		for _, ascending := range []bool{true, false} {
			t.Run(fmt.Sprintf("window=%d ascending=%v", window, ascending), func(t *testing.T) {
				fwma, err := NewFWMA(window, ascending)
				assert.NoError(t, err)
				assert.InEpsilon(t, 1.0, floats.Sum(fwma.weights), 1e-9)
			})
		}
	}
}

func TestFWMAWeightOrder(t *testing.T) {
	asc, err := NewFWMA(5, true)
	assert.NoError(t, err)
	assert.Less(t, asc.weights[0], asc.weights[4])

	desc, err := NewFWMA(5, false)
	assert.NoError(t, err)
	assert.Greater(t, desc.weights[0], desc.weights[4])
}

func TestFWMAIgnoresGaps(t *testing.T) {
	fwma, err := NewFWMA(2, true)
	assert.NoError(t, err)

	assert.False(t, fwma.Apply(pipeline.Missing).Valid)
	assert.False(t, fwma.Apply(pipeline.NewValue(1)).Valid)

	first := fwma.Apply(pipeline.NewValue(3))
	assert.True(t, first.Valid)

	// a gap re-emits the current window's average unchanged
	repeat := fwma.Apply(pipeline.Missing)
	assert.True(t, repeat.Valid)
	assert.Equal(t, first.Float64, repeat.Float64)
}

func TestFWMAWindowOne(t *testing.T) {
	fwma, err := NewFWMA(1, true)
	assert.NoError(t, err)

	out := fwma.Apply(pipeline.NewValue(42))
	assert.True(t, out.Valid)
	assert.InDelta(t, 42.0, out.Float64, 1e-9)
}

func TestFWMAValidation(t *testing.T) {
	_, err := NewFWMA(0, true)
	assert.Error(t, err)

	_, err = NewFWMA(-1, false)
	assert.Error(t, err)
}
