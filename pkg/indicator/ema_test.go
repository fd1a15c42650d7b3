package indicator

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/c9s/tspipe/pkg/pipeline"
)

/*
python:

import pandas as pd

s = pd.Series([1, 2, 3, 4, 5])
print(s.ewm(alpha=0.5, adjust=False).mean())

0    1.000000
1    1.500000
2    2.250000
3    3.125000
4    4.062500
dtype: float64
*/
func TestEMABiased(t *testing.T) {
	input := []float64{1, 2, 3, 4, 5}
	want := []float64{1, 1.5, 2.25, 3.125, 4.0625}

	ema, err := NewEMA(5, 0.5, false, false)
	assert.NoError(t, err)

	for i, v := range input {
		out := ema.Apply(pipeline.NewValue(v))
		assert.True(t, out.Valid)
		assert.InDelta(t, want[i], out.Float64, 1e-9, "index %d", i)
	}
}

/*
python:

import pandas as pd

s = pd.Series([1, 2, 3, 4, 5])
print(s.ewm(alpha=0.5, adjust=True).mean())

0    1.000000
1    1.666667
2    2.428571
3    3.266667
4    4.161290
dtype: float64
*/
func TestEMAAdjusted(t *testing.T) {
	input := []float64{1, 2, 3, 4, 5}
	want := []float64{1, 1.666667, 2.428571, 3.266667, 4.161290}

	ema, err := NewEMA(5, 0.5, false, true)
	assert.NoError(t, err)

	for i, v := range input {
		out := ema.Apply(pipeline.NewValue(v))
		assert.True(t, out.Valid)
		assert.InDelta(t, want[i], out.Float64, 1e-6, "index %d", i)
	}
}

/*
python:

import pandas as pd
import pandas_ta as ta

s = pd.Series([1, 2, 3, 4, 5])
print(ta.ema(s, length=3))

0    NaN
1    NaN
2    2.0
3    3.0
4    4.0
Name: EMA_3, dtype: float64
*/
func TestEMAWarmupSeedsFromMean(t *testing.T) {
	ema, err := NewEMA(3, 0, true, false)
	assert.NoError(t, err)

	assert.False(t, ema.Apply(pipeline.NewValue(1)).Valid)
	assert.False(t, ema.Apply(pipeline.NewValue(2)).Valid)

	out := ema.Apply(pipeline.NewValue(3))
	assert.True(t, out.Valid)
	assert.InDelta(t, 2.0, out.Float64, 1e-9)

	assert.InDelta(t, 3.0, ema.Apply(pipeline.NewValue(4)).Float64, 1e-9)
	assert.InDelta(t, 4.0, ema.Apply(pipeline.NewValue(5)).Float64, 1e-9)
}

func TestEMAWarmupCountsGaps(t *testing.T) {
	ema, err := NewEMA(3, 0, true, false)
	assert.NoError(t, err)

	// gaps advance the warm-up position but contribute nothing to the seed
	assert.False(t, ema.Apply(pipeline.Missing).Valid)
	assert.False(t, ema.Apply(pipeline.NewValue(1)).Valid)

	out := ema.Apply(pipeline.NewValue(2))
	assert.True(t, out.Valid)
	assert.InDelta(t, 1.5, out.Float64, 1e-9)
}

func TestEMAWarmupWithoutAnyValue(t *testing.T) {
	ema, err := NewEMA(2, 0, true, false)
	assert.NoError(t, err)

	// an all-gap warm-up yields no seed at all
	assert.False(t, ema.Apply(pipeline.Missing).Valid)
	assert.False(t, ema.Apply(pipeline.Missing).Valid)

	// the first concrete value after it seeds the estimate directly
	out := ema.Apply(pipeline.NewValue(7))
	assert.True(t, out.Valid)
	assert.InDelta(t, 7.0, out.Float64, 1e-9)
}

func TestEMAConstantInput(t *testing.T) {
	for _, adjust := range []bool{false, true} {
		t.Run(fmt.Sprintf("adjust=%v", adjust), func(t *testing.T) {
			ema, err := NewEMA(4, 0.25, false, adjust)
			assert.NoError(t, err)

			for i := 0; i < 20; i++ {
				out := ema.Apply(pipeline.NewValue(7))
				assert.True(t, out.Valid)
				assert.InDelta(t, 7.0, out.Float64, 1e-9)
			}
		})
	}
}

func TestEMADefaultAlpha(t *testing.T) {
	ema, err := NewEMA(3, 0, false, false)
	assert.NoError(t, err)
	assert.Contains(t, ema.String(), "alpha=0.5")

	ema, err = NewEMA(9, 0, false, false)
	assert.NoError(t, err)
	assert.Contains(t, ema.String(), "alpha=0.2")
}

func TestEMAValidation(t *testing.T) {
	_, err := NewEMA(0, 0.5, false, false)
	assert.Error(t, err)

	_, err = NewEMA(5, -0.1, false, false)
	assert.Error(t, err)

	_, err = NewEMA(5, 1.5, false, false)
	assert.Error(t, err)

	// alpha of exactly one tracks the input
	ema, err := NewEMA(5, 1, false, false)
	assert.NoError(t, err)
	assert.Equal(t, 3.0, ema.Apply(pipeline.NewValue(3)).Float64)
	assert.Equal(t, 9.0, ema.Apply(pipeline.NewValue(9)).Float64)
}
