package indicator

import (
	"fmt"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"github.com/c9s/tspipe/pkg/pipeline"
	"github.com/c9s/tspipe/pkg/ringbuffer"
)

func init() {
	pipeline.RegisterOperator("fwma", &FWMAConfig{})
}

// FWMAConfig is the YAML configuration of the Fibonacci weighted moving
// average.
type FWMAConfig struct {
	Window    int  `json:"window"`
	Ascending bool `json:"ascending"`
}

func (c *FWMAConfig) Build() (pipeline.Operator, error) {
	return NewFWMA(windowOrDefault(c.Window), c.Ascending)
}

// FWMA is the Fibonacci weighted moving average operator. Once the window is
// full, the output is the dot product of the buffered values in oldest to
// newest order with a fixed, normalized Fibonacci weight vector. Ascending
// weights give the newest value the heaviest weight; descending reverses
// that. Gap markers are emitted until the window fills.
type FWMA struct {
	window    int
	ascending bool

	queue   *ringbuffer.Buffer
	weights []float64
	scratch []float64
}

func NewFWMA(window int, ascending bool) (*FWMA, error) {
	if window <= 0 {
		return nil, errors.Errorf("fwma: window should be positive, given: %d", window)
	}

	queue, err := ringbuffer.New(window)
	if err != nil {
		return nil, err
	}

	return &FWMA{
		window:    window,
		ascending: ascending,
		queue:     queue,
		weights:   fibonacciWeights(window, ascending),
		scratch:   make([]float64, window),
	}, nil
}

// fibonacciWeights builds the length-n Fibonacci sequence 1, 1, 2, 3, ...
// and normalizes it to sum to one, so the weighted sum is already the
// weighted average with no trailing division.
func fibonacciWeights(n int, ascending bool) []float64 {
	weights := make([]float64, n)
	for i := range weights {
		if i < 2 {
			weights[i] = 1.0
		} else {
			weights[i] = weights[i-1] + weights[i-2]
		}
	}

	if !ascending {
		floats.Reverse(weights)
	}

	floats.Scale(1/floats.Sum(weights), weights)
	return weights
}

func (s *FWMA) Name() string { return "fwma" }

func (s *FWMA) String() string {
	return fmt.Sprintf("fwma(window=%d, ascending=%v)", s.window, s.ascending)
}

// Apply slides the window by one input and recomputes the weighted average.
// The convolution does not admit the running-sum shortcut of the unweighted
// mean, so this is O(window) per element.
func (s *FWMA) Apply(v pipeline.Value) pipeline.Value {
	if v.Valid {
		if s.queue.Size < s.window {
			s.queue.Size++
			s.queue.Put(v.Float64)
		} else {
			// evict the oldest value to keep the head in step with the tail
			s.queue.Get()
			s.queue.Put(v.Float64)
		}
	}

	if s.queue.Size < s.window {
		return pipeline.Missing
	}

	for i := range s.scratch {
		s.scratch[i] = s.queue.At(i)
	}

	return pipeline.NewValue(floats.Dot(s.weights, s.scratch))
}
