package indicator

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/c9s/tspipe/pkg/pipeline"
	"github.com/c9s/tspipe/pkg/ringbuffer"
)

func init() {
	pipeline.RegisterOperator("sma", &SMAConfig{})
}

// SMAConfig is the YAML configuration of the simple moving average.
type SMAConfig struct {
	Window int `json:"window"`
}

func (c *SMAConfig) Build() (pipeline.Operator, error) {
	return NewSMA(windowOrDefault(c.Window))
}

// SMA is the simple moving average operator: the arithmetic mean of all
// values seen so far while the window is still filling, then the mean of the
// most recent window values. There is no warm-up gap, the first input
// already produces an output.
type SMA struct {
	window int
	queue  *ringbuffer.Buffer
}

func NewSMA(window int) (*SMA, error) {
	if window <= 0 {
		return nil, errors.Errorf("sma: window should be positive, given: %d", window)
	}

	queue, err := ringbuffer.New(window)
	if err != nil {
		return nil, err
	}

	return &SMA{window: window, queue: queue}, nil
}

func (s *SMA) Name() string { return "sma" }

func (s *SMA) String() string {
	return fmt.Sprintf("sma(window=%d)", s.window)
}

// Apply slides the window by one input. A gap input leaves the window
// untouched and re-emits the current mean once at least one value has been
// seen.
func (s *SMA) Apply(v pipeline.Value) pipeline.Value {
	if !v.Valid {
		if s.queue.Size == 0 {
			return pipeline.Missing
		}

		return pipeline.NewValue(s.queue.Sum / float64(s.queue.Size))
	}

	if s.queue.Size < s.window {
		// growing phase, nothing is evicted yet
		s.queue.Size++
		s.queue.Sum += v.Float64
		s.queue.Put(v.Float64)
	} else {
		old := s.queue.Get()
		s.queue.Put(v.Float64)
		s.queue.Sum += v.Float64 - old
	}

	return pipeline.NewValue(s.queue.Sum / float64(s.queue.Size))
}
