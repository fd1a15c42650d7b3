package indicator

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/c9s/tspipe/pkg/pipeline"
	"github.com/c9s/tspipe/pkg/ringbuffer"
)

func init() {
	pipeline.RegisterOperator("ema", &EMAConfig{})
}

// EMAConfig is the YAML configuration of the exponential moving average.
// Warmup defaults to true, seeding the estimate from the mean of the first
// window values the way pandas_ta does. A zero Alpha selects the standard
// smoothing factor 2/(window+1).
type EMAConfig struct {
	Window int     `json:"window"`
	Alpha  float64 `json:"alpha"`
	Warmup *bool   `json:"warmup"`
	Adjust bool    `json:"adjust"`
}

func (c *EMAConfig) Build() (pipeline.Operator, error) {
	warmup := true
	if c.Warmup != nil {
		warmup = *c.Warmup
	}

	return NewEMA(windowOrDefault(c.Window), c.Alpha, warmup, c.Adjust)
}

// EMA is the exponential moving average operator. With warm-up enabled it
// emits gap markers until window inputs have passed, then seeds the estimate
// from the mean of the collected values; without warm-up the first value
// seeds the estimate directly. In steady state the update is
//
//	adjust=false: ema = (1-alpha)*ema + alpha*v
//	adjust=true:  num = (1-alpha)*num + v, den = (1-alpha)*den + 1, ema = num/den
//
// where the adjusted form divides out the finite-history bias (den grows
// toward 1/alpha from below). The estimate exists exactly when the
// denominator is non-zero.
type EMA struct {
	window int
	alpha  float64
	warmup bool
	adjust bool

	queue       *ringbuffer.Buffer
	numerator   float64
	denominator float64
	position    int
	warming     bool
}

func NewEMA(window int, alpha float64, warmup, adjust bool) (*EMA, error) {
	if window <= 0 {
		return nil, errors.Errorf("ema: window should be positive, given: %d", window)
	}

	if alpha == 0 {
		alpha = 2.0 / float64(window+1)
	}

	if alpha <= 0 || alpha > 1 {
		return nil, errors.Errorf("ema: alpha should be in (0, 1], given: %f", alpha)
	}

	queue, err := ringbuffer.New(window)
	if err != nil {
		return nil, err
	}

	return &EMA{
		window:  window,
		alpha:   alpha,
		warmup:  warmup,
		adjust:  adjust,
		queue:   queue,
		warming: warmup,
	}, nil
}

func (s *EMA) Name() string { return "ema" }

func (s *EMA) String() string {
	return fmt.Sprintf("ema(window=%d, alpha=%g, warmup=%v, adjust=%v)", s.window, s.alpha, s.warmup, s.adjust)
}

// Apply advances the state machine by one input. Every input, gap or not,
// advances the warm-up position so that chained warm-ups terminate; only
// concrete values enter the seed queue and the steady-state update.
func (s *EMA) Apply(v pipeline.Value) pipeline.Value {
	s.position++

	if s.warming && v.Valid && s.queue.Size < s.queue.Cap() {
		s.queue.Size++
		s.queue.Sum += v.Float64
		s.queue.Put(v.Float64)
	}

	if s.warming && s.position != s.window {
		return pipeline.Missing
	}

	if s.warming {
		// Seed from the mean of the collected values; the queue is not
		// consulted again once the estimate exists.
		if s.queue.Size > 0 {
			seed := s.queue.Sum / float64(s.queue.Size)
			s.queue.Reset()
			s.numerator = seed
			s.denominator = 1
		}

		s.warming = false
	} else if s.adjust && v.Valid {
		s.numerator = (1-s.alpha)*s.numerator + v.Float64
		s.denominator = (1-s.alpha)*s.denominator + 1
	} else if !s.adjust && v.Valid {
		if s.denominator != 0 {
			s.numerator = (1-s.alpha)*s.numerator + s.alpha*v.Float64
		} else {
			s.numerator = v.Float64
		}

		s.denominator = 1
	}

	if s.denominator == 0 {
		return pipeline.Missing
	}

	return pipeline.NewValue(s.numerator / s.denominator)
}
