// Package pipeline implements lazily evaluated, pull-based chains of
// streaming operators over a polled numeric source. Nothing is read or
// computed until the consumer asks the most downstream stage for a value.
package pipeline

import (
	"io"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/c9s/tspipe/pkg/metrics"
)

// Operator consumes one stream element and produces exactly one output
// element. Implementations keep their own incremental state and are not safe
// for concurrent use.
type Operator interface {
	// Name identifies the operator kind, e.g. "sma". It is used as the
	// configuration key and the metrics label.
	Name() string

	// Apply feeds one element through the operator. An invalid input marks a
	// warm-up gap from an upstream operator; how it is treated is operator
	// specific.
	Apply(v Value) Value
}

// DefaultBatchSize is how many elements a stage pulls per look-ahead refill.
// Batching amortizes the boundary crossings into the upstream and the
// external source; it does not change what the chain computes.
const DefaultBatchSize = 64

// Stage binds an operator to a look-ahead buffer and either an upstream
// stage or, for the terminal stage, an external source. Stages form a
// strictly linear chain and advance only when pulled from downstream.
//
// A stage is single threaded. The only suspension point is the Poll call
// into the source when every look-ahead buffer on the chain is empty.
type Stage struct {
	op       Operator
	upstream *Stage

	source     Source
	sourceName string

	batchSize int

	buf []Value
	pos int

	processed   int64
	unavailable int64

	err error
}

type Option func(*Stage)

// WithBatchSize overrides DefaultBatchSize for this stage.
func WithBatchSize(n int) Option {
	return func(s *Stage) {
		s.batchSize = n
	}
}

// WithSource attaches the external source a terminal stage polls.
func WithSource(src Source) Option {
	return func(s *Stage) {
		s.source = src
	}
}

// NewStage builds a stage around op. Non-terminal stages pass the stage they
// read from; the terminal stage passes a nil upstream and attaches its
// source with WithSource. The configuration is validated before any state is
// allocated.
func NewStage(op Operator, upstream *Stage, opts ...Option) (*Stage, error) {
	if op == nil {
		return nil, errors.New("pipeline: operator is required")
	}

	s := &Stage{
		op:        op,
		upstream:  upstream,
		batchSize: DefaultBatchSize,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.upstream != nil && s.source != nil {
		return nil, errors.New("pipeline: a stage reads from either an upstream stage or a source, not both")
	}

	if s.upstream == nil && s.source == nil {
		return nil, errors.New("pipeline: terminal stage requires a source")
	}

	if s.batchSize <= 0 {
		return nil, errors.Errorf("pipeline: batch size should be positive, given: %d", s.batchSize)
	}

	s.sourceName = resolveSourceName(s.source)
	s.buf = make([]Value, 0, s.batchSize)

	log.Debugf("stage %s ready: batchSize=%d terminal=%v", op.Name(), s.batchSize, s.upstream == nil)
	return s, nil
}

func resolveSourceName(src Source) string {
	if src == nil {
		return ""
	}

	if n, ok := src.(interface{ Name() string }); ok {
		return n.Name()
	}

	return "source"
}

// Operator returns the operator this stage wraps.
func (s *Stage) Operator() Operator {
	return s.op
}

// Upstream returns the stage this stage reads from, nil on the terminal
// stage.
func (s *Stage) Upstream() *Stage {
	return s.upstream
}

// Processed returns how many elements this stage has fed through its
// operator so far.
func (s *Stage) Processed() int64 {
	return s.processed
}

// Unavailable returns how many of the processed elements came out as warm-up
// markers.
func (s *Stage) Unavailable() int64 {
	return s.unavailable
}

// Next returns the next output of this stage. It drains the look-ahead
// buffer first and refills it in batches from upstream; the refill is what
// makes the stages above advance. Once the sequence ends, Next keeps
// returning io.EOF (or whatever error ended the stream) without touching the
// upstream again.
func (s *Stage) Next() (Value, error) {
	if s.pos < len(s.buf) {
		v := s.buf[s.pos]
		s.pos++
		return v, nil
	}

	if s.err != nil {
		return Missing, s.err
	}

	s.refill()

	if len(s.buf) == 0 {
		return Missing, s.err
	}

	s.pos = 1
	return s.buf[0], nil
}

// refill rewinds the look-ahead buffer and pulls up to batchSize elements
// through the operator, stopping early when the upstream ends or fails. The
// error is recorded after the buffered outputs so the consumer still sees
// everything produced before the cut.
func (s *Stage) refill() {
	metrics.StageRefillsMetrics.WithLabelValues(s.op.Name()).Inc()

	s.buf = s.buf[:0]
	s.pos = 0

	for i := 0; i < s.batchSize; i++ {
		in, err := s.pull()
		if err != nil {
			s.err = err
			return
		}

		out := s.op.Apply(in)
		s.processed++
		if !out.Valid {
			s.unavailable++
			metrics.ValuesUnavailableMetrics.WithLabelValues(s.op.Name()).Inc()
		}

		metrics.ValuesProcessedMetrics.WithLabelValues(s.op.Name()).Inc()
		s.buf = append(s.buf, out)
	}
}

// pull obtains one input element: the upstream stage's next output, or one
// poll of the external source on the terminal stage.
func (s *Stage) pull() (Value, error) {
	if s.upstream != nil {
		return s.upstream.Next()
	}

	f, err := s.source.Poll()
	metrics.SourcePollsMetrics.WithLabelValues(s.sourceName).Inc()
	if err != nil {
		if err != io.EOF {
			metrics.SourceErrorsMetrics.WithLabelValues(s.sourceName).Inc()
		}

		return Missing, err
	}

	return NewValue(f), nil
}
