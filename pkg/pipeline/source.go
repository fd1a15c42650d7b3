package pipeline

import "io"

// Source is what a terminal stage polls for raw input values. Poll returns
// the next value, io.EOF once the sequence is exhausted, or any other error
// when the underlying record cannot be turned into a number. The call is
// synchronous and may block according to the source's own pacing.
//
// Sources can optionally implement Name() string, used as the metrics label.
type Source interface {
	Poll() (float64, error)
}

// SourceFunc adapts an ordinary function to the Source interface.
type SourceFunc func() (float64, error)

func (f SourceFunc) Poll() (float64, error) { return f() }

// SliceSource streams an in-memory slice of values.
type SliceSource struct {
	values []float64
	pos    int
}

func NewSliceSource(values ...float64) *SliceSource {
	return &SliceSource{values: values}
}

func (s *SliceSource) Poll() (float64, error) {
	if s.pos >= len(s.values) {
		return 0, io.EOF
	}

	v := s.values[s.pos]
	s.pos++
	return v, nil
}

func (s *SliceSource) Name() string { return "slice" }

// ChannelSource streams values received from a channel. Poll blocks until a
// value arrives; closing the channel ends the sequence.
type ChannelSource struct {
	C <-chan float64
}

func NewChannelSource(c <-chan float64) *ChannelSource {
	return &ChannelSource{C: c}
}

func (s *ChannelSource) Poll() (float64, error) {
	v, ok := <-s.C
	if !ok {
		return 0, io.EOF
	}

	return v, nil
}

func (s *ChannelSource) Name() string { return "channel" }
