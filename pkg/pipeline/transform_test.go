package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// warmupOp swallows its first n inputs into gap markers and passes the rest
// through, mimicking the warm-up phase of an averaging operator.
type warmupOp struct {
	n    int
	seen int
}

func (o *warmupOp) Name() string { return "warmup" }

func (o *warmupOp) Apply(v Value) Value {
	o.seen++
	if o.seen <= o.n {
		return Missing
	}

	return v
}

func TestTransformAppliesToConcreteValues(t *testing.T) {
	op := Transform("add5", func(v float64) float64 { return v + 5 })

	assert.Equal(t, "add5", op.Name())
	assert.Equal(t, "add5", op.String())
	assert.Equal(t, NewValue(6), op.Apply(NewValue(1)))
}

func TestTransformPassesGapsThrough(t *testing.T) {
	stage, err := Chain(NewSliceSource(1, 2, 3, 4), &warmupOp{n: 2}, add5())
	assert.NoError(t, err)

	out := drain(t, stage)
	assert.Equal(t, []Value{Missing, Missing, NewValue(8), NewValue(9)}, out)
}
