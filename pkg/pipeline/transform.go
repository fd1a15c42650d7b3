package pipeline

// TransformFunc maps one input value to one output value.
type TransformFunc func(float64) float64

// TransformOp is a stateless operator that applies a function to every
// concrete element and passes warm-up gaps through untouched.
type TransformOp struct {
	name string
	fn   TransformFunc
}

// Transform wraps fn as a pipeline operator. The name shows up in metrics
// and chain summaries.
func Transform(name string, fn TransformFunc) *TransformOp {
	return &TransformOp{name: name, fn: fn}
}

func (t *TransformOp) Name() string { return t.name }

func (t *TransformOp) String() string { return t.name }

func (t *TransformOp) Apply(v Value) Value {
	if !v.Valid {
		return v
	}

	return NewValue(t.fn(v.Float64))
}
