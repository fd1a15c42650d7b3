package pipeline

// Value is a single stream element: either a concrete float64 or the
// "no value yet" marker an operator emits while it warms up. The marker is an
// explicit flag rather than a float sentinel such as +Inf, because infinities
// can legitimately come out of a weighted sum and must stay distinguishable
// from missing output.
type Value struct {
	Float64 float64
	Valid   bool
}

// Missing is the marker emitted while an operator has no estimate yet.
var Missing = Value{}

func NewValue(f float64) Value {
	return Value{Float64: f, Valid: true}
}
