package pipeline

import "github.com/pkg/errors"

// Chain composes operators into a linear pull chain over source and returns
// the most downstream stage. The first operator becomes the terminal stage
// polling the source; every later operator reads from the stage before it.
// All stages use DefaultBatchSize; assemble with NewStage directly to
// override it.
func Chain(source Source, ops ...Operator) (*Stage, error) {
	if len(ops) == 0 {
		return nil, errors.New("pipeline: chain requires at least one operator")
	}

	stage, err := NewStage(ops[0], nil, WithSource(source))
	if err != nil {
		return nil, err
	}

	for _, op := range ops[1:] {
		stage, err = NewStage(op, stage)
		if err != nil {
			return nil, err
		}
	}

	return stage, nil
}
