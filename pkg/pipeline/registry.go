package pipeline

import "fmt"

// OperatorBuilder validates an operator configuration and constructs the
// operator it describes. Configuration structs register a zero value of
// themselves under their operator key; the config loader re-unmarshals each
// YAML payload into a fresh copy and calls Build on it.
type OperatorBuilder interface {
	Build() (Operator, error)
}

// LoadedOperators maps operator keys to their registered builders.
var LoadedOperators = make(map[string]OperatorBuilder)

// RegisterOperator registers builder under the given key. Duplicate keys
// panic so that conflicting registrations fail at start-up, not at config
// load time.
func RegisterOperator(key string, builder OperatorBuilder) {
	if _, exists := LoadedOperators[key]; exists {
		panic(fmt.Errorf("operator %q is already registered", key))
	}

	LoadedOperators[key] = builder
}
