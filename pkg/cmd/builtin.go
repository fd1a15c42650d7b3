package cmd

// import built-in operators
import (
	_ "github.com/c9s/tspipe/pkg/indicator"
)
