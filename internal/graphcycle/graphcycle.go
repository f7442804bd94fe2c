package graphcycle

import (
	"fmt"
	"slices"
)

type visitState uint8

const (
	stateVisiting visitState = iota + 1
	stateDone
)

// MissingPolicy controls behavior when a referenced node is missing.
type MissingPolicy uint8

const (
	MissingPolicyIgnore MissingPolicy = iota
	MissingPolicyError
)

// CyclePolicy controls behavior when a back edge is found.
type CyclePolicy uint8

const (
	// CyclePolicyError stops the walk with a CycleError.
	CyclePolicyError CyclePolicy = iota
	// CyclePolicyReport passes the cycle to OnCycle and keeps walking.
	CyclePolicyReport
)

// CycleError reports a cycle at Key.
type CycleError[K comparable] struct {
	Key K
}

// Error returns the error string.
func (e CycleError[K]) Error() string {
	return fmt.Sprintf("cycle detected at %v", e.Key)
}

// MissingError reports a missing referenced node.
type MissingError[K comparable] struct {
	From K
	Key  K
}

// Error returns the error string.
func (e MissingError[K]) Error() string {
	return fmt.Sprintf("missing node %v referenced from %v", e.Key, e.From)
}

// Config configures generic cycle detection traversal.
type Config[K comparable] struct {
	Exists func(K) bool
	Next   func(K) ([]K, error)
	// OnCycle receives the nodes of each cycle found, starting at the node the
	// back edge points to. Only used with CyclePolicyReport.
	OnCycle func(cycle []K)
	Starts  []K
	Missing MissingPolicy
	Cycles  CyclePolicy
}

// Detect walks directed edges from Starts and reports first cycle or traversal error.
func Detect[K comparable](cfg Config[K]) error {
	if cfg.Next == nil {
		return fmt.Errorf("cycle detect: next function is nil")
	}
	states := make(map[K]visitState, len(cfg.Starts))
	var stack []K

	var zero K
	var visit func(key, from K, hasFrom bool) error
	visit = func(key, from K, hasFrom bool) error {
		switch states[key] {
		case stateVisiting:
			if cfg.Cycles == CyclePolicyReport {
				if cfg.OnCycle != nil {
					start := slices.Index(stack, key)
					cfg.OnCycle(slices.Clone(stack[start:]))
				}
				return nil
			}
			return CycleError[K]{Key: key}
		case stateDone:
			return nil
		}

		exists := true
		if cfg.Exists != nil {
			exists = cfg.Exists(key)
		}
		if !exists {
			if cfg.Missing == MissingPolicyIgnore {
				return nil
			}
			if !hasFrom {
				from = zero
			}
			return MissingError[K]{From: from, Key: key}
		}

		states[key] = stateVisiting
		stack = append(stack, key)
		neighbors, err := cfg.Next(key)
		if err != nil {
			return err
		}
		for _, next := range neighbors {
			if err := visit(next, key, true); err != nil {
				return err
			}
		}
		stack = stack[:len(stack)-1]
		states[key] = stateDone
		return nil
	}

	for _, start := range cfg.Starts {
		if err := visit(start, zero, false); err != nil {
			return err
		}
	}

	return nil
}
