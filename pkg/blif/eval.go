// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package blif

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bits-and-blooms/bitset"
)

// ErrCombinationalLoop signals that the fan-in dependencies of a circuit are
// cyclic, meaning it cannot be evaluated as combinational logic.
var ErrCombinationalLoop = errors.New("combinational logic has a loop")

// Evaluator computes the signal values of a given circuit.  Construction
// performs a one-off analysis of the circuit: every signal is assigned a slot
// in a value arena (primary inputs first, matching pattern order), and the
// gates are put into dependency order.  Evaluation then fills every slot in a
// single pass, so that each signal is computed exactly once per input
// pattern.  Signals with no defining gate and no input role are constant
// false.
//
// An evaluator is not safe for concurrent use, since evaluations share the
// arena; independent evaluators of the same circuit are fully independent.
type Evaluator struct {
	circuit *Circuit
	// Slot of every known signal within the arena.
	slots map[string]uint
	// Gates compiled against the slot assignment.
	nodes []node
	// Gate indices in dependency order.
	order []int
	// Slots of the primary outputs, in declaration order.
	outputs []uint
	// Arena holding the value of every slot for the pattern currently under
	// evaluation.  Slots without a defining gate are never set.
	values *bitset.BitSet
	// Scratch buffer for materialising fan-in values.
	scratch []byte
}

// node is a gate compiled against the arena's slot assignment.
type node struct {
	gate *Gate
	// Slot holding each fan-in value.
	fanins []uint
	// Slot receiving the output value.
	out uint
}

// NewEvaluator analyses a given circuit in preparation for evaluating it,
// failing with ErrCombinationalLoop if its dependencies are cyclic.  Analysis
// covers every gate, whether or not it feeds a primary output.
func NewEvaluator(circuit *Circuit) (*Evaluator, error) {
	p := &Evaluator{circuit: circuit, slots: make(map[string]uint)}
	// Primary inputs occupy the first slots, in pattern order.
	for _, name := range circuit.Inputs {
		p.slot(name)
	}
	// Then every defined signal, then everything merely referenced (which,
	// having no defining gate, stays constant false).
	for g := range circuit.Gates {
		p.slot(circuit.Gates[g].Output)
	}
	//
	for g := range circuit.Gates {
		for _, fanin := range circuit.Gates[g].Inputs {
			p.slot(fanin)
		}
	}
	//
	for _, name := range circuit.Outputs {
		p.outputs = append(p.outputs, p.slot(name))
	}
	// Compile gates against the slot assignment.
	var (
		defs    = make(map[string]int, len(circuit.Gates))
		maxdeps = 0
	)
	//
	p.nodes = make([]node, len(circuit.Gates))
	//
	for g := range circuit.Gates {
		gate := &circuit.Gates[g]
		fanins := make([]uint, len(gate.Inputs))
		//
		for i, fanin := range gate.Inputs {
			fanins[i] = p.slots[fanin]
		}
		//
		p.nodes[g] = node{gate, fanins, p.slots[gate.Output]}
		defs[gate.Output] = g
		maxdeps = max(maxdeps, len(gate.Inputs))
	}
	//
	p.values = bitset.New(uint(len(p.slots)))
	p.scratch = make([]byte, maxdeps)
	// Order gates by their dependencies.
	if err := p.analyse(defs); err != nil {
		return nil, err
	}
	//
	return p, nil
}

// Eval computes the primary-output bits of the circuit for one assignment of
// its primary inputs, given as one '0' or '1' byte per input in declaration
// order.  Evaluation is pure: identical patterns always yield identical
// results.
func (p *Evaluator) Eval(pattern string) (string, error) {
	if len(pattern) != len(p.circuit.Inputs) {
		return "", fmt.Errorf("pattern has %d bits for %d inputs", len(pattern), len(p.circuit.Inputs))
	}
	//
	for i := 0; i < len(pattern); i++ {
		if c := pattern[i]; c != '0' && c != '1' {
			return "", fmt.Errorf("invalid pattern bit %q", c)
		}
	}
	//
	out := make([]byte, len(p.outputs))
	p.evalInto(pattern, out)
	//
	return string(out), nil
}

// evalInto computes the primary-output bits for a given (valid) input
// pattern, writing them into a caller-provided buffer.
func (p *Evaluator) evalInto(pattern string, out []byte) {
	// Load the input slots.
	for i := 0; i < len(pattern); i++ {
		p.values.SetTo(uint(i), pattern[i] == '1')
	}
	// Fill every gate slot in dependency order.
	for _, g := range p.order {
		n := &p.nodes[g]
		// Materialise fan-in values
		for i, slot := range n.fanins {
			p.scratch[i] = bit(p.values.Test(slot))
		}
		//
		value := n.gate.Eval(p.scratch[:len(n.fanins)])
		p.values.SetTo(n.out, value == '1')
	}
	// Read off the primary outputs.
	for i, slot := range p.outputs {
		out[i] = bit(p.values.Test(slot))
	}
}

// frame records a gate whose fan-ins are being resolved during analysis,
// along with how many of them have been resolved so far.
type frame struct {
	gate int
	next int
}

// analyse determines a topological order over the gates via an iterative
// depth-first walk of the fan-in dependencies.  Every gate is in one of three
// states: unvisited, in progress (busy) or done.  Meeting a busy gate a
// second time means its output feeds, transitively, into itself.
func (p *Evaluator) analyse(defs map[string]int) error {
	var (
		gates = p.circuit.Gates
		busy  = bitset.New(uint(len(gates)))
		done  = bitset.New(uint(len(gates)))
	)
	//
	p.order = make([]int, 0, len(gates))
	//
	for g := range gates {
		if done.Test(uint(g)) {
			continue
		}
		//
		stack := []frame{{g, 0}}
		busy.Set(uint(g))
		//
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			gate := &gates[top.gate]
			// Check whether all fan-ins resolved.
			if top.next == len(gate.Inputs) {
				busy.Clear(uint(top.gate))
				done.Set(uint(top.gate))
				p.order = append(p.order, top.gate)
				stack = stack[:len(stack)-1]
				//
				continue
			}
			//
			fanin := gate.Inputs[top.next]
			top.next++
			// Only defined signals impose an ordering; inputs and undefined
			// signals are roots.
			dep, ok := defs[fanin]
			//
			if !ok || done.Test(uint(dep)) {
				continue
			} else if busy.Test(uint(dep)) {
				return loopError(gates, stack, dep)
			}
			//
			busy.Set(uint(dep))
			stack = append(stack, frame{dep, 0})
		}
	}
	//
	return nil
}

// loopError renders the loop discovered during analysis through the signal
// names along it, starting and ending at the reentered signal.
func loopError(gates []Gate, stack []frame, dep int) error {
	start := 0
	for stack[start].gate != dep {
		start++
	}
	//
	var names []string
	//
	for _, f := range stack[start:] {
		names = append(names, gates[f.gate].Output)
	}
	//
	names = append(names, gates[dep].Output)
	//
	return fmt.Errorf("%w: %s", ErrCombinationalLoop, strings.Join(names, " -> "))
}

// slot returns the arena slot of a given signal, allocating the next free
// slot on first sight.
func (p *Evaluator) slot(name string) uint {
	s, ok := p.slots[name]
	//
	if !ok {
		s = uint(len(p.slots))
		p.slots[name] = s
	}
	//
	return s
}

// bit converts a Boolean value into its textual bit.
func bit(value bool) byte {
	if value {
		return '1'
	}
	//
	return '0'
}
