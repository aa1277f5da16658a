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

// Package blif provides a parser and evaluator for combinational circuits
// described in the Berkeley Logic Interchange Format (BLIF), as produced by
// standard digital-logic benchmark suites.  A parsed circuit can be evaluated
// over every combination of its primary inputs to yield an exhaustive truth
// table.
package blif

// Row is a single row of a gate's cover, pairing a pattern over the gate's
// fan-in signals with the output bit produced when the pattern matches.
type Row struct {
	// Pattern over the alphabet {0,1,-}, with exactly one position per
	// fan-in signal ('-' matching either value).
	Pattern string
	// Output bit ('0' or '1') produced when the pattern matches.
	Output byte
}

// Matches checks whether this row's pattern covers a given assignment of the
// fan-in signals, given as one '0' or '1' byte per fan-in (in declaration
// order).
func (p *Row) Matches(bits []byte) bool {
	for i := 0; i < len(p.Pattern); i++ {
		if c := p.Pattern[i]; c != '-' && c != bits[i] {
			return false
		}
	}
	//
	return true
}

// Gate defines a single output signal as a Boolean function of its fan-in
// signals, expressed as an ordered cover.  A gate with no fan-ins is a
// constant.
type Gate struct {
	// Name of the signal defined by this gate.
	Output string
	// Fan-in signals, in declaration order.
	Inputs []string
	// Cover rows, in declaration order.
	Rows []Row
}

// Default returns the output bit produced when no row of the cover matches.
// A single-output cover lists either the onset or the offset of its function,
// so the default is the complement of the first row's output bit.  A gate
// without any rows is constant false.
func (p *Gate) Default() byte {
	if len(p.Rows) == 0 || p.Rows[0].Output == '1' {
		return '0'
	}
	//
	return '1'
}

// Eval computes this gate's output bit for a given assignment of its fan-in
// signals (one '0' or '1' byte per fan-in, in declaration order).  The first
// matching row determines the result; otherwise the cover's default applies.
func (p *Gate) Eval(bits []byte) byte {
	for i := range p.Rows {
		if p.Rows[i].Matches(bits) {
			return p.Rows[i].Output
		}
	}
	//
	return p.Default()
}

// Circuit is a combinational Boolean network: primary inputs, primary
// outputs, and one gate per defined signal.  A circuit is built once by the
// parser and immutable afterwards; a signal may be both an internal net and a
// primary output.
type Circuit struct {
	// Model name, as given by the .model directive (possibly empty).
	Name string
	// Primary inputs, in declaration order.
	Inputs []string
	// Primary outputs, in declaration order.
	Outputs []string
	// Gates, in declaration order.
	Gates []Gate
	// Mapping from signal names to their defining gate (as an index into
	// the gates array).
	defs map[string]int
}

// GateOf returns the gate defining a given signal, or nil if the signal has
// no defining gate (i.e. it is a primary input, or undefined).
func (p *Circuit) GateOf(name string) *Gate {
	if index, ok := p.defs[name]; ok {
		return &p.Gates[index]
	}
	//
	return nil
}
