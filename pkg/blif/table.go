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

	"github.com/consensys/go-blif/pkg/util/collection/iter"
)

// DefaultMaxInputs bounds the number of primary inputs for which a truth
// table will be generated, unless configured otherwise.  A table holds 2^n
// rows for n inputs, so the bound protects the host's memory.
const DefaultMaxInputs = 22

// ErrTooManyInputs signals that a circuit has more primary inputs than the
// configured bound allows.
var ErrTooManyInputs = errors.New("too many inputs for circuit")

// TableConfig configures truth-table generation.  The zero value gives the
// defaults.
type TableConfig struct {
	// MaxInputs bounds the number of primary inputs accepted (with zero
	// meaning DefaultMaxInputs).  Bounds beyond 62 are clamped, keeping the
	// row count representable.
	MaxInputs uint
}

// TableRow pairs one assignment of the primary inputs with the values it
// produces on the primary outputs.
type TableRow struct {
	// Input bits, in declaration order.
	Inputs string
	// Output bits, in declaration order.
	Outputs string
}

// TableGenerator lazily enumerates the complete truth table of a circuit:
// one row per combination of the primary inputs, in strictly increasing
// binary order.  A generator is a one-shot sequence; a fresh generator
// restarts the table from the beginning, sharing only the (immutable)
// circuit.
type TableGenerator struct {
	eval *Evaluator
	// Enumeration of the input patterns.
	patterns iter.Enumerator[[]byte]
	// Total number of rows.
	rows uint64
}

var _ iter.Enumerator[TableRow] = &TableGenerator{}

// TruthTable prepares the truth-table sequence for this circuit.  This fails
// either when the circuit has more inputs than the configured bound, or when
// its fan-in dependencies are cyclic; failing here ensures a partial table is
// never produced.
func (p *Circuit) TruthTable(cfg TableConfig) (*TableGenerator, error) {
	limit := cfg.MaxInputs
	//
	if limit == 0 {
		limit = DefaultMaxInputs
	}
	//
	limit = min(limit, 62)
	n := uint(len(p.Inputs))
	//
	if n > limit {
		return nil, fmt.Errorf("%w: %d inputs where at most %d allowed", ErrTooManyInputs, n, limit)
	}
	//
	eval, err := NewEvaluator(p)
	if err != nil {
		return nil, err
	}
	//
	return &TableGenerator{
		eval:     eval,
		patterns: iter.EnumerateVectors(n, []byte{'0', '1'}),
		rows:     1 << n,
	}, nil
}

// HasNext checks whether any rows remain in the sequence.
func (p *TableGenerator) HasNext() bool {
	return p.patterns.HasNext()
}

// Next produces the next row of the table, advancing the sequence.
func (p *TableGenerator) Next() TableRow {
	pattern := p.patterns.Next()
	out := make([]byte, len(p.eval.outputs))
	//
	p.eval.evalInto(string(pattern), out)
	//
	return TableRow{string(pattern), string(out)}
}

// Rows returns the total number of rows in the table (being 2^n for n
// primary inputs), independent of how many have been produced so far.
func (p *TableGenerator) Rows() uint64 {
	return p.rows
}
