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
	"fmt"
	"strings"
	"unicode"

	"github.com/consensys/go-blif/pkg/util/source"
	log "github.com/sirupsen/logrus"
)

// Parse converts the contents of a given BLIF source file into a circuit.
// Parsing is permissive regarding unrecognised directives (which cover
// dialects this tool does not evaluate, such as latches), but stops at the
// first structural problem encountered, reporting it as a syntax error
// anchored to the offending span of the file.
func Parse(srcfile *source.File) (*Circuit, *source.SyntaxError) {
	parser := &parser{
		srcfile: srcfile,
		circuit: &Circuit{defs: make(map[string]int)},
		inputs:  make(map[string]bool),
		outputs: make(map[string]bool),
		open:    -1,
	}
	//
	return parser.parse()
}

// ============================================================================
// Parser
// ============================================================================

// token is a whitespace-delimited field of a logical line, along with its
// span in the original text.
type token struct {
	text string
	span source.Span
}

type parser struct {
	// Source file being parsed.
	srcfile *source.File
	// Circuit under construction.
	circuit *Circuit
	// Declared primary inputs, for checking gate definitions.
	inputs map[string]bool
	// Declared primary outputs, for duplicate checks.
	outputs map[string]bool
	// Index of the gate currently accepting cover rows (or -1).
	open int
	// Set once the corresponding declaration has been seen, since an empty
	// declaration is legal (and declares nothing).
	sawInputs  bool
	sawOutputs bool
}

// parse processes every logical line in turn, stopping at the .end directive
// (or the end of the file), then finalises the circuit.
func (p *parser) parse() (*Circuit, *source.SyntaxError) {
	for number := 1; number <= p.srcfile.LineCount(); {
		var line []token
		// Assemble the next logical line.
		line, number = p.logicalLine(number)
		// Skip blank (and comment-only) lines.
		if len(line) == 0 {
			continue
		}
		//
		done, err := p.parseLine(line)
		if err != nil {
			return nil, err
		}
		// Stop at .end, ignoring anything beyond it.
		if done {
			break
		}
	}
	//
	return p.finalise()
}

// logicalLine assembles the logical line beginning at a given physical line:
// text from '#' onwards is discarded, and a trailing backslash continues the
// line onto the one following.  Returns the tokens of the logical line along
// with the number of the next unconsumed physical line.
func (p *parser) logicalLine(number int) ([]token, int) {
	var tokens []token
	//
	contents := p.srcfile.Contents()
	//
	for number <= p.srcfile.LineCount() {
		line := p.srcfile.Line(number)
		span := line.Span()
		start, end := span.Start(), span.End()
		number++
		// Strip comment (if any)
		for i := start; i < end; i++ {
			if contents[i] == '#' {
				end = i
				break
			}
		}
		// Strip trailing whitespace
		for end > start && unicode.IsSpace(contents[end-1]) {
			end--
		}
		// Check for line continuation
		continued := end > start && contents[end-1] == '\\'
		if continued {
			end--
		}
		//
		tokens = appendTokens(tokens, contents, start, end)
		// A continuation at the end of the file simply ends the line.
		if !continued {
			break
		}
	}
	//
	return tokens, number
}

// parseLine dispatches a single (non-blank) logical line, returning true once
// the .end directive has been reached.
func (p *parser) parseLine(line []token) (bool, *source.SyntaxError) {
	head := line[0]
	// Anything not beginning a directive is a cover row.
	if !strings.HasPrefix(head.text, ".") {
		return false, p.parseRow(line)
	}
	// Any directive terminates an open gate block.
	p.open = -1
	//
	switch head.text {
	case ".model":
		// First model name wins; later .model lines are skipped.
		if p.circuit.Name == "" && len(line) > 1 {
			p.circuit.Name = line[1].text
		}
	case ".inputs":
		return false, p.parseInputs(line)
	case ".outputs":
		return false, p.parseOutputs(line)
	case ".names":
		return false, p.beginGate(line)
	case ".end":
		return true, nil
	default:
		// Tolerated for dialect compatibility (e.g. .latch, .subckt).
		log.Debugf("skipping %s directive", head.text)
	}
	//
	return false, nil
}

// parseInputs processes one .inputs directive, extending the primary inputs.
// Declarations may be split across several directives, which accumulate.
func (p *parser) parseInputs(line []token) *source.SyntaxError {
	p.sawInputs = true
	//
	for _, t := range line[1:] {
		if err := p.checkName(t); err != nil {
			return err
		} else if p.inputs[t.text] {
			return p.error(t.span, fmt.Sprintf("duplicate input %s", t.text))
		} else if _, ok := p.circuit.defs[t.text]; ok {
			return p.error(t.span, fmt.Sprintf("input %s already defined by a gate", t.text))
		}
		//
		p.inputs[t.text] = true
		p.circuit.Inputs = append(p.circuit.Inputs, t.text)
	}
	//
	return nil
}

// parseOutputs processes one .outputs directive, extending the primary
// outputs.  Declarations may be split across several directives, which
// accumulate.
func (p *parser) parseOutputs(line []token) *source.SyntaxError {
	p.sawOutputs = true
	//
	for _, t := range line[1:] {
		if err := p.checkName(t); err != nil {
			return err
		} else if p.outputs[t.text] {
			return p.error(t.span, fmt.Sprintf("duplicate output %s", t.text))
		}
		//
		p.outputs[t.text] = true
		p.circuit.Outputs = append(p.circuit.Outputs, t.text)
	}
	//
	return nil
}

// beginGate processes a .names directive, which opens a new gate block.  The
// final name gives the signal being defined, with those preceding it being
// the fan-ins (of which there may be none, for a constant).
func (p *parser) beginGate(line []token) *source.SyntaxError {
	if len(line) == 1 {
		return p.error(line[0].span, "missing signal name")
	}
	//
	output := line[len(line)-1]
	fanins := line[1 : len(line)-1]
	//
	for _, t := range line[1:] {
		if err := p.checkName(t); err != nil {
			return err
		}
	}
	//
	if p.inputs[output.text] {
		return p.error(output.span, fmt.Sprintf("cannot define primary input %s", output.text))
	} else if _, ok := p.circuit.defs[output.text]; ok {
		return p.error(output.span, fmt.Sprintf("signal %s already defined", output.text))
	}
	// Gate accepts cover rows until the next directive.
	gate := Gate{Output: output.text, Inputs: names(fanins)}
	p.circuit.defs[output.text] = len(p.circuit.Gates)
	p.circuit.Gates = append(p.circuit.Gates, gate)
	p.open = len(p.circuit.Gates) - 1
	//
	return nil
}

// parseRow processes one cover row of the currently open gate: the final
// token is the output bit, and the remaining tokens concatenate to give the
// input pattern.
func (p *parser) parseRow(line []token) *source.SyntaxError {
	if p.open < 0 {
		return p.error(spanOf(line), "cover row outside gate definition")
	}
	//
	gate := &p.circuit.Gates[p.open]
	last := line[len(line)-1]
	// Check output bit
	if last.text != "0" && last.text != "1" {
		return p.error(last.span, fmt.Sprintf("invalid output bit %s", last.text))
	}
	// Assemble input pattern
	var pattern strings.Builder
	//
	for _, t := range line[:len(line)-1] {
		for i := 0; i < len(t.text); i++ {
			if c := t.text[i]; c != '0' && c != '1' && c != '-' {
				return p.error(t.span, fmt.Sprintf("invalid pattern character %q", c))
			}
		}
		//
		pattern.WriteString(t.text)
	}
	//
	if pattern.Len() != len(gate.Inputs) {
		msg := fmt.Sprintf("pattern has %d positions for %d fan-ins", pattern.Len(), len(gate.Inputs))
		return p.error(spanOf(line), msg)
	}
	//
	gate.Rows = append(gate.Rows, Row{pattern.String(), last.text[0]})
	//
	return nil
}

// finalise checks the structural requirements which cannot be attributed to
// any single line: the input and output declarations must both be present.
func (p *parser) finalise() (*Circuit, *source.SyntaxError) {
	span := source.NewSpan(0, 0)
	//
	if !p.sawInputs {
		return nil, p.error(span, "missing .inputs declaration")
	} else if !p.sawOutputs {
		return nil, p.error(span, "missing .outputs declaration")
	}
	//
	return p.circuit, nil
}

// checkName confirms a given token is usable as a signal name, in particular
// that it does not begin a directive.
func (p *parser) checkName(t token) *source.SyntaxError {
	if strings.HasPrefix(t.text, ".") {
		return p.error(t.span, fmt.Sprintf("invalid signal name %s", t.text))
	}
	//
	return nil
}

// error constructs a syntax error over a given span of the source file.
func (p *parser) error(span source.Span, msg string) *source.SyntaxError {
	return p.srcfile.SyntaxError(span, msg)
}

// appendTokens splits a given range of the source text into
// whitespace-delimited tokens, appending each together with its span.
func appendTokens(tokens []token, contents []rune, start int, end int) []token {
	for i := start; i < end; {
		// Skip leading whitespace
		for i < end && unicode.IsSpace(contents[i]) {
			i++
		}
		// Determine extent of token
		j := i
		for j < end && !unicode.IsSpace(contents[j]) {
			j++
		}
		//
		if j > i {
			tokens = append(tokens, token{string(contents[i:j]), source.NewSpan(i, j)})
		}
		//
		i = j
	}
	//
	return tokens
}

// names extracts the text of each token in turn.
func names(tokens []token) []string {
	strs := make([]string, len(tokens))
	//
	for i, t := range tokens {
		strs[i] = t.text
	}
	//
	return strs
}

// spanOf returns the span of an entire logical line, from its first token
// through its last.
func spanOf(line []token) source.Span {
	span := line[0].span
	return span.Join(line[len(line)-1].span)
}
