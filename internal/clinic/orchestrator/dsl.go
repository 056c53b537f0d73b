// Copyright 2026 EngFlow Inc. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package orchestrator

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/clinicgen/clinic/internal/clinic/dslexpr"
	"github.com/clinicgen/clinic/internal/clinic/indent"
	"github.com/clinicgen/clinic/internal/clinic/model"
)

// dslStateFn is one state of the DSL's state-keeper function-pointer parser
// (spec §4.3 design note): each state consumes one already-dedented line and
// either handles it, returning the next state to install, or errors.
type dslStateFn func(p *dslParser, line string) (dslStateFn, error)

// dslParser drives one directive block's input through the DSL state
// machine into the orchestrator's catalog.
type dslParser struct {
	orch  *Orchestrator
	stack *indent.Stack
	state dslStateFn

	fid model.FuncID

	// Group bookkeeping (spec §4.3 "Group rules").
	groupDepth     int
	requiredSeen   bool
	pendingGroup   []model.ParamID // params given a provisional positive id before the required run

	kwOnly            bool
	kwOnlyFromVersion *dslexpr.Version
	sawSlash          bool
	sawSlashFrom      bool
	sawStar           bool
	sawStarFrom       bool

	lastParamID model.ParamID
	hasLastParam bool

	paramDocLines []string
	funcDocLines  []string

	dumpedText []string
	preserved  bool

	// Decorator state, applied to the Function once parseModuleNameLine
	// creates it (decorators always precede the name line in a block).
	pendingKind            model.FunctionKind
	pendingCoexist         bool
	pendingTextSig         string
	pendingCriticalSection bool
	pendingLockNames       [2]string
}

// ParseBlock drives one directive block's raw input through the DSL and
// returns the text re-injected by dump/printout directives (appended
// verbatim ahead of the generated output) and whether this block is a bare
// "preserve" marker (the sidecar-file layout's ownership guard, spec §6).
func ParseBlock(orch *Orchestrator, input string) (dumped []string, preserved bool, err error) {
	p := &dslParser{orch: orch, stack: indent.New()}
	p.state = stateDSLStart

	lines := strings.Split(input, "\n")
	for _, line := range lines {
		trimmed := strings.TrimRight(line, "\r")
		if !isDocStateFn(p.state) && isBlankOrComment(trimmed) {
			continue
		}
		next, err := p.state(p, trimmed)
		if err != nil {
			return nil, false, fmt.Errorf("line %q: %w", trimmed, err)
		}
		if next != nil {
			p.state = next
		}
	}
	if err := p.finish(); err != nil {
		return nil, false, err
	}
	return p.dumpedText, p.preserved, nil
}

// isDocStateFn reports whether fn is one of the docstring-accumulating
// states, where blank lines are meaningful content rather than filler to
// skip outright.
func isDocStateFn(fn dslStateFn) bool {
	p := reflect.ValueOf(fn).Pointer()
	return p == reflect.ValueOf(dslStateFn(stateFunctionDocstring)).Pointer() ||
		p == reflect.ValueOf(dslStateFn(stateParamDocstring)).Pointer()
}

func isBlankOrComment(line string) bool {
	t := strings.TrimSpace(line)
	return t == "" || strings.HasPrefix(t, "#")
}

// stateDSLStart implements DSL_START: directive dispatch, decorator lines,
// or the declarative function-name line.
func stateDSLStart(p *dslParser, line string) (dslStateFn, error) {
	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, "@") {
		if err := p.applyDecorator(trimmed); err != nil {
			return nil, err
		}
		return stateDSLStart, nil
	}
	handled, err := p.dispatchDirective(line)
	if err != nil {
		return nil, err
	}
	if handled {
		return stateDSLStart, nil
	}
	if err := p.parseModuleNameLine(trimmed); err != nil {
		return nil, err
	}
	return stateParametersStart, nil
}

// stateParametersStart implements PARAMETERS_START: the first body line
// decides whether this function has a parameter list at all.
func stateParametersStart(p *dslParser, line string) (dslStateFn, error) {
	if strings.TrimSpace(line) == "" {
		return stateParametersStart, nil
	}
	depth, err := p.stack.Infer(line)
	if err != nil {
		return nil, err
	}
	if depth == 0 {
		return stateFunctionDocstring(p, line)
	}
	// stateParameter re-measures indentation itself, so hand it the raw
	// (not yet dedented) line — matching how the outer loop feeds it every
	// subsequent line.
	return stateParameter(p, line)
}

// stateParameter implements PARAMETER.
func stateParameter(p *dslParser, line string) (dslStateFn, error) {
	if strings.TrimSpace(line) == "" {
		return stateParameter, nil
	}
	depth, err := p.stack.Infer(line)
	if err != nil {
		return nil, err
	}
	switch {
	case depth > 0:
		p.paramDocLines = nil
		return stateParamDocStart(p, p.stack.Dedent(line))
	case depth < 0:
		if -depth >= p.stack.Depth()+1 {
			return stateFunctionDocstring(p, line)
		}
	}
	dedented := p.stack.Dedent(line)
	return p.parseParameterToken(dedented)
}

// stateParamDocStart implements PARAMETER_DOCSTRING_START: the first
// docstring line fixes the indent that PARAMETER_DOCSTRING dedents by.
func stateParamDocStart(p *dslParser, line string) (dslStateFn, error) {
	p.paramDocLines = append(p.paramDocLines, line)
	return stateParamDocstring, nil
}

// stateParamDocstring implements PARAMETER_DOCSTRING.
func stateParamDocstring(p *dslParser, line string) (dslStateFn, error) {
	depth, err := p.stack.Infer(line)
	if err != nil {
		return nil, err
	}
	switch {
	case depth == 0:
		p.paramDocLines = append(p.paramDocLines, p.stack.Dedent(line))
		return stateParamDocstring, nil
	case depth == -1:
		p.flushParamDocstring()
		// stateParameter re-measures indentation itself; hand it the raw line.
		return stateParameter(p, line)
	default:
		p.flushParamDocstring()
		return stateFunctionDocstring(p, line)
	}
}

// stateFunctionDocstring implements FUNCTION_DOCSTRING.
func stateFunctionDocstring(p *dslParser, line string) (dslStateFn, error) {
	p.funcDocLines = append(p.funcDocLines, line)
	return stateFunctionDocstring, nil
}

func (p *dslParser) flushParamDocstring() {
	if !p.hasLastParam || len(p.paramDocLines) == 0 {
		p.paramDocLines = nil
		return
	}
	param := p.orch.Catalog.Params.Get(int(p.lastParamID))
	param.Docstring = strings.Join(p.paramDocLines, "\n")
	p.paramDocLines = nil
}

// finish runs end-of-block validation and composes the docstring (spec
// §4.3 "Post-block").
func (p *dslParser) finish() error {
	p.flushParamDocstring()
	if p.fid == 0 {
		return nil
	}
	if p.groupDepth != 0 {
		return fmt.Errorf("unbalanced optional-group brackets")
	}
	fn := p.orch.Catalog.Funcs.Get(int(p.fid))
	doc := strings.Join(p.funcDocLines, "\n")
	rendered, err := RenderDocstring(p.orch.Catalog, p.fid)
	if err != nil {
		return err
	}
	if doc == "" {
		fn.Docstring = rendered
	} else if strings.Contains(doc, "{parameters}") {
		fn.Docstring = strings.Replace(doc, "{parameters}", rendered, 1)
	} else {
		lines := strings.SplitN(doc, "\n", 2)
		if len(lines) == 2 {
			second, _, _ := strings.Cut(lines[1], "\n")
			if strings.TrimSpace(second) != "" {
				return fmt.Errorf("docstring must have a blank second line before further prose")
			}
		}
		fn.Docstring = lines[0] + "\n" + rendered + doc[len(lines[0]):]
	}
	return nil
}
