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
	"regexp"
	"strings"

	"github.com/clinicgen/clinic/internal/clinic/converter"
	"github.com/clinicgen/clinic/internal/clinic/dslexpr"
	"github.com/clinicgen/clinic/internal/clinic/model"
)

var fromVersionRe = regexp.MustCompile(`^\[from\s+([0-9]+\.[0-9]+)\]$`)

// parseParameterToken handles one dedented PARAMETER-depth line: a `*` or
// `/` marker (each optionally followed by a versioned "[from M.N]" form), a
// `[`/`]` optional-group bracket, a trailing backslash continuation, or a
// parameter declaration (spec §4.3 "PARAMETER").
func (p *dslParser) parseParameterToken(line string) (dslStateFn, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(line), "\\")
	trimmed = strings.TrimSpace(trimmed)
	if trimmed == "" {
		return stateParameter, nil
	}

	switch {
	case trimmed == "[":
		p.groupDepth++
		return stateParameter, nil
	case trimmed == "]":
		if p.groupDepth == 0 {
			return nil, fmt.Errorf("unmatched ']'")
		}
		p.groupDepth--
		return stateParameter, nil
	case trimmed == "*" || strings.HasPrefix(trimmed, "* "):
		return stateParameter, p.handleStarMarker(strings.TrimSpace(strings.TrimPrefix(trimmed, "*")))
	case trimmed == "/" || strings.HasPrefix(trimmed, "/ "):
		return stateParameter, p.handleSlashMarker(strings.TrimSpace(strings.TrimPrefix(trimmed, "/")))
	default:
		return stateParameter, p.handleParameterDecl(trimmed)
	}
}

// handleStarMarker implements the "*" / "* [from M.N]" ordering rule
// (Testable Property 5): "/" before "/ [from]"; both before "*"; "*" before
// "* [from]".
func (p *dslParser) handleStarMarker(rest string) error {
	if rest == "" {
		if p.sawStar {
			return fmt.Errorf("'*' may appear at most once unversioned")
		}
		if p.sawStarFrom {
			return fmt.Errorf("'*' must appear before '* [from ...]'")
		}
		p.sawStar = true
		p.kwOnly = true
		return nil
	}
	m := fromVersionRe.FindStringSubmatch(rest)
	if m == nil {
		return fmt.Errorf("malformed '* %s'", rest)
	}
	v, err := dslexpr.ParseVersion(m[1])
	if err != nil {
		return err
	}
	if p.sawStarFrom {
		return fmt.Errorf("'* [from ...]' may appear at most once")
	}
	p.sawStarFrom = true
	p.kwOnlyFromVersion = &v
	return nil
}

// handleSlashMarker implements the "/" / "/ [from M.N]" form: marks every
// positional-or-keyword parameter seen so far as positional-only.
func (p *dslParser) handleSlashMarker(rest string) error {
	if p.sawStar || p.sawStarFrom {
		return fmt.Errorf("'/' must appear before '*'")
	}
	if rest == "" {
		if p.sawSlash {
			return fmt.Errorf("'/' may appear at most once unversioned")
		}
		if p.sawSlashFrom {
			return fmt.Errorf("'/' must appear before '/ [from ...]'")
		}
		p.sawSlash = true
		p.markPrecedingPositionalOnly(nil)
		return nil
	}
	m := fromVersionRe.FindStringSubmatch(rest)
	if m == nil {
		return fmt.Errorf("malformed '/ %s'", rest)
	}
	if p.sawSlashFrom {
		return fmt.Errorf("'/ [from ...]' may appear at most once")
	}
	v, err := dslexpr.ParseVersion(m[1])
	if err != nil {
		return err
	}
	p.sawSlashFrom = true
	p.markPrecedingPositionalOnly(&v)
	return nil
}

// markPrecedingPositionalOnly retroactively marks every parameter added so
// far as positional-only, attaching a deprecation version if this came from
// a "/ [from v]" marker.
func (p *dslParser) markPrecedingPositionalOnly(deprecated *dslexpr.Version) {
	if p.fid == 0 {
		return
	}
	fn := p.orch.Catalog.Funcs.Get(int(p.fid))
	for _, pid := range fn.Params {
		param := p.orch.Catalog.Params.Get(int(pid))
		if param.Kind == model.PositionalOrKeyword {
			param.Kind = model.PositionalOnly
			if deprecated != nil {
				param.DeprecatedPositional = deprecated
			}
		}
	}
}

// handleParameterDecl parses `name[:annotation] [as c_name] [= default]`
// and appends a new Parameter to the function under construction.
func (p *dslParser) handleParameterDecl(text string) error {
	if p.fid == 0 {
		return fmt.Errorf("parameter declared before function name")
	}
	name, annotation, cname, defaultText, err := splitParamDecl(text)
	if err != nil {
		return err
	}

	kind := model.PositionalOrKeyword
	if p.kwOnly {
		kind = model.KeywordOnly
	}

	conv, err := p.resolveConverter(name, annotation, cname)
	if err != nil {
		return err
	}

	var def dslexpr.Default
	var cDefaultOverride string
	if call, ok := annotationCall(annotation); ok {
		if v, ok := call.KwValues["c_default"]; ok {
			if s, ok := v.(dslexpr.String); ok {
				cDefaultOverride = s.Value
			}
		}
	}
	if defaultText != "" {
		expr, err := dslexpr.Parse(defaultText)
		if err != nil {
			return fmt.Errorf("default value: %w", err)
		}
		def, err = dslexpr.EvaluateDefault(expr, cDefaultOverride)
		if err != nil {
			return err
		}
	}

	groupID := 0
	if p.groupDepth > 0 {
		groupID = p.groupDepth
	}

	param := model.Parameter{
		Name:            name,
		CName:           cname,
		Kind:            kind,
		Converter:       conv,
		Default:         def,
		GroupID:         groupID,
		ShowInSignature: conv.ShowInSignature(),
	}
	if p.kwOnlyFromVersion != nil && kind == model.KeywordOnly {
		param.DeprecatedKeyword = p.kwOnlyFromVersion
	}

	pid := p.orch.Catalog.AddParameter(p.fid, param)
	if groupID > 0 {
		p.pendingGroup = append(p.pendingGroup, pid)
		p.orch.Catalog.Funcs.Get(int(p.fid)).HasOptionalGroups = true
	}
	if groupID == 0 && !p.requiredSeen {
		p.negateGroup()
	}

	p.lastParamID = pid
	p.hasLastParam = true
	return nil
}

// negateGroup implements "on entering the required state the parser
// negates all previously assigned ids, committing their left-side
// polarity" (spec §4.3 "Group rules").
func (p *dslParser) negateGroup() {
	p.requiredSeen = true
	for _, pid := range p.pendingGroup {
		param := p.orch.Catalog.Params.Get(int(pid))
		param.GroupID = -param.GroupID
	}
	p.pendingGroup = nil
}

func (p *dslParser) resolveConverter(name, annotation, cname string) (converter.Converter, error) {
	if cname == "" {
		cname = name
	}
	kind := "object"
	if annotation != "" {
		if call, ok := annotationCallText(annotation); ok {
			kind = call
		} else {
			kind = annotation
		}
	}
	conv, err := p.orch.Registry.Lookup(kind, name, cname)
	if err != nil {
		return nil, fmt.Errorf("parameter %q: %w", name, err)
	}
	return conv, nil
}

// annotationCallText returns the callee name when annotation parses as a
// Call expression, e.g. `int(c_default="NULL")` -> "int".
func annotationCallText(annotation string) (string, bool) {
	expr, err := dslexpr.Parse(annotation)
	if err != nil {
		return "", false
	}
	if c, ok := expr.(dslexpr.Call); ok {
		return c.Callee.String(), true
	}
	return annotation, false
}

// annotationCall parses annotation as a Call expression for callers that
// need its keyword arguments (e.g. c_default=).
func annotationCall(annotation string) (dslexpr.Call, bool) {
	if annotation == "" {
		return dslexpr.Call{}, false
	}
	expr, err := dslexpr.Parse(annotation)
	if err != nil {
		return dslexpr.Call{}, false
	}
	c, ok := expr.(dslexpr.Call)
	return c, ok
}

// splitParamDecl separates `name[:annotation] [as c_name] [= default]`,
// respecting parenthesis nesting so an annotation call's own "=" keyword
// arguments are not mistaken for the top-level default separator.
func splitParamDecl(text string) (name, annotation, cname, defaultExpr string, err error) {
	i := 0
	for i < len(text) && (isIdentByte(text[i])) {
		i++
	}
	if i == 0 {
		return "", "", "", "", fmt.Errorf("expected a parameter name, got %q", text)
	}
	name = text[:i]
	rest := strings.TrimSpace(text[i:])

	if strings.HasPrefix(rest, ":") {
		rest = strings.TrimSpace(rest[1:])
		end := topLevelIndexAnyKeyword(rest, []string{" as ", " = "})
		if end < 0 {
			annotation = strings.TrimSpace(rest)
			rest = ""
		} else {
			annotation = strings.TrimSpace(rest[:end])
			rest = strings.TrimSpace(rest[end:])
		}
	}

	if strings.HasPrefix(rest, "as ") {
		rest = strings.TrimSpace(rest[3:])
		end := topLevelIndexAnyKeyword(rest, []string{" = "})
		if end < 0 {
			cname = strings.TrimSpace(rest)
			rest = ""
		} else {
			cname = strings.TrimSpace(rest[:end])
			rest = strings.TrimSpace(rest[end:])
		}
	}

	if strings.HasPrefix(rest, "= ") || rest == "=" {
		defaultExpr = strings.TrimSpace(strings.TrimPrefix(rest, "="))
	} else if rest != "" {
		return "", "", "", "", fmt.Errorf("unexpected trailing text %q in parameter declaration", rest)
	}
	return name, annotation, cname, defaultExpr, nil
}

func isIdentByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// topLevelIndexAnyKeyword finds the earliest occurrence of any of keywords
// in s that is not nested inside parentheses or braces, returning -1 if
// none is found outside nesting.
func topLevelIndexAnyKeyword(s string, keywords []string) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '{', '[':
			depth++
		case ')', '}', ']':
			depth--
		}
		if depth == 0 {
			for _, kw := range keywords {
				if strings.HasPrefix(s[i:], kw) {
					return i
				}
			}
		}
	}
	return -1
}
