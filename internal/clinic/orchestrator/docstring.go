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
	"strings"

	"github.com/clinicgen/clinic/internal/clinic/model"
)

const signatureWrapColumn = 72

// RenderDocstring builds the "{parameters}" signature block (spec §4.4):
// one bracket-nested, word-wrapped line listing every ShowInSignature
// parameter in declaration order, a "*" inserted before the first
// keyword-only parameter, and a trailing "/" when the last shown parameter
// is positional-only.
func RenderDocstring(cat *model.Catalog, fid model.FuncID) (string, error) {
	fn := cat.Funcs.Get(int(fid))
	return wrapSignature(fn.DisplayName, signatureTokens(cat, fn)), nil
}

// signatureTokens walks params in declaration order (skipping the receiver)
// emitting one token per comma-joinable unit: parameter names, "[" / "]"
// group brackets opened and closed around every run of non-zero GroupID
// (left-side and right-side optional groups alike nest outward from the
// required run, per the DSL's signed-GroupID convention), a bare "*"
// marker before the first keyword-only parameter, and a trailing "/" when
// the run of shown parameters ends on a positional-only one.
func signatureTokens(cat *model.Catalog, fn *model.Function) []string {
	var tokens []string
	openGroups := 0
	lastGroup := 0
	starEmitted := false
	lastShownPositionalOnly := false

	for i, pid := range fn.Params {
		if i == 0 {
			continue // receiver never appears in the signature
		}
		p := cat.Params.Get(int(pid))
		if !p.ShowInSignature {
			continue
		}

		if p.Kind == model.KeywordOnly && !starEmitted {
			tokens = append(tokens, "*")
			starEmitted = true
		}

		switch {
		case p.GroupID != 0 && p.GroupID != lastGroup:
			tokens = append(tokens, "[")
			openGroups++
		case p.GroupID == 0 && lastGroup != 0:
			for openGroups > 0 {
				tokens = append(tokens, "]")
				openGroups--
			}
		}
		lastGroup = p.GroupID

		tokens = append(tokens, p.Name)
		lastShownPositionalOnly = p.Kind == model.PositionalOnly
	}

	for openGroups > 0 {
		tokens = append(tokens, "]")
		openGroups--
	}
	if lastShownPositionalOnly {
		tokens = append(tokens, "/")
	}
	return tokens
}

// wrapSignature joins tokens into "name(a, b, *, c)" form, wrapping at
// signatureWrapColumn the way a long parameter list breaks across
// continuation lines indented to the opening parenthesis.
func wrapSignature(displayName string, tokens []string) string {
	prefix := displayName + "("
	var b strings.Builder
	b.WriteString(prefix)
	lineLen := len(prefix)
	indentStr := strings.Repeat(" ", len(prefix))
	prevWasOpenerOrStart := true

	for i, tok := range tokens {
		piece := tok
		joinsWithComma := prevWasOpenerOrStart == false && tok != "]" && tok != "/"
		if joinsWithComma {
			piece = ", " + tok
		}
		if lineLen+len(piece) > signatureWrapColumn && i > 0 {
			b.WriteString("\n")
			b.WriteString(indentStr)
			lineLen = len(indentStr)
			piece = strings.TrimPrefix(piece, ", ")
		}
		b.WriteString(piece)
		lineLen += len(piece)
		prevWasOpenerOrStart = tok == "[" || tok == "*"
	}
	b.WriteString(")")
	return b.String()
}
