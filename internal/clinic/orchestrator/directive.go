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
	"strings"

	"github.com/clinicgen/clinic/internal/clinic/destination"
	"github.com/clinicgen/clinic/internal/clinic/model"
	"github.com/clinicgen/clinic/internal/clinic/template"
)

// directiveNames are the first-token directives DSL_START recognizes
// before falling back to a declarative function-name line (spec §4.3, §6).
var directiveNames = map[string]bool{
	"module": true, "class": true, "set": true,
	"destination": true, "output": true, "dump": true,
	"printout": true, "preserve": true,
}

// shlexWords splits a directive line the way a POSIX shell would: runs of
// whitespace separate words, and single or double quotes group a word
// containing spaces. It is a small purpose-built tokenizer, not a general
// shell-quoting implementation — directive lines never nest quotes or use
// backslash escapes beyond what the two quote forms need.
func shlexWords(line string) ([]string, error) {
	var words []string
	var cur strings.Builder
	inWord := false
	i := 0
	for i < len(line) {
		c := line[i]
		switch {
		case c == ' ' || c == '\t':
			if inWord {
				words = append(words, cur.String())
				cur.Reset()
				inWord = false
			}
			i++
		case c == '\'' || c == '"':
			quote := c
			i++
			start := i
			for i < len(line) && line[i] != quote {
				i++
			}
			if i >= len(line) {
				return nil, fmt.Errorf("unterminated %c quote", quote)
			}
			cur.WriteString(line[start:i])
			inWord = true
			i++
		default:
			cur.WriteByte(c)
			inWord = true
			i++
		}
	}
	if inWord {
		words = append(words, cur.String())
	}
	return words, nil
}

// dispatchDirective handles every non-declarative directive line DSL_START
// may see. It returns handled=false when line is not a directive at all, so
// the caller falls through to the declarative function-name parse.
func (p *dslParser) dispatchDirective(line string) (handled bool, err error) {
	words, err := shlexWords(strings.TrimSpace(line))
	if err != nil || len(words) == 0 {
		return false, err
	}
	if !directiveNames[words[0]] {
		return false, nil
	}

	switch words[0] {
	case "module":
		if len(words) != 2 {
			return true, fmt.Errorf("module: expected exactly one dotted name")
		}
		p.orch.Catalog.AddModule(model.RootModule, words[1])
		return true, nil

	case "class":
		if len(words) != 4 {
			return true, fmt.Errorf("class: expected <dotted> <c_typedef> <c_typeobject>")
		}
		p.orch.Catalog.AddClass(model.RootModule, words[1], words[2], words[3])
		return true, nil

	case "set":
		if len(words) != 3 {
			return true, fmt.Errorf("set: expected <option> <value>")
		}
		switch words[1] {
		case "line_prefix":
			p.orch.LinePrefix = words[2]
		case "line_suffix":
			p.orch.LineSuffix = words[2]
		default:
			return true, fmt.Errorf("set: unknown option %q", words[1])
		}
		return true, nil

	case "destination":
		return true, p.dispatchDestination(words)

	case "output":
		return true, p.dispatchOutput(words)

	case "dump":
		if len(words) != 2 {
			return true, fmt.Errorf("dump: expected a destination name")
		}
		text, err := p.orch.Router.Dump(words[1])
		if err != nil {
			return true, err
		}
		p.dumpedText = append(p.dumpedText, text)
		return true, nil

	case "printout":
		p.dumpedText = append(p.dumpedText, strings.Join(words[1:], " ")+"\n")
		return true, nil

	case "preserve":
		p.preserved = true
		return true, nil
	}
	return true, nil
}

func (p *dslParser) dispatchDestination(words []string) error {
	if len(words) < 3 {
		return fmt.Errorf("destination: expected <name> (new|clear) ...")
	}
	name, verb := words[1], words[2]
	switch verb {
	case "clear":
		return p.orch.Router.Clear(name)
	case "new":
		if len(words) < 4 {
			return fmt.Errorf("destination: new requires a kind")
		}
		var kind destination.Kind
		switch words[3] {
		case "buffer":
			kind = destination.KindBuffer
		case "file":
			kind = destination.KindFile
		case "suppress":
			kind = destination.KindSuppress
		default:
			return fmt.Errorf("destination: unknown kind %q", words[3])
		}
		filenameTemplate := ""
		if len(words) >= 5 {
			filenameTemplate = words[4]
		}
		return p.orch.Router.AddDestination(name, kind, filenameTemplate)
	default:
		return fmt.Errorf("destination: unknown verb %q", verb)
	}
}

func (p *dslParser) dispatchOutput(words []string) error {
	if len(words) < 2 {
		return fmt.Errorf("output: expected a subcommand")
	}
	switch words[1] {
	case "preset":
		if len(words) != 3 {
			return fmt.Errorf("output preset: expected a preset name")
		}
		return p.orch.Router.ApplyPreset(words[2])
	case "push":
		p.orch.Router.Push()
		return nil
	case "pop":
		return p.orch.Router.Pop()
	case "print":
		return nil // diagnostic-only; nothing to route
	case "everything":
		if len(words) != 3 {
			return fmt.Errorf("output everything: expected a destination name")
		}
		return p.orch.Router.SetEverything(words[2])
	default:
		if len(words) != 3 {
			return fmt.Errorf("output %s: expected a destination name", words[1])
		}
		return p.orch.Router.SetFragment(template.FragmentName(words[1]), words[2])
	}
}
