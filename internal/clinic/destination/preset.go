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

package destination

import "github.com/clinicgen/clinic/internal/clinic/template"

// Preset maps each of the ten named output fragments to a destination
// name (spec §4.7).
type Preset map[template.FragmentName]string

// clone returns an independent copy, since Router.Push/Pop hand out copies
// callers later mutate via SetFragment.
func (p Preset) clone() Preset {
	out := make(Preset, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// builtin destination names every Router starts with.
const (
	DestBlock    = "block"
	DestFile     = "file"
	DestBuffer   = "buffer"
	DestSuppress = "suppress"
)

// builtinPresets declares the five built-in presets textually, as
// a fixed table rather than generated code — one named value per preset,
// matching how `language/cc/fileinfo.go`'s classification tables in the
// teacher are laid out as plain switch/map literals.
func builtinPresets() map[string]Preset {
	allTo := func(dest string) Preset {
		p := make(Preset, len(template.AllFragments))
		for _, f := range template.AllFragments {
			p[f] = dest
		}
		return p
	}

	block := allTo(DestBlock)

	original := allTo(DestBlock)
	original[template.FragCppIf] = DestSuppress
	original[template.FragCppEndif] = DestSuppress
	original[template.FragMethoddefIfndef] = DestSuppress

	file := allTo(DestBlock)
	file[template.FragDocstringPrototype] = DestFile
	file[template.FragImplPrototype] = DestFile
	file[template.FragParserPrototype] = DestFile
	file[template.FragCppIf] = DestFile
	file[template.FragCppEndif] = DestFile
	file[template.FragMethoddefIfndef] = DestFile

	buffer := allTo(DestBuffer)

	partialBuffer := allTo(DestBlock)
	partialBuffer[template.FragDocstringDefinition] = DestBuffer
	partialBuffer[template.FragMethoddefDefine] = DestBuffer
	partialBuffer[template.FragParserDefinition] = DestBuffer

	return map[string]Preset{
		"block":          block,
		"original":       original,
		"file":           file,
		"buffer":         buffer,
		"partial-buffer": partialBuffer,
	}
}
