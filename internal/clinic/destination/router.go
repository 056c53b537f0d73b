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

import (
	"fmt"

	"github.com/clinicgen/clinic/internal/clinic/template"
)

// Router owns the destination table, the preset table, and the active
// routing (plus its push/pop stack) for one file's processing (spec §4.7,
// §4.9's destination_buffers_stack).
type Router struct {
	destinations map[string]*Destination
	order        []string // insertion order, for deterministic flush

	presets map[string]Preset
	active  Preset
	stack   []Preset
}

// NewRouter returns a Router with the four built-in destinations, the five
// built-in presets, and "block" as the active preset.
func NewRouter() *Router {
	r := &Router{
		destinations: map[string]*Destination{},
		presets:      builtinPresets(),
	}
	r.AddDestination(DestBlock, KindBuffer, "")
	r.AddDestination(DestBuffer, KindBuffer, "")
	r.AddDestination(DestSuppress, KindSuppress, "")
	r.AddDestination(DestFile, KindFile, "{dirname}/clinic/{basename}.h")
	r.active = r.presets["block"].clone()
	return r
}

// AddDestination implements "destination <name> new (buffer|file|suppress)
// [<filename-template>]". Re-declaring an existing name is an error, per
// the same "directive already defines this name" rule as module/class
// declarations in the orchestrator.
func (r *Router) AddDestination(name string, kind Kind, filenameTemplate string) error {
	if _, exists := r.destinations[name]; exists {
		return fmt.Errorf("destination %q already exists", name)
	}
	r.destinations[name] = New(name, kind, filenameTemplate)
	r.order = append(r.order, name)
	return nil
}

// Clear implements "destination <name> clear": discards any buffered text
// without removing the destination from the table.
func (r *Router) Clear(name string) error {
	d, ok := r.destinations[name]
	if !ok {
		return fmt.Errorf("no such destination %q", name)
	}
	if d.Buffers != nil {
		d.Buffers.Clear()
	}
	return nil
}

// Destination looks up a destination by name.
func (r *Router) Destination(name string) (*Destination, error) {
	d, ok := r.destinations[name]
	if !ok {
		return nil, fmt.Errorf("no such destination %q", name)
	}
	return d, nil
}

// Destinations returns every destination in creation order, for the
// orchestrator's end-of-file flush.
func (r *Router) Destinations() []*Destination {
	out := make([]*Destination, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.destinations[name])
	}
	return out
}

// ApplyPreset implements "output preset <name>".
func (r *Router) ApplyPreset(name string) error {
	p, ok := r.presets[name]
	if !ok {
		return fmt.Errorf("no such preset %q", name)
	}
	r.active = p.clone()
	return nil
}

// Push implements "output push": saves the active routing.
func (r *Router) Push() {
	r.stack = append(r.stack, r.active.clone())
}

// Pop implements "output pop": restores the most recently pushed routing.
func (r *Router) Pop() error {
	if len(r.stack) == 0 {
		return fmt.Errorf("output pop: stack is empty")
	}
	n := len(r.stack) - 1
	r.active = r.stack[n]
	r.stack = r.stack[:n]
	return nil
}

// SetFragment implements "output <fragment> <destination>".
func (r *Router) SetFragment(frag template.FragmentName, destName string) error {
	if _, ok := r.destinations[destName]; !ok {
		return fmt.Errorf("no such destination %q", destName)
	}
	r.active[frag] = destName
	return nil
}

// SetEverything implements "output everything <destination>".
func (r *Router) SetEverything(destName string) error {
	if _, ok := r.destinations[destName]; !ok {
		return fmt.Errorf("no such destination %q", destName)
	}
	for _, f := range template.AllFragments {
		r.active[f] = destName
	}
	return nil
}

// Route resolves the destination the active routing currently assigns frag
// to.
func (r *Router) Route(frag template.FragmentName) (*Destination, error) {
	name, ok := r.active[frag]
	if !ok {
		return nil, fmt.Errorf("fragment %q has no active destination", frag)
	}
	return r.Destination(name)
}

// WriteFragments routes every non-empty fragment of out to its active
// destination at buffer index 0, in §4.6's AllFragments order, so readers
// see the same order the generator produced them in within one block.
func (r *Router) WriteFragments(fragments map[template.FragmentName]string) error {
	for _, f := range template.AllFragments {
		text, ok := fragments[f]
		if !ok || text == "" {
			continue
		}
		dest, err := r.Route(f)
		if err != nil {
			return err
		}
		dest.Write(0, text)
	}
	return nil
}

// Dump implements the "dump <destination>" directive: returns and clears a
// buffer destination's accumulated text.
func (r *Router) Dump(name string) (string, error) {
	d, err := r.Destination(name)
	if err != nil {
		return "", err
	}
	if d.Kind != KindBuffer {
		return "", fmt.Errorf("destination %q is not a buffer", name)
	}
	text := d.Buffers.Render()
	d.Buffers.Clear()
	return text, nil
}
