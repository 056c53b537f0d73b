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

// Command clinic rewrites "/*[clinic input] ... [clinic start generated
// code]*/ ... /*[clinic end generated code: ...]*/" blocks in C source
// files in place, generating argument-parsing boilerplate from the
// directive DSL each block contains (spec §1, §6).
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/clinicgen/clinic/internal/clinic/clinicerr"
	"github.com/clinicgen/clinic/internal/clinic/config"
	"github.com/clinicgen/clinic/internal/clinic/converter"
	"github.com/clinicgen/clinic/internal/clinic/orchestrator"
)

func main() {
	var excludes stringList

	force := flag.Bool("force", false, "Accepted for compatibility; has no effect")
	outputPath := flag.String("output", "", "Write the rewritten file to this path instead of editing in place")
	verbose := flag.Bool("verbose", false, "Print one line per processed file")
	converters := flag.String("converters", "", "Path to a directory of converter definitions (out of scope; accepted for compatibility)")
	makeMode := flag.Bool("make", false, "Walk --srcdir recursively and process every candidate source file")
	srcdir := flag.String("srcdir", ".", "Root directory to walk under --make")
	limited := flag.Bool("limited", false, "Force the limited-API code path for every file processed")
	configPath := flag.String("config", ".clinic.yaml", "Path to a project config file")
	flag.Var(&excludes, "exclude", "Glob (relative to --srcdir) to skip; may be repeated")
	flag.Parse()

	_ = converters // accepted for CLI compatibility; converter libraries are out of scope (spec §1)
	_ = force      // accepted for CLI compatibility; ProcessFile does not consult it, so blocks whose recorded checksum no longer matches are regenerated

	proj, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading %s: %v", *configPath, err)
	}
	var cliLimited *bool
	if isFlagSet("limited") {
		cliLimited = limited
	}
	mergedExcludes, mergedLimited := proj.Merge(excludes.values, cliLimited)

	reg := converter.NewBuiltinRegistry()

	if *makeMode {
		runMake(*srcdir, mergedExcludes, reg, mergedLimited, *verbose)
		return
	}

	if flag.NArg() == 0 {
		flag.Usage()
		log.Fatalf("clinic: expected at least one file, or --make with --srcdir")
	}
	for _, path := range flag.Args() {
		text, changed, err := orchestrator.ProcessFile(path, reg, mergedLimited)
		if err != nil {
			reportAndExit(err)
		}
		dest := path
		if *outputPath != "" {
			dest = *outputPath
		}
		if !changed && dest == path {
			if *verbose {
				fmt.Printf("%s: unchanged\n", path)
			}
			continue
		}
		if _, err := orchestrator.WriteIfChanged(dest, text); err != nil {
			reportAndExit(err)
		}
		if *verbose {
			fmt.Printf("%s: updated\n", path)
		}
	}
}

func runMake(srcdir string, excludes []string, reg *converter.Registry, limited bool, verbose bool) {
	results, excluded, err := orchestrator.Walk(orchestrator.WalkOptions{
		SrcDir:       srcdir,
		ExcludeGlobs: excludes,
		Registry:     reg,
		ForceLimited: limited,
	})
	if err != nil {
		reportAndExit(err)
	}
	if verbose {
		for _, path := range excluded {
			fmt.Printf("%s: excluded\n", path)
		}
	}
	summary, firstErr := orchestrator.SummarizeWalk(results)
	if verbose {
		fmt.Print(summary)
	}
	if firstErr != nil {
		reportAndExit(firstErr)
	}
}

func reportAndExit(err error) {
	var ce *clinicerr.Error
	if e, ok := err.(*clinicerr.Error); ok {
		ce = e
	}
	if ce != nil {
		fmt.Fprintln(os.Stderr, ce.Error())
	} else {
		fmt.Fprintln(os.Stderr, err.Error())
	}
	os.Exit(1)
}

// isFlagSet reports whether name was explicitly passed on the command line,
// distinguishing "not set" from "set to its zero value" for --limited so the
// project config's Limited default can still take effect.
func isFlagSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

// stringList implements flag.Value for a repeatable string flag (--exclude).
type stringList struct {
	values []string
}

func (s *stringList) String() string {
	return strings.Join(s.values, ",")
}

func (s *stringList) Set(value string) error {
	s.values = append(s.values, value)
	return nil
}
