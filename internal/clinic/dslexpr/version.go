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

package dslexpr

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/mod/semver"
)

// Version is a MAJOR.MINOR tuple as written in a "[from MAJOR.MINOR]"
// deprecation marker.
type Version struct {
	Major, Minor int
}

func (v Version) String() string { return fmt.Sprintf("%d.%d", v.Major, v.Minor) }

// semverString normalizes a two-component version into the vX.Y.Z form
// golang.org/x/mod/semver requires.
func (v Version) semverString() string {
	return fmt.Sprintf("v%d.%d.0", v.Major, v.Minor)
}

// ParseVersion parses a "MAJOR.MINOR" literal as it appears after "[from ".
func ParseVersion(text string) (Version, error) {
	parts := strings.SplitN(text, ".", 2)
	if len(parts) != 2 {
		return Version{}, fmt.Errorf("expected MAJOR.MINOR version, got %q", text)
	}
	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return Version{}, fmt.Errorf("invalid major version in %q: %w", text, err)
	}
	minor, err := strconv.Atoi(parts[1])
	if err != nil {
		return Version{}, fmt.Errorf("invalid minor version in %q: %w", text, err)
	}
	v := Version{Major: major, Minor: minor}
	if !semver.IsValid(v.semverString()) {
		return Version{}, fmt.Errorf("version %q does not normalize to a valid semver", text)
	}
	return v, nil
}

// Compare orders two Versions the way semver.Compare orders their
// normalized vX.Y.0 forms: negative if a < b, 0 if equal, positive if a > b.
func Compare(a, b Version) int {
	return semver.Compare(a.semverString(), b.semverString())
}

// Before reports whether a is strictly older than b.
func Before(a, b Version) bool { return Compare(a, b) < 0 }

// HexVersion renders the CPython-style PY_VERSION_HEX-equivalent compile
// time constant: MAJOR, MINOR each take a byte, followed by a fixed 00C0
// suffix (micro 0, release level final, serial 0).
func (v Version) HexVersion() string {
	return fmt.Sprintf("0x%02X%02X00C0", v.Major, v.Minor)
}
