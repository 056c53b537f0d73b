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

// Package clinicerr defines the single error kind every user-facing
// validation in the clinic toolchain reports through: a message tied to the
// file and line number that triggered it.
package clinicerr

import "fmt"

// Error is a diagnostic raised while parsing or generating a directive
// block. The top-level runner formats it as a one-line "file:line: message"
// diagnostic and exits with status 1.
type Error struct {
	File    string
	Line    int
	Message string
	Wrapped error
}

func (e *Error) Error() string {
	if e.File == "" {
		return e.Message
	}
	if e.Line <= 0 {
		return fmt.Sprintf("%s: %s", e.File, e.Message)
	}
	return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Message)
}

func (e *Error) Unwrap() error { return e.Wrapped }

// New builds an Error with a formatted message, no file/line context yet.
// Callers deeper in the stack attach context with WithLocation as the error
// propagates up to a point where file/line is known.
func New(format string, args ...any) *Error {
	return &Error{Message: fmt.Sprintf(format, args...)}
}

// Wrap adapts any error into an Error, preserving it via Unwrap.
func Wrap(err error, format string, args ...any) *Error {
	return &Error{Message: fmt.Sprintf(format, args...), Wrapped: err}
}

// WithLocation returns a copy of err with file/line attached, unless it
// already carries location information.
func WithLocation(err error, file string, line int) *Error {
	var ce *Error
	if asError(err, &ce) {
		if ce.File == "" {
			ce.File = file
		}
		if ce.Line == 0 {
			ce.Line = line
		}
		return ce
	}
	return &Error{File: file, Line: line, Message: err.Error(), Wrapped: err}
}

func asError(err error, target **Error) bool {
	for err != nil {
		if ce, ok := err.(*Error); ok {
			*target = ce
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
