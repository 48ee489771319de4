// Copyright 2023 Google LLC
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

/*
Package match implements the two pure predicates used throughout rbpkg
to decide applicability: version-range matching and host-system
matching.
*/
package match

import (
	"strings"

	"deps.dev/util/semver"
)

// MatchesVersionRange reports whether version satisfies the version
// range expression expr.
//
// expr has the shape "NAME<specifier>", where <specifier> is a
// comma-separated list of clauses using the operators
// ==, !=, <, <=, >, >=, ~=, ===, or is the literal "*". When name is
// non-empty, the NAME prefix of expr must equal it, or this returns
// false without inspecting the version at all.
//
// "*" matches every version, by itself or as the specifier following a
// NAME.
func MatchesVersionRange(version, expr, name string) bool {
	if expr == "*" {
		return true
	}

	exprName, specifier := splitDependencySpec(expr)
	if name != "" && exprName != name {
		return false
	}
	if specifier == "" || specifier == "*" {
		return true
	}

	constraint, err := semver.PyPI.ParseConstraint(specifier)
	if err != nil {
		return false
	}
	return constraint.Match(version)
}

// splitDependencySpec splits a dependency spec or system expression of
// the form "NAME<specifier>" into its name and specifier parts. The
// name is the longest prefix made up of characters that are legal in a
// package name (letters, digits, '.', '_', '-'); everything after it,
// trimmed of surrounding whitespace, is the specifier.
func splitDependencySpec(expr string) (name, specifier string) {
	expr = strings.TrimSpace(expr)

	i := 0
	for i < len(expr) && isNameRune(rune(expr[i])) {
		i++
	}
	return expr[:i], strings.TrimSpace(expr[i:])
}

func isNameRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= 'A' && r <= 'Z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == '.' || r == '_' || r == '-':
		return true
	default:
		return false
	}
}

// CompareVersions compares two version strings using the same PEP
// 440-style ordering as MatchesVersionRange, returning -1, 0, or 1. A
// version that fails to parse sorts before one that parses, and two
// unparseable versions compare equal.
func CompareVersions(a, b string) int {
	va, errA := semver.PyPI.Parse(a)
	vb, errB := semver.PyPI.Parse(b)
	switch {
	case errA != nil && errB != nil:
		return 0
	case errA != nil:
		return -1
	case errB != nil:
		return 1
	default:
		return va.Compare(vb)
	}
}
