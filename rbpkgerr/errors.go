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
Package rbpkgerr defines the structured error taxonomy shared by every
rbpkg component: the data loaders, the repository model and facade, and
the resolution engine.
*/
package rbpkgerr

import "fmt"

// LoadDataError indicates that a manifest document could not be fetched
// or parsed by a Data Loader.
type LoadDataError struct {
	Path string
	Err  error
}

func (e *LoadDataError) Error() string {
	return fmt.Sprintf("unable to load %q: %v", e.Path, e.Err)
}

func (e *LoadDataError) Unwrap() error { return e.Err }

// ConfigurationError indicates that a Data Loader, or the environment it
// depends on, is misconfigured.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string { return e.Message }

// PackageLookupError indicates that a named package bundle could not be
// found in the repository.
type PackageLookupError struct {
	Name string
	Err  error
}

func (e *PackageLookupError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("package %q: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("package %q not found", e.Name)
}

func (e *PackageLookupError) Unwrap() error { return e.Err }

// PackageInstallError indicates that a release exists but has no
// applicable rules for the current system, or no rules match the
// requested package type.
type PackageInstallError struct {
	Message string
}

func (e *PackageInstallError) Error() string { return e.Message }

// DependencyConflictError indicates that two accepted packages require
// mutually incompatible versions of a third.
type DependencyConflictError struct {
	Name    string
	Message string
}

func (e *DependencyConflictError) Error() string { return e.Message }
