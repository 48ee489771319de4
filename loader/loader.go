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
Package loader provides pluggable data loaders for fetching manifest
documents from a package repository by path.
*/
package loader

import (
	"context"
	"encoding/json"
	"strings"
)

// Loader fetches a parsed JSON manifest document by repository path.
//
// Implementations may perform I/O and so accept a context for
// cancellation; the core resolution engine never calls LoadByPath
// directly, only the Repository Model does, at lazy-load time.
type Loader interface {
	// LoadByPath loads the document addressed by the given path
	// segments, joined with "/". It returns a *rbpkgerr.LoadDataError
	// if the path cannot be read or parsed, or a
	// *rbpkgerr.ConfigurationError if the loader itself is
	// misconfigured.
	LoadByPath(ctx context.Context, parts ...string) (json.RawMessage, error)
}

// joinPath joins repository path segments the way every Loader
// implementation needs to, before applying its own storage-specific
// interpretation.
func joinPath(parts []string) string {
	return strings.Join(parts, "/")
}

var defaultLoader Loader

// SetDefault sets the process-wide default Loader. This is the Go
// equivalent of rbpkg's original set_data_loader(): a package-level
// slot rather than a hard singleton, so tests can swap loaders freely
// between cases without coordinating global state elsewhere.
func SetDefault(l Loader) { defaultLoader = l }

// Default returns the process-wide default Loader, choosing one based
// on environment configuration on first use if none has been set.
// USE_FILE_LOADER=1 selects the local filesystem loader; anything else
// defaults to the network loader.
func Default() Loader {
	if defaultLoader == nil {
		defaultLoader = newFromEnv()
	}
	return defaultLoader
}

func newFromEnv() Loader {
	if useFileLoader() {
		return NewFileLoader(fileLoaderRoot())
	}
	return NewHTTPLoader(defaultBaseURL)
}
