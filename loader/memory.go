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

package loader

import (
	"context"
	"encoding/json"

	"github.com/reviewboard/rbpkg/rbpkgerr"
)

// MemoryLoader is a Loader backed by a fixed mapping of repository path
// to document content, intended for unit tests that need precomputed,
// deserialized manifests without touching the filesystem or network.
type MemoryLoader struct {
	// Paths maps a joined repository path ("/packages/foo/index.json")
	// to its JSON document.
	Paths map[string]json.RawMessage
}

// NewMemoryLoader creates an empty MemoryLoader.
func NewMemoryLoader() *MemoryLoader {
	return &MemoryLoader{Paths: make(map[string]json.RawMessage)}
}

// Set registers the document to return for the given path segments.
func (l *MemoryLoader) Set(data json.RawMessage, parts ...string) {
	l.Paths[joinPath(parts)] = data
}

// LoadByPath implements Loader.
func (l *MemoryLoader) LoadByPath(ctx context.Context, parts ...string) (json.RawMessage, error) {
	path := joinPath(parts)

	data, ok := l.Paths[path]
	if !ok {
		return nil, &rbpkgerr.LoadDataError{Path: path, Err: errNotFound}
	}
	return data, nil
}

var errNotFound = &notFoundError{}

type notFoundError struct{}

func (*notFoundError) Error() string { return "the file could not be found" }
