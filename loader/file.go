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
	"os"
	"path/filepath"
	"strings"

	"github.com/reviewboard/rbpkg/rbpkgerr"
)

const (
	useFileLoaderEnv  = "USE_FILE_LOADER"
	fileLoaderRootEnv = "FILE_LOADER_ROOT"
	defaultBaseURL    = "https://packages.example.com"
)

func useFileLoader() bool {
	return os.Getenv(useFileLoaderEnv) == "1"
}

func fileLoaderRoot() string {
	return os.Getenv(fileLoaderRootEnv)
}

// FileLoader reads manifest documents from JSON files under a local
// root directory, primarily for local development against a checked
// out copy of the package repository.
type FileLoader struct {
	// Root is the local directory repository paths are resolved
	// against. It must be set to a valid directory before use.
	Root string
}

// NewFileLoader creates a FileLoader rooted at the given directory.
func NewFileLoader(root string) *FileLoader {
	return &FileLoader{Root: root}
}

// LoadByPath implements Loader.
func (l *FileLoader) LoadByPath(ctx context.Context, parts ...string) (json.RawMessage, error) {
	if l.Root == "" {
		return nil, &rbpkgerr.ConfigurationError{
			Message: fileLoaderRootEnv + " must be set to a valid path when using the file loader.",
		}
	}

	info, err := os.Stat(l.Root)
	if err != nil || !info.IsDir() {
		return nil, &rbpkgerr.ConfigurationError{
			Message: fileLoaderRootEnv + " must be set to a valid path when using the file loader.",
		}
	}

	relPath := normalizePath(joinPath(parts))
	path := filepath.Join(l.Root, relPath)

	// Reject any path that, once cleaned, escapes the root. Go's
	// filepath.Clean alone does not refuse "..", unlike the
	// os.path.normpath-based check this loader is ported from.
	absRoot, err := filepath.Abs(l.Root)
	if err != nil {
		return nil, &rbpkgerr.LoadDataError{Path: relPath, Err: err}
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, &rbpkgerr.LoadDataError{Path: relPath, Err: err}
	}
	if !strings.HasPrefix(absPath, absRoot+string(filepath.Separator)) && absPath != absRoot {
		return nil, &rbpkgerr.LoadDataError{Path: relPath, Err: os.ErrPermission}
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, &rbpkgerr.LoadDataError{Path: relPath, Err: err}
	}

	var raw json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &rbpkgerr.LoadDataError{Path: relPath, Err: err}
	}
	return raw, nil
}

// normalizePath converts a repository path (forward-slash separated)
// into a cleaned, native-separator relative path.
func normalizePath(path string) string {
	segments := strings.Split(path, "/")
	return filepath.Clean(filepath.Join(segments...))
}
