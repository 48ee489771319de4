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
Package repo implements the in-memory model of the package repository:
the root Index, per-package Bundles, their Channels, Releases, and
PackageRules, each loaded lazily from a Loader on first access, plus the
Repository facade that looks them up and caches them by name.
*/
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/reviewboard/rbpkg/loader"
	"github.com/reviewboard/rbpkg/rbpkgerr"
)

// BasePath is the root of the repository's path namespace.
const BasePath = "/packages/"

// Repository looks up packages from a package repository, caching
// Bundles by name. It is not safe for concurrent use while a lookup
// that would populate the cache is in flight; concurrent reads of
// already-cached bundles are fine.
type Repository struct {
	ldr loader.Loader

	index       *Index
	bundleCache map[string]*Bundle
}

// NewRepository creates a Repository backed by ldr.
func NewRepository(ldr loader.Loader) *Repository {
	return &Repository{
		ldr:         ldr,
		bundleCache: make(map[string]*Bundle),
	}
}

// ClearCaches discards the memoized index and all cached bundles. Any
// subsequent lookup re-fetches from the repository. Safe to call only
// when no lookup is in flight.
func (r *Repository) ClearCaches() {
	r.index = nil
	r.bundleCache = make(map[string]*Bundle)
}

// GetIndex returns the root index, fetching and memoizing it on first
// call.
func (r *Repository) GetIndex(ctx context.Context) (*Index, error) {
	if r.index != nil {
		return r.index, nil
	}

	manifestURL := r.indexPath()
	raw, err := loadDoc(ctx, r.ldr, manifestURL)
	if err != nil {
		return nil, err
	}

	index, err := deserializeIndex(r.ldr, manifestURL, BasePath, raw)
	if err != nil {
		return nil, err
	}

	r.index = index
	return index, nil
}

// LookupPackageBundle returns the full, loaded Bundle for name, fetching
// and caching it on first call. It returns *rbpkgerr.PackageLookupError
// if the bundle cannot be found or fetched.
func (r *Repository) LookupPackageBundle(ctx context.Context, name string) (*Bundle, error) {
	if bundle, ok := r.bundleCache[name]; ok {
		return bundle, nil
	}

	manifestURL := r.bundlePath(name)
	raw, err := loadDoc(ctx, r.ldr, manifestURL)
	if err != nil {
		var loadErr *rbpkgerr.LoadDataError
		if errors.As(err, &loadErr) {
			return nil, &rbpkgerr.PackageLookupError{Name: name, Err: loadErr}
		}
		return nil, err
	}

	bundle, err := bundleFromManifest(r.ldr, manifestURL, raw)
	if err != nil {
		return nil, err
	}

	r.bundleCache[name] = bundle
	return bundle, nil
}

func (r *Repository) indexPath() string {
	return fmt.Sprintf("%sindex.json", BasePath)
}

func (r *Repository) bundlePath(name string) string {
	return fmt.Sprintf("%s%s/index.json", BasePath, name)
}
