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

package repo

import (
	"encoding/json"
	"time"

	"github.com/reviewboard/rbpkg/loader"
)

// indexDoc is the on-disk shape of the root index manifest.
type indexDoc struct {
	FormatVersion        string          `json:"format_version"`
	LastUpdatedTimestamp string          `json:"last_updated_timestamp"`
	Bundles              []indexEntryDoc `json:"bundles"`
}

// Index is the root manifest of the repository: a lightweight
// projection of every tracked Bundle.
type Index struct {
	ManifestURL          string
	LastUpdatedTimestamp time.Time
	Bundles              []*Bundle
}

// deserializeIndex parses raw as an index manifest fetched from
// manifestURL. baseURL is the directory the manifest was found in,
// against which each bundle's own manifest_file is resolved.
func deserializeIndex(ldr loader.Loader, manifestURL, baseURL string, raw json.RawMessage) (*Index, error) {
	var doc indexDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, newLoadDataError(manifestURL, err)
	}

	updated, err := parseTimestamp(doc.LastUpdatedTimestamp)
	if err != nil {
		return nil, err
	}

	bundles := make([]*Bundle, len(doc.Bundles))
	for i, entryDoc := range doc.Bundles {
		bundle, err := bundleFromIndexEntryDoc(ldr, baseURL, entryDoc)
		if err != nil {
			return nil, err
		}
		bundles[i] = bundle
	}

	return &Index{
		ManifestURL:          manifestURL,
		LastUpdatedTimestamp: updated,
		Bundles:              bundles,
	}, nil
}

// Serialize serializes the index into a JSON-serializable document
// suitable for writing to the repository's index.json.
func (idx *Index) Serialize() (json.RawMessage, error) {
	entries := make([]indexEntryDoc, len(idx.Bundles))
	for i, b := range idx.Bundles {
		var err error
		raw, err := b.SerializeIndexEntry()
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &entries[i]); err != nil {
			return nil, err
		}
	}

	return json.Marshal(indexDoc{
		FormatVersion:        formatVersion,
		LastUpdatedTimestamp: idx.LastUpdatedTimestamp.Format(time.RFC3339),
		Bundles:              entries,
	})
}
