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
	"context"
	"encoding/json"
	"time"

	"github.com/reviewboard/rbpkg/loader"
	"github.com/reviewboard/rbpkg/rbpkgerr"
)

// formatVersion is the manifest schema version this package reads and
// writes.
const formatVersion = "1.0"

// timestampLayouts are the ISO-8601 layouts accepted by parseTimestamp,
// tried in order. Manifests in the wild carry both offset-qualified
// instants (time.RFC3339) and bare local instants with microsecond
// precision and no offset, matching Python's datetime.isoformat().
var timestampLayouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
}

// parseTimestamp parses an ISO-8601 instant as found throughout the
// manifest schemas. An empty string parses to the zero time.
func parseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}

	var lastErr error
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// newLoadDataError wraps err as a *rbpkgerr.LoadDataError naming path.
func newLoadDataError(path string, err error) error {
	return &rbpkgerr.LoadDataError{Path: path, Err: err}
}

// loadDoc fetches and parses the manifest document at the given
// absolute URL through ldr. Loader implementations already return
// *rbpkgerr.LoadDataError or *rbpkgerr.ConfigurationError as
// appropriate, so the error is returned unwrapped.
func loadDoc(ctx context.Context, ldr loader.Loader, absoluteURL string) (json.RawMessage, error) {
	return ldr.LoadByPath(ctx, absoluteURL)
}
