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
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/reviewboard/rbpkg/rbpkgerr"
)

// HTTPLoader fetches manifest documents over HTTP(S), joining repository
// paths onto a base URL. This is the default loader: the production
// rbpkg package repository is served over the network, with the actual
// transport left unspecified by the core (the original implementation
// deferred this entirely to an external collaborator).
type HTTPLoader struct {
	// BaseURL is prefixed to every joined repository path.
	BaseURL string
	// Client is the HTTP client used to perform requests. Defaults to
	// http.DefaultClient when nil.
	Client *http.Client
}

// NewHTTPLoader creates an HTTPLoader rooted at the given base URL.
func NewHTTPLoader(baseURL string) *HTTPLoader {
	return &HTTPLoader{BaseURL: baseURL}
}

// LoadByPath implements Loader.
func (l *HTTPLoader) LoadByPath(ctx context.Context, parts ...string) (json.RawMessage, error) {
	path := joinPath(parts)
	url := strings.TrimRight(l.BaseURL, "/") + "/" + strings.TrimLeft(path, "/")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &rbpkgerr.LoadDataError{Path: path, Err: err}
	}

	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, &rbpkgerr.LoadDataError{Path: path, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &rbpkgerr.LoadDataError{Path: path, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &rbpkgerr.LoadDataError{
			Path: path,
			Err:  fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	var raw json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &rbpkgerr.LoadDataError{Path: path, Err: err}
	}
	return raw, nil
}
