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

// ReleaseType classifies how stable a Release is.
type ReleaseType string

const (
	ReleaseTypeAlpha  ReleaseType = "alpha"
	ReleaseTypeBeta   ReleaseType = "beta"
	ReleaseTypeRC     ReleaseType = "rc"
	ReleaseTypeStable ReleaseType = "stable"
)

// releaseDoc is the on-disk shape of a release entry inside a channel
// manifest.
type releaseDoc struct {
	Version         string `json:"version"`
	Type            string `json:"type,omitempty"`
	Visible         *bool  `json:"visible,omitempty"`
	ReleaseNotesURL string `json:"release_notes_url,omitempty"`
}

// Release is one published version within a Channel.
type Release struct {
	Channel         *Channel
	Version         string
	ReleaseType     ReleaseType
	Visible         bool
	ReleaseNotesURL string
}

func releaseFromDoc(channel *Channel, doc releaseDoc) *Release {
	releaseType := ReleaseType(doc.Type)
	if releaseType == "" {
		releaseType = ReleaseTypeStable
	}

	visible := true
	if doc.Visible != nil {
		visible = *doc.Visible
	}

	return &Release{
		Channel:         channel,
		Version:         doc.Version,
		ReleaseType:     releaseType,
		Visible:         visible,
		ReleaseNotesURL: doc.ReleaseNotesURL,
	}
}

func (r *Release) toDoc() releaseDoc {
	visible := r.Visible
	return releaseDoc{
		Version:         r.Version,
		Type:            string(r.ReleaseType),
		Visible:         &visible,
		ReleaseNotesURL: r.ReleaseNotesURL,
	}
}
