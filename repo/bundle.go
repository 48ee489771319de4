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
	"fmt"
	"strings"
	"time"

	"github.com/reviewboard/rbpkg/loader"
	"github.com/reviewboard/rbpkg/match"
	"github.com/reviewboard/rbpkg/rbpkgerr"
)

// packageNameHint is one entry of a Bundle's aggregated package-name
// projection: which systems and package type map to which native
// package name.
type packageNameHint struct {
	Systems     []string `json:"systems"`
	PackageType string   `json:"package_type"`
	Name        string   `json:"name"`
}

// indexEntryDoc is the projection of a Bundle embedded in the root
// index manifest.
type indexEntryDoc struct {
	Name                 string            `json:"name"`
	ManifestFile         string            `json:"manifest_file"`
	CreatedTimestamp     string            `json:"created_timestamp"`
	LastUpdatedTimestamp string            `json:"last_updated_timestamp"`
	CurrentVersion       string            `json:"current_version"`
	PackageNames         []packageNameHint `json:"package_names,omitempty"`
}

// bundleManifestDoc is the full bundle manifest document, fetched
// lazily on first access to a lazy field.
type bundleManifestDoc struct {
	FormatVersion        string            `json:"format_version"`
	CreatedTimestamp     string            `json:"created_timestamp"`
	LastUpdatedTimestamp string            `json:"last_updated_timestamp"`
	Name                 string            `json:"name"`
	Description          []string          `json:"description,omitempty"`
	CurrentVersion       string            `json:"current_version"`
	PackageNames         []packageNameHint `json:"package_names,omitempty"`
	ChannelAliases       map[string]string `json:"channel_aliases,omitempty"`
	Channels             []channelEntryDoc `json:"channels,omitempty"`
}

// Bundle is a collection of Channels for one logical package, the
// entity users refer to by name when installing.
type Bundle struct {
	ManifestURL          string
	AbsoluteManifestURL  string
	Name                 string
	CreatedTimestamp     time.Time
	LastUpdatedTimestamp time.Time
	CurrentVersion       string
	PackageNames         []packageNameHint

	ldr loader.Loader

	loaded         bool
	description    string
	channelAliases map[string]string
	channels       []*Channel
}

func bundleFromIndexEntryDoc(ldr loader.Loader, baseURL string, doc indexEntryDoc) (*Bundle, error) {
	created, err := parseTimestamp(doc.CreatedTimestamp)
	if err != nil {
		return nil, err
	}
	updated, err := parseTimestamp(doc.LastUpdatedTimestamp)
	if err != nil {
		return nil, err
	}

	absoluteURL, err := resolveURL(baseURL, doc.ManifestFile)
	if err != nil {
		return nil, err
	}

	return &Bundle{
		ManifestURL:          doc.ManifestFile,
		AbsoluteManifestURL:  absoluteURL,
		Name:                 doc.Name,
		CreatedTimestamp:     created,
		LastUpdatedTimestamp: updated,
		CurrentVersion:       doc.CurrentVersion,
		PackageNames:         doc.PackageNames,
		ldr:                  ldr,
	}, nil
}

// bundleFromManifest deserializes a full bundle manifest fetched
// directly (as opposed to via its index-entry projection), per
// Repository.LookupPackageBundle.
func bundleFromManifest(ldr loader.Loader, absoluteManifestURL string, raw json.RawMessage) (*Bundle, error) {
	var doc bundleManifestDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, newLoadDataError(absoluteManifestURL, err)
	}

	created, err := parseTimestamp(doc.CreatedTimestamp)
	if err != nil {
		return nil, err
	}
	updated, err := parseTimestamp(doc.LastUpdatedTimestamp)
	if err != nil {
		return nil, err
	}

	bundle := &Bundle{
		ManifestURL:          absoluteManifestURL,
		AbsoluteManifestURL:  absoluteManifestURL,
		Name:                 doc.Name,
		CreatedTimestamp:     created,
		LastUpdatedTimestamp: updated,
		CurrentVersion:       doc.CurrentVersion,
		PackageNames:         doc.PackageNames,
		ldr:                  ldr,
		description:          strings.Join(doc.Description, "\n"),
		channelAliases:       doc.ChannelAliases,
	}

	channels, err := channelsFromDocs(bundle, doc.Channels)
	if err != nil {
		return nil, err
	}
	bundle.channels = channels
	bundle.loaded = true

	return bundle, nil
}

func channelsFromDocs(bundle *Bundle, docs []channelEntryDoc) ([]*Channel, error) {
	channels := make([]*Channel, len(docs))
	for i, doc := range docs {
		channel, err := channelFromEntryDoc(bundle, doc)
		if err != nil {
			return nil, err
		}
		channels[i] = channel
	}
	return channels, nil
}

// SerializeIndexEntry serializes the bundle into the lightweight
// projection embedded in the root index manifest.
func (b *Bundle) SerializeIndexEntry() (json.RawMessage, error) {
	return json.Marshal(indexEntryDoc{
		Name:                 b.Name,
		ManifestFile:         b.ManifestURL,
		CreatedTimestamp:     b.CreatedTimestamp.Format(time.RFC3339),
		LastUpdatedTimestamp: b.LastUpdatedTimestamp.Format(time.RFC3339),
		CurrentVersion:       b.CurrentVersion,
		PackageNames:         b.PackageNames,
	})
}

// Serialize serializes the bundle's own manifest document: its
// description, channel aliases, and channels.
func (b *Bundle) Serialize(ctx context.Context) (json.RawMessage, error) {
	description, err := b.Description(ctx)
	if err != nil {
		return nil, err
	}
	aliases, err := b.ChannelAliases(ctx)
	if err != nil {
		return nil, err
	}
	channels, err := b.Channels(ctx)
	if err != nil {
		return nil, err
	}

	channelDocs := make([]channelEntryDoc, len(channels))
	for i, c := range channels {
		channelDocs[i] = c.toEntryDoc()
	}

	return json.Marshal(bundleManifestDoc{
		FormatVersion:        formatVersion,
		CreatedTimestamp:     b.CreatedTimestamp.Format(time.RFC3339),
		LastUpdatedTimestamp: b.LastUpdatedTimestamp.Format(time.RFC3339),
		Name:                 b.Name,
		Description:          strings.Split(description, "\n"),
		CurrentVersion:       b.CurrentVersion,
		PackageNames:         b.PackageNames,
		ChannelAliases:       aliases,
		Channels:             channelDocs,
	})
}

// Description returns the bundle's description, loading the bundle
// manifest on first access.
func (b *Bundle) Description(ctx context.Context) (string, error) {
	if !b.loaded {
		if err := b.load(ctx); err != nil {
			return "", err
		}
	}
	return b.description, nil
}

// ChannelAliases returns the mapping of alias name to channel name,
// loading the bundle manifest on first access.
func (b *Bundle) ChannelAliases(ctx context.Context) (map[string]string, error) {
	if !b.loaded {
		if err := b.load(ctx); err != nil {
			return nil, err
		}
	}
	return b.channelAliases, nil
}

// Channels returns the bundle's channels, loading the bundle manifest
// on first access.
func (b *Bundle) Channels(ctx context.Context) ([]*Channel, error) {
	if !b.loaded {
		if err := b.load(ctx); err != nil {
			return nil, err
		}
	}
	return b.channels, nil
}

// CurrentChannel returns the single channel whose Current flag is set,
// or nil if none is.
func (b *Bundle) CurrentChannel(ctx context.Context) (*Channel, error) {
	channels, err := b.Channels(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range channels {
		if c.Current {
			return c, nil
		}
	}
	return nil, nil
}

// GetLatestReleaseForVersionRange returns the highest-versioned visible
// Release across every channel whose ChannelType is in channelTypes,
// satisfying versionRange. When channelTypes omits ChannelTypePrerelease,
// prerelease channels are not consulted at all, so a stable install
// never pulls in a prerelease dependency.
func (b *Bundle) GetLatestReleaseForVersionRange(ctx context.Context, versionRange string, channelTypes map[ChannelType]bool) (*Release, error) {
	channels, err := b.Channels(ctx)
	if err != nil {
		return nil, err
	}

	var best *Release
	for _, channel := range channels {
		if !channelTypes[channel.ChannelType] {
			continue
		}

		releases, err := channel.Releases(ctx)
		if err != nil {
			return nil, err
		}

		for _, release := range releases {
			if !release.Visible {
				continue
			}
			if !match.MatchesVersionRange(release.Version, versionRange, "") {
				continue
			}
			if best == nil || match.CompareVersions(release.Version, best.Version) > 0 {
				best = release
			}
		}
	}

	if best == nil {
		return nil, &rbpkgerr.PackageLookupError{
			Name: b.Name,
			Err:  fmt.Errorf("no release of %q satisfies %q", b.Name, versionRange),
		}
	}
	return best, nil
}

func (b *Bundle) load(ctx context.Context) error {
	raw, err := loadDoc(ctx, b.ldr, b.AbsoluteManifestURL)
	if err != nil {
		return err
	}

	var doc bundleManifestDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return newLoadDataError(b.AbsoluteManifestURL, err)
	}

	channels, err := channelsFromDocs(b, doc.Channels)
	if err != nil {
		return err
	}

	b.description = strings.Join(doc.Description, "\n")
	b.channelAliases = doc.ChannelAliases
	b.channels = channels
	b.loaded = true
	return nil
}
