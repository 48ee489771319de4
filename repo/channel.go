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
	"net/url"
	"time"

	"github.com/reviewboard/rbpkg/match"
)

// ChannelType distinguishes channels whose releases are safe for a
// stable install to depend on from prerelease channels, which may only
// be pulled in by another prerelease.
type ChannelType string

const (
	ChannelTypeRelease    ChannelType = "release"
	ChannelTypePrerelease ChannelType = "prerelease"
)

// channelEntryDoc is the projection of a Channel embedded in a Bundle
// manifest's "channels" list.
type channelEntryDoc struct {
	Name                 string `json:"name"`
	ManifestFile         string `json:"manifest_file"`
	CreatedTimestamp     string `json:"created_timestamp"`
	LastUpdatedTimestamp string `json:"last_updated_timestamp"`
	LatestVersion        string `json:"latest_version"`
	Current              bool   `json:"current,omitempty"`
	Visible              *bool  `json:"visible,omitempty"`
	ChannelType          string `json:"channel_type,omitempty"`
}

// channelManifestDoc is the full channel manifest document, fetched
// lazily on first access to a lazy field.
type channelManifestDoc struct {
	FormatVersion        string       `json:"format_version"`
	CreatedTimestamp     string       `json:"created_timestamp"`
	LastUpdatedTimestamp string       `json:"last_updated_timestamp"`
	Releases             []releaseDoc `json:"releases"`
	PackageRules         []rulesDoc   `json:"package_rules"`
}

// Channel is a named range of releases for a Bundle, such as "1.0.x" or
// "nightly".
type Channel struct {
	Bundle *Bundle

	ManifestURL          string
	AbsoluteManifestURL  string
	Name                 string
	CreatedTimestamp     time.Time
	LastUpdatedTimestamp time.Time
	LatestVersion        string
	Current              bool
	Visible              bool
	ChannelType          ChannelType

	loaded       bool
	releases     []*Release
	packageRules []*PackageRules
}

func channelFromEntryDoc(bundle *Bundle, doc channelEntryDoc) (*Channel, error) {
	created, err := parseTimestamp(doc.CreatedTimestamp)
	if err != nil {
		return nil, err
	}
	updated, err := parseTimestamp(doc.LastUpdatedTimestamp)
	if err != nil {
		return nil, err
	}

	visible := true
	if doc.Visible != nil {
		visible = *doc.Visible
	}

	channelType := ChannelType(doc.ChannelType)
	if channelType == "" {
		channelType = ChannelTypeRelease
	}

	absoluteURL, err := resolveURL(bundle.AbsoluteManifestURL, doc.ManifestFile)
	if err != nil {
		return nil, err
	}

	return &Channel{
		Bundle:               bundle,
		ManifestURL:          doc.ManifestFile,
		AbsoluteManifestURL:  absoluteURL,
		Name:                 doc.Name,
		CreatedTimestamp:     created,
		LastUpdatedTimestamp: updated,
		LatestVersion:        doc.LatestVersion,
		Current:              doc.Current,
		Visible:              visible,
		ChannelType:          channelType,
	}, nil
}

func (c *Channel) toEntryDoc() channelEntryDoc {
	var channelType string
	if c.ChannelType != ChannelTypeRelease {
		channelType = string(c.ChannelType)
	}

	visible := c.Visible
	return channelEntryDoc{
		Name:                 c.Name,
		ManifestFile:         c.ManifestURL,
		CreatedTimestamp:     c.CreatedTimestamp.Format(time.RFC3339),
		LastUpdatedTimestamp: c.LastUpdatedTimestamp.Format(time.RFC3339),
		LatestVersion:        c.LatestVersion,
		Current:              c.Current,
		Visible:              &visible,
		ChannelType:          channelType,
	}
}

// Releases returns the ordered list of releases in the channel, newest
// first, loading the channel manifest on first access.
func (c *Channel) Releases(ctx context.Context) ([]*Release, error) {
	if !c.loaded {
		if err := c.load(ctx); err != nil {
			return nil, err
		}
	}
	return c.releases, nil
}

// PackageRules returns the ordered list of package rules in the
// channel, loading the channel manifest on first access.
func (c *Channel) PackageRules(ctx context.Context) ([]*PackageRules, error) {
	if !c.loaded {
		if err := c.load(ctx); err != nil {
			return nil, err
		}
	}
	return c.packageRules, nil
}

// LatestRelease returns the first (newest) release in the channel, or
// nil if the channel has no releases.
func (c *Channel) LatestRelease(ctx context.Context) (*Release, error) {
	releases, err := c.Releases(ctx)
	if err != nil {
		return nil, err
	}
	if len(releases) == 0 {
		return nil, nil
	}
	return releases[0], nil
}

// GetAllRulesForVersion returns, in manifest order, every PackageRules
// whose version range matches version and, if requireCurrentSystem is
// set, whose systems match host.
func (c *Channel) GetAllRulesForVersion(ctx context.Context, version string, requireCurrentSystem bool, host match.Host) ([]*PackageRules, error) {
	allRules, err := c.PackageRules(ctx)
	if err != nil {
		return nil, err
	}

	var matched []*PackageRules
	for _, rules := range allRules {
		if rules.MatchesVersion(version, requireCurrentSystem, host) {
			matched = append(matched, rules)
		}
	}
	return matched, nil
}

// SerializePackageEntry serializes the channel into the projection
// embedded in its owning bundle's manifest.
func (c *Channel) SerializePackageEntry() (json.RawMessage, error) {
	return json.Marshal(c.toEntryDoc())
}

// Serialize serializes the channel's own manifest document: its
// releases and package rules.
func (c *Channel) Serialize(ctx context.Context) (json.RawMessage, error) {
	releases, err := c.Releases(ctx)
	if err != nil {
		return nil, err
	}
	rules, err := c.PackageRules(ctx)
	if err != nil {
		return nil, err
	}

	releaseDocs := make([]releaseDoc, len(releases))
	for i, r := range releases {
		releaseDocs[i] = r.toDoc()
	}

	ruleDocs := make([]rulesDoc, len(rules))
	for i, r := range rules {
		ruleDocs[i] = r.toDoc()
	}

	return json.Marshal(channelManifestDoc{
		FormatVersion:        formatVersion,
		CreatedTimestamp:     c.CreatedTimestamp.Format(time.RFC3339),
		LastUpdatedTimestamp: c.LastUpdatedTimestamp.Format(time.RFC3339),
		Releases:             releaseDocs,
		PackageRules:         ruleDocs,
	})
}

func (c *Channel) load(ctx context.Context) error {
	raw, err := loadDoc(ctx, c.Bundle.ldr, c.AbsoluteManifestURL)
	if err != nil {
		return err
	}

	var doc channelManifestDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return newLoadDataError(c.AbsoluteManifestURL, err)
	}

	releases := make([]*Release, len(doc.Releases))
	for i, releaseDoc := range doc.Releases {
		releases[i] = releaseFromDoc(c, releaseDoc)
	}

	rules := make([]*PackageRules, len(doc.PackageRules))
	for i, ruleDoc := range doc.PackageRules {
		rules[i] = rulesFromDoc(c, ruleDoc)
	}

	c.releases = releases
	c.packageRules = rules
	c.loaded = true
	return nil
}

func resolveURL(base, ref string) (string, error) {
	if ref == "" {
		return base, nil
	}

	baseURL, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return "", err
	}
	return baseURL.ResolveReference(refURL).String(), nil
}
