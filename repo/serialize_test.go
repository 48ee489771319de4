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
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

// These fixtures use already-UTC, "Z"-suffixed RFC 3339 timestamps
// throughout. parseTimestamp also accepts the bare, offset-less layouts
// Python's datetime.isoformat() produces, but Serialize always re-emits
// via time.RFC3339, so a bare timestamp would round-trip to the same
// instant under a different string. Pinning the fixtures to the
// canonical format keeps the comparison below a plain structural diff
// instead of one that has to reason about equivalent instants.

func TestIndexSerializeRoundTrip(t *testing.T) {
	original := indexDoc{
		FormatVersion:        formatVersion,
		LastUpdatedTimestamp: "2015-10-15T08:17:29Z",
		Bundles: []indexEntryDoc{
			{
				Name:                 "TestPackage",
				ManifestFile:         "TestPackage/index.json",
				CreatedTimestamp:     "2015-10-10T08:17:29Z",
				LastUpdatedTimestamp: "2015-10-15T08:17:29Z",
				CurrentVersion:       "1.0.5",
				PackageNames: []packageNameHint{
					{Systems: []string{"centos"}, PackageType: "rpm", Name: "python-reviewboard"},
				},
			},
		},
	}

	raw, err := json.Marshal(original)
	require.NoError(t, err)

	idx, err := deserializeIndex(nil, "/packages/index.json", "/packages/index.json", raw)
	require.NoError(t, err)

	raw2, err := idx.Serialize()
	require.NoError(t, err)

	var roundTripped indexDoc
	require.NoError(t, json.Unmarshal(raw2, &roundTripped))

	if diff := cmp.Diff(original, roundTripped); diff != "" {
		t.Errorf("Index.Serialize() round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestBundleSerializeRoundTrip(t *testing.T) {
	visible := true
	original := bundleManifestDoc{
		FormatVersion:        formatVersion,
		CreatedTimestamp:     "2015-10-10T08:17:29Z",
		LastUpdatedTimestamp: "2015-10-15T08:17:29Z",
		Name:                 "TestPackage",
		Description:          []string{"Summary line."},
		CurrentVersion:       "1.0.5",
		PackageNames: []packageNameHint{
			{Systems: []string{"centos"}, PackageType: "rpm", Name: "python-reviewboard"},
		},
		ChannelAliases: map[string]string{"stable": "1.0.x"},
		Channels: []channelEntryDoc{
			{
				Name:                 "1.0.x",
				ManifestFile:         "1.0.x.json",
				CreatedTimestamp:     "2015-10-11T08:17:29Z",
				LastUpdatedTimestamp: "2015-10-12T08:17:29Z",
				LatestVersion:        "1.0.5",
				Current:              true,
				Visible:              &visible,
			},
		},
	}

	raw, err := json.Marshal(original)
	require.NoError(t, err)

	bundle, err := bundleFromManifest(nil, "/packages/TestPackage/index.json", raw)
	require.NoError(t, err)

	raw2, err := bundle.Serialize(context.Background())
	require.NoError(t, err)

	var roundTripped bundleManifestDoc
	require.NoError(t, json.Unmarshal(raw2, &roundTripped))

	if diff := cmp.Diff(original, roundTripped); diff != "" {
		t.Errorf("Bundle.Serialize() round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestChannelSerializeRoundTrip(t *testing.T) {
	fixtures := &testFixtureLoader{docs: make(map[string]json.RawMessage)}
	bundle := &Bundle{AbsoluteManifestURL: "/packages/TestPackage/index.json", ldr: fixtures}

	visible := true
	original := channelManifestDoc{
		FormatVersion:        formatVersion,
		CreatedTimestamp:     "2015-10-11T08:17:29Z",
		LastUpdatedTimestamp: "2015-10-12T08:17:29Z",
		Releases: []releaseDoc{
			{Version: "1.0.5", Type: "stable", Visible: &visible, ReleaseNotesURL: "notes/1.0.5.html"},
			{Version: "1.0.4", Type: "stable", Visible: &visible},
		},
		PackageRules: []rulesDoc{
			{
				VersionRange: "*",
				PackageType:  "python",
				PackageName:  "reviewboard",
				Systems:      []string{"*"},
				Dependencies: dependenciesDoc{
					Required: []string{"Django>=1.6,<1.7"},
				},
			},
		},
	}

	raw, err := json.Marshal(original)
	require.NoError(t, err)
	fixtures.set("/packages/TestPackage/1.0.x.json", json.RawMessage(raw))

	entryDoc := channelEntryDoc{
		Name:                 "1.0.x",
		ManifestFile:         "1.0.x.json",
		CreatedTimestamp:     "2015-10-11T08:17:29Z",
		LastUpdatedTimestamp: "2015-10-12T08:17:29Z",
		LatestVersion:        "1.0.5",
		Current:              true,
		Visible:              &visible,
	}

	channel, err := channelFromEntryDoc(bundle, entryDoc)
	require.NoError(t, err)

	ctx := context.Background()
	_, err = channel.Releases(ctx)
	require.NoError(t, err)

	raw2, err := channel.Serialize(ctx)
	require.NoError(t, err)

	var roundTripped channelManifestDoc
	require.NoError(t, json.Unmarshal(raw2, &roundTripped))

	if diff := cmp.Diff(original, roundTripped); diff != "" {
		t.Errorf("Channel.Serialize() round trip mismatch (-want +got):\n%s", diff)
	}

	entryRaw, err := channel.SerializePackageEntry()
	require.NoError(t, err)

	var entryRoundTripped channelEntryDoc
	require.NoError(t, json.Unmarshal(entryRaw, &entryRoundTripped))

	if diff := cmp.Diff(entryDoc, entryRoundTripped); diff != "" {
		t.Errorf("Channel.SerializePackageEntry() round trip mismatch (-want +got):\n%s", diff)
	}
}
