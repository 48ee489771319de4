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

package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchesVersionRangeWithNameOnly(t *testing.T) {
	assert.True(t, MatchesVersionRange("1.0", "foo", "foo"))
	assert.False(t, MatchesVersionRange("1.0", "foo", "bar"))
}

func TestMatchesVersionRangeWithEquality(t *testing.T) {
	assert.True(t, MatchesVersionRange("1.0", "foo==1.0", ""))
	assert.False(t, MatchesVersionRange("2.0", "foo==1.0", ""))
}

func TestMatchesVersionRangeWithRange(t *testing.T) {
	assert.True(t, MatchesVersionRange("2.0", "foo>=1.0,<3.0", ""))
	assert.False(t, MatchesVersionRange("2.0", "foo>2.0,<3.0", ""))
}

func TestMatchesVersionRangeWildcard(t *testing.T) {
	assert.True(t, MatchesVersionRange("1.0", "*", ""))
	assert.True(t, MatchesVersionRange("1.0", "*", "anything"))
}

func TestMatchesVersionRangeMalformedConstraintFailsToMatch(t *testing.T) {
	// An unparseable constraint is not an error: it simply never
	// matches, keeping the predicate infallible.
	assert.False(t, MatchesVersionRange("1.0", "foo!!!@@@", ""))
}

func TestCompareVersions(t *testing.T) {
	assert.Equal(t, -1, CompareVersions("1.0", "2.0"))
	assert.Equal(t, 0, CompareVersions("1.0", "1.0"))
	assert.Equal(t, 1, CompareVersions("2.0", "1.0"))
}

func TestCompareVersionsUnparseable(t *testing.T) {
	assert.Equal(t, 0, CompareVersions("not-a-version", "also-not"))
	assert.Equal(t, -1, CompareVersions("not-a-version", "1.0"))
	assert.Equal(t, 1, CompareVersions("1.0", "not-a-version"))
}
