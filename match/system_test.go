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

func TestMatchesCurrentSystemWithWildcard(t *testing.T) {
	host := Host{Name: "MyDistro", Version: "1.3"}
	assert.True(t, MatchesCurrentSystem([]string{"*"}, host))
}

func TestMatchesCurrentSystemWithNameOnly(t *testing.T) {
	host := Host{Name: "MyDistro", Version: "1.3"}
	assert.True(t, MatchesCurrentSystem([]string{"Foo", "MyDistro"}, host))
	assert.False(t, MatchesCurrentSystem([]string{"Foo"}, host))
}

func TestMatchesCurrentSystemWithVersionEquality(t *testing.T) {
	host := Host{Name: "MyDistro", Version: "1.3"}
	assert.True(t, MatchesCurrentSystem([]string{"MyDistro==1.3"}, host))
	assert.False(t, MatchesCurrentSystem([]string{"MyDistro==1.4"}, host))
}

func TestMatchesCurrentSystemWithVersionRange(t *testing.T) {
	host := Host{Name: "MyDistro", Version: "1.3"}
	assert.True(t, MatchesCurrentSystem([]string{"MyDistro>1.2,<1.4"}, host))
	assert.False(t, MatchesCurrentSystem([]string{"MyDistro>1.3,<1.4"}, host))
}

func TestMatchesCurrentSystemMac(t *testing.T) {
	host := Host{Name: "macosx", Version: "10.10.4"}
	assert.True(t, MatchesCurrentSystem([]string{"macosx"}, host))
	assert.True(t, MatchesCurrentSystem([]string{"macosx>=10.10"}, host))
	assert.False(t, MatchesCurrentSystem([]string{"macosx>=10.10.5"}, host))
	assert.True(t, MatchesCurrentSystem([]string{"*"}, host))
}

func TestMatchesCurrentSystemWindows(t *testing.T) {
	host := Host{Name: "windows", Version: "5.1.2600"}
	assert.True(t, MatchesCurrentSystem([]string{"windows"}, host))
	assert.True(t, MatchesCurrentSystem([]string{"windows>=5.1"}, host))
	assert.False(t, MatchesCurrentSystem([]string{"windows>=5.2"}, host))
	assert.True(t, MatchesCurrentSystem([]string{"*"}, host))
}

func TestStaticHostImplementsHostProvider(t *testing.T) {
	var provider HostProvider = StaticHost{Name: "centos", Version: "7"}
	assert.Equal(t, Host{Name: "centos", Version: "7"}, provider.CurrentHost())
}
