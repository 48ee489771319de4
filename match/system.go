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
	"bufio"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// Host identifies the running system for the purposes of system
// expression matching: a name (a Linux distribution ID, "macosx", or
// "windows") and a version string.
type Host struct {
	Name    string
	Version string
}

// HostProvider supplies the current Host. Production code uses
// DetectHost; tests substitute a StaticHost so that matching logic can
// be exercised without depending on the machine running the test.
type HostProvider interface {
	CurrentHost() Host
}

// StaticHost is a HostProvider that always returns a fixed Host,
// for tests.
type StaticHost Host

// CurrentHost implements HostProvider.
func (h StaticHost) CurrentHost() Host { return Host(h) }

// DetectHostProvider is the HostProvider used in production: it
// performs the one side-effectful environment read this package makes.
type DetectHostProvider struct{}

// CurrentHost implements HostProvider.
func (DetectHostProvider) CurrentHost() Host { return DetectHost() }

// DetectHost inspects the running system and returns its identity:
// distribution name and version on Linux (from /etc/os-release),
// "macosx" and the product version on macOS, "windows" and a
// best-effort version on Windows, or runtime.GOOS and an empty version
// anywhere else.
func DetectHost() Host {
	switch runtime.GOOS {
	case "linux":
		return detectLinuxHost()
	case "darwin":
		return Host{Name: "macosx", Version: detectDarwinVersion()}
	case "windows":
		return Host{Name: "windows", Version: detectWindowsVersion()}
	default:
		return Host{Name: runtime.GOOS}
	}
}

func detectLinuxHost() Host {
	f, err := os.Open("/etc/os-release")
	if err != nil {
		return Host{Name: "linux"}
	}
	defer f.Close()

	fields := make(map[string]string)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		idx := strings.IndexByte(line, '=')
		if idx < 0 {
			continue
		}
		key := line[:idx]
		value := strings.Trim(line[idx+1:], `"`)
		fields[key] = value
	}

	name := fields["ID"]
	if name == "" {
		name = "linux"
	}
	return Host{Name: name, Version: fields["VERSION_ID"]}
}

func detectDarwinVersion() string {
	out, err := exec.Command("sw_vers", "-productVersion").Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

func detectWindowsVersion() string {
	out, err := exec.Command("cmd", "/c", "ver").Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

// MatchesCurrentSystem reports whether any of the given system
// expressions matches host. The special value "*" always matches.
func MatchesCurrentSystem(systems []string, host Host) bool {
	for _, system := range systems {
		if system == "*" || MatchesVersionRange(host.Version, system, host.Name) {
			return true
		}
	}
	return false
}
