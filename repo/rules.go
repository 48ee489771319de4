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

import "github.com/reviewboard/rbpkg/match"

// PackageType identifies the native packaging format PackageRules
// describes an install recipe for.
type PackageType string

const (
	PackageTypePython PackageType = "python"
	PackageTypeRPM    PackageType = "rpm"
	PackageTypeDeb    PackageType = "deb"
	PackageTypeSource PackageType = "source"
)

// dependenciesDoc is the on-disk shape of a rule's dependency lists.
type dependenciesDoc struct {
	Required    []string `json:"required,omitempty"`
	Recommended []string `json:"recommended,omitempty"`
	Optional    []string `json:"optional,omitempty"`
}

// rulesDoc is the on-disk shape of a package_rules entry inside a
// channel manifest.
type rulesDoc struct {
	VersionRange        string          `json:"version_range"`
	PackageType         string          `json:"package_type"`
	PackageName         string          `json:"package_name,omitempty"`
	Systems             []string        `json:"systems"`
	Dependencies        dependenciesDoc `json:"dependencies,omitempty"`
	Replaces            []string        `json:"replaces,omitempty"`
	PreInstallCommands  []string        `json:"pre_install_commands,omitempty"`
	InstallCommands     []string        `json:"install_commands,omitempty"`
	PostInstallCommands []string        `json:"post_install_commands,omitempty"`
	InstallFlags        []string        `json:"install_flags,omitempty"`
	UninstallCommands   []string        `json:"uninstall_commands,omitempty"`
}

// PackageRules is a platform-specific install recipe applicable to a
// range of Release versions.
type PackageRules struct {
	Channel *Channel

	VersionRange string
	PackageType  PackageType
	PackageName  string
	Systems      []string

	RequiredDependencies    []string
	RecommendedDependencies []string
	OptionalDependencies    []string

	Replaces            []string
	PreInstallCommands  []string
	InstallCommands     []string
	PostInstallCommands []string
	InstallFlags        []string
	UninstallCommands   []string
}

func rulesFromDoc(channel *Channel, doc rulesDoc) *PackageRules {
	return &PackageRules{
		Channel:                 channel,
		VersionRange:            doc.VersionRange,
		PackageType:             PackageType(doc.PackageType),
		PackageName:             doc.PackageName,
		Systems:                 doc.Systems,
		RequiredDependencies:    doc.Dependencies.Required,
		RecommendedDependencies: doc.Dependencies.Recommended,
		OptionalDependencies:    doc.Dependencies.Optional,
		Replaces:                doc.Replaces,
		PreInstallCommands:      doc.PreInstallCommands,
		InstallCommands:         doc.InstallCommands,
		PostInstallCommands:     doc.PostInstallCommands,
		InstallFlags:            doc.InstallFlags,
		UninstallCommands:       doc.UninstallCommands,
	}
}

func (r *PackageRules) toDoc() rulesDoc {
	return rulesDoc{
		VersionRange: r.VersionRange,
		PackageType:  string(r.PackageType),
		PackageName:  r.PackageName,
		Systems:      r.Systems,
		Dependencies: dependenciesDoc{
			Required:    r.RequiredDependencies,
			Recommended: r.RecommendedDependencies,
			Optional:    r.OptionalDependencies,
		},
		Replaces:            r.Replaces,
		PreInstallCommands:  r.PreInstallCommands,
		InstallCommands:     r.InstallCommands,
		PostInstallCommands: r.PostInstallCommands,
		InstallFlags:        r.InstallFlags,
		UninstallCommands:   r.UninstallCommands,
	}
}

// MatchesVersion reports whether these rules apply to version. When
// requireCurrentSystem is true, the rules must also list a system
// expression matching host; host is supplied by the caller (normally
// the result of match.DetectHost) rather than read globally, keeping
// this package free of hidden environment access.
func (r *PackageRules) MatchesVersion(version string, requireCurrentSystem bool, host match.Host) bool {
	if !match.MatchesVersionRange(version, r.VersionRange, "") {
		return false
	}

	if !requireCurrentSystem {
		return true
	}

	return match.MatchesCurrentSystem(r.Systems, host)
}
