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

/*
Package install implements the resolution engine: given one or more
requested releases, it resolves the transitive closure of their
dependencies, detects version conflicts between them, and produces a
dependency-ordered install plan.
*/
package install

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/reviewboard/rbpkg/depgraph"
	"github.com/reviewboard/rbpkg/match"
	"github.com/reviewboard/rbpkg/rbpkgerr"
	"github.com/reviewboard/rbpkg/repo"
)

// InstallDepsMode controls which classes of dependencies are pulled in
// during resolution. The levels are monotone: each higher level
// includes everything the levels below it would install.
type InstallDepsMode int

const (
	// InstallDepsRequired installs only required dependencies. This is
	// the default.
	InstallDepsRequired InstallDepsMode = iota
	// InstallDepsRecommended additionally installs recommended
	// dependencies.
	InstallDepsRecommended
	// InstallDepsAll additionally installs optional dependencies.
	InstallDepsAll
)

// BundleInfo records one package accepted into a PendingInstall, either
// because the caller requested it directly or because something else
// depends on it.
type BundleInfo struct {
	Bundle      *repo.Bundle
	Release     *repo.Release
	PackageType repo.PackageType
	Rules       *repo.PackageRules
}

// PendingInstall tracks one or more packages to be installed together,
// along with their resolved transitive dependencies.
//
// Callers add one or more packages with AddPackage, then call
// ResolveDependencies once, then read the result with GetInstallOrder.
// A PendingInstall is not safe for concurrent use.
type PendingInstall struct {
	InstallDepsMode InstallDepsMode

	repository *repo.Repository
	host       match.Host

	bundleInfos    []*BundleInfo
	bundleInfosMap map[string]*BundleInfo
	depGraph       *depgraph.Graph
}

// New creates an empty PendingInstall that looks up dependencies
// through repository. host is used for host-system rule matching
// throughout resolution, allowing tests to substitute a fixed host
// instead of the running machine's.
func New(repository *repo.Repository, mode InstallDepsMode, host match.Host) *PendingInstall {
	return &PendingInstall{
		InstallDepsMode: mode,
		repository:      repository,
		host:            host,
		bundleInfosMap:  make(map[string]*BundleInfo),
		depGraph:        depgraph.New(),
	}
}

// AddPackage adds a package to be installed at the given release.
// packageTypeHint, if non-empty, selects which of the release's
// applicable PackageRules to use; if empty, the first applicable rule
// is used.
func (p *PendingInstall) AddPackage(ctx context.Context, release *repo.Release, packageTypeHint repo.PackageType) error {
	bundle := release.Channel.Bundle

	allRules, err := release.Channel.GetAllRulesForVersion(ctx, release.Version, true, p.host)
	if err != nil {
		return err
	}

	if len(allRules) == 0 {
		return &rbpkgerr.PackageInstallError{
			Message: fmt.Sprintf("%q could not be installed on this system.", bundle.Name),
		}
	}

	var rules *repo.PackageRules
	availableTypes := make(map[repo.PackageType]bool)

	for _, candidate := range allRules {
		availableTypes[candidate.PackageType] = true

		if packageTypeHint == "" || candidate.PackageType == packageTypeHint {
			rules = candidate
			break
		}
	}

	if rules == nil {
		choices := make([]string, 0, len(availableTypes))
		for t := range availableTypes {
			choices = append(choices, string(t))
		}
		sort.Strings(choices)

		return &rbpkgerr.PackageInstallError{
			Message: fmt.Sprintf("%q is not available as a %q package. Choices are: %s",
				bundle.Name, packageTypeHint, strings.Join(choices, ", ")),
		}
	}

	info := &BundleInfo{
		Bundle:      bundle,
		Release:     release,
		PackageType: packageTypeHint,
		Rules:       rules,
	}

	p.bundleInfos = append(p.bundleInfos, info)
	p.bundleInfosMap[bundle.Name] = info
	p.depGraph.Add(bundle.Name, nil)

	return nil
}

// GetInstallOrder returns every accepted package, in dependency order
// (dependencies before dependents). It must be called after
// ResolveDependencies.
func (p *PendingInstall) GetInstallOrder() []*BundleInfo {
	order := p.depGraph.IterSorted()
	infos := make([]*BundleInfo, 0, len(order))

	for _, name := range order {
		if info, ok := p.bundleInfosMap[name]; ok {
			infos = append(infos, info)
		}
	}

	return infos
}

// ResolveDependencies expands the set of accepted packages to include
// their transitive required (and, depending on InstallDepsMode,
// recommended/optional) dependencies.
//
// This is all-or-nothing: on any error the PendingInstall's state is
// restored to what it was before the call, so the caller can safely
// retry after fixing the underlying problem.
func (p *PendingInstall) ResolveDependencies(ctx context.Context) error {
	prevBundleInfos := append([]*BundleInfo(nil), p.bundleInfos...)
	prevBundleInfosMap := make(map[string]*BundleInfo, len(p.bundleInfosMap))
	for k, v := range p.bundleInfosMap {
		prevBundleInfosMap[k] = v
	}
	prevDepGraph := p.depGraph.Clone()

	if err := p.resolveDependenciesFor(ctx, p.bundleInfos); err != nil {
		p.bundleInfos = prevBundleInfos
		p.bundleInfosMap = prevBundleInfosMap
		p.depGraph = prevDepGraph
		return err
	}

	return nil
}

func (p *PendingInstall) resolveDependenciesFor(ctx context.Context, bundleInfos []*BundleInfo) error {
	var newInfos []*BundleInfo

	for _, info := range bundleInfos {
		rules := info.Rules

		added, err := p.processDependencyList(ctx, info, rules.RequiredDependencies)
		if err != nil {
			return err
		}
		newInfos = append(newInfos, added...)

		if p.InstallDepsMode == InstallDepsRecommended || p.InstallDepsMode == InstallDepsAll {
			added, err := p.processDependencyList(ctx, info, rules.RecommendedDependencies)
			if err != nil {
				return err
			}
			newInfos = append(newInfos, added...)

			if p.InstallDepsMode == InstallDepsAll {
				added, err := p.processDependencyList(ctx, info, rules.OptionalDependencies)
				if err != nil {
					return err
				}
				newInfos = append(newInfos, added...)
			}
		}
	}

	if len(newInfos) == 0 {
		return nil
	}

	p.bundleInfos = append(p.bundleInfos, newInfos...)
	for _, info := range newInfos {
		p.bundleInfosMap[info.Bundle.Name] = info
	}

	return p.resolveDependenciesFor(ctx, newInfos)
}

// processDependencyList resolves one list of dependency specs
// ("NAME<specifier>") belonging to info, returning the BundleInfo
// records newly created for dependencies not already accepted.
func (p *PendingInstall) processDependencyList(ctx context.Context, info *BundleInfo, deps []string) ([]*BundleInfo, error) {
	var added []*BundleInfo

	for _, dep := range deps {
		depName, _ := splitDependencySpec(dep)

		if prev, ok := p.bundleInfosMap[depName]; ok {
			if !match.MatchesVersionRange(prev.Release.Version, dep, "") {
				return nil, &rbpkgerr.DependencyConflictError{
					Name:    depName,
					Message: fmt.Sprintf("Multiple packages want %s at incompatible versions.", depName),
				}
			}

			p.depGraph.Add(info.Bundle.Name, []string{depName})
			continue
		}

		depBundle, err := p.repository.LookupPackageBundle(ctx, depName)
		if err != nil {
			return nil, err
		}

		channelTypes := map[repo.ChannelType]bool{
			repo.ChannelTypeRelease:          true,
			info.Release.Channel.ChannelType: true,
		}

		depRelease, err := depBundle.GetLatestReleaseForVersionRange(ctx, dep, channelTypes)
		if err != nil {
			return nil, err
		}

		depRules, err := depRelease.Channel.GetAllRulesForVersion(ctx, depRelease.Version, true, p.host)
		if err != nil {
			return nil, err
		}
		if len(depRules) == 0 {
			return nil, &rbpkgerr.PackageInstallError{
				Message: fmt.Sprintf("%q could not be installed on this system.", depBundle.Name),
			}
		}

		p.depGraph.Add(info.Bundle.Name, []string{depBundle.Name})

		added = append(added, &BundleInfo{
			Bundle:  depBundle,
			Release: depRelease,
			Rules:   depRules[0],
		})
	}

	return added, nil
}

// splitDependencySpec splits a dependency spec "NAME<specifier>" into
// its name and the full spec string used for MatchesVersionRange's
// range argument.
func splitDependencySpec(dep string) (name, specifier string) {
	i := 0
	for i < len(dep) && isNameByte(dep[i]) {
		i++
	}
	return dep[:i], dep
}

func isNameByte(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z':
		return true
	case b >= 'A' && b <= 'Z':
		return true
	case b >= '0' && b <= '9':
		return true
	case b == '.' || b == '_' || b == '-':
		return true
	default:
		return false
	}
}
