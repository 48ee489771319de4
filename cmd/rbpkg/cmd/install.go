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

package cmd

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/reviewboard/rbpkg/install"
	"github.com/reviewboard/rbpkg/rbpkgerr"
	"github.com/reviewboard/rbpkg/repo"
)

func newInstallCmd(cfg *Config) *cobra.Command {
	var packageType string
	var channelName string
	var deps string

	installCmd := &cobra.Command{
		Use:   "install <bundle>",
		Short: "Install a package and its dependencies",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := parseInstallDepsMode(deps)
			if err != nil {
				return err
			}

			return runInstall(cmd.Context(), cfg, args[0], repo.PackageType(packageType), channelName, mode)
		},
	}

	installCmd.Flags().StringVar(&packageType, "package-type", "", "The native package type to install (python, rpm, deb, source). Defaults to the first available.")
	installCmd.Flags().StringVar(&channelName, "channel", "", "The channel to install from. Defaults to the bundle's current channel.")
	installCmd.Flags().StringVar(&deps, "deps", "required", "Which classes of dependencies to install: required, recommended, or all.")

	return installCmd
}

func parseInstallDepsMode(deps string) (install.InstallDepsMode, error) {
	switch deps {
	case "required", "":
		return install.InstallDepsRequired, nil
	case "recommended":
		return install.InstallDepsRecommended, nil
	case "all":
		return install.InstallDepsAll, nil
	default:
		return 0, &rbpkgerr.ConfigurationError{
			Message: fmt.Sprintf("--deps must be one of required, recommended, all (got %q)", deps),
		}
	}
}

// runInstall resolves bundleName to a release, expands its dependency
// closure, and reports the install order. Actually invoking the
// platform-specific install commands in each resolved PackageRules is
// delegated to an external collaborator; this engine's job ends at
// producing the ordered plan.
func runInstall(ctx context.Context, cfg *Config, bundleName string, packageType repo.PackageType, channelName string, mode install.InstallDepsMode) error {
	release, err := resolveRelease(ctx, cfg, bundleName, channelName)
	if err != nil {
		return err
	}

	pending := install.New(cfg.Repository, mode, cfg.Host)
	if err := pending.AddPackage(ctx, release, packageType); err != nil {
		return err
	}
	if err := pending.ResolveDependencies(ctx); err != nil {
		return err
	}

	order := pending.GetInstallOrder()

	if cfg.DryRun {
		logrus.Info("Dry run: the following packages would be installed, in order:")
	} else {
		logrus.Info("Installing the following packages, in order:")
	}
	for _, info := range order {
		logrus.Infof("  %s %s (%s)", info.Bundle.Name, info.Release.Version, info.Rules.PackageType)
	}

	return nil
}

// resolveRelease looks up bundleName and returns the release to install:
// the latest visible release of channelName if given, or of the
// bundle's current channel otherwise.
func resolveRelease(ctx context.Context, cfg *Config, bundleName, channelName string) (*repo.Release, error) {
	bundle, err := cfg.Repository.LookupPackageBundle(ctx, bundleName)
	if err != nil {
		return nil, err
	}

	channel, err := lookupChannel(ctx, bundle, channelName)
	if err != nil {
		return nil, err
	}
	if channel == nil {
		return nil, &rbpkgerr.PackageInstallError{
			Message: fmt.Sprintf("%q has no current channel; specify one with --channel", bundleName),
		}
	}

	releases, err := channel.Releases(ctx)
	if err != nil {
		return nil, err
	}
	for _, release := range releases {
		if release.Visible {
			return release, nil
		}
	}

	return nil, &rbpkgerr.PackageInstallError{
		Message: fmt.Sprintf("channel %q of %q has no visible releases", channel.Name, bundleName),
	}
}

// lookupChannel finds the channel named name (resolving aliases), or
// the bundle's current channel if name is empty.
func lookupChannel(ctx context.Context, bundle *repo.Bundle, name string) (*repo.Channel, error) {
	if name == "" {
		return bundle.CurrentChannel(ctx)
	}

	aliases, err := bundle.ChannelAliases(ctx)
	if err != nil {
		return nil, err
	}
	if resolved, ok := aliases[name]; ok {
		name = resolved
	}

	channels, err := bundle.Channels(ctx)
	if err != nil {
		return nil, err
	}
	for _, channel := range channels {
		if channel.Name == name {
			return channel, nil
		}
	}

	return nil, &rbpkgerr.PackageLookupError{
		Name: bundle.Name,
		Err:  fmt.Errorf("no such channel %q", name),
	}
}
