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
Package cmd builds the rbpkg command tree: the root command and its
install and upgrade subcommands, sharing a Config built once in the
root's PersistentPreRunE.
*/
package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/reviewboard/rbpkg"
	"github.com/reviewboard/rbpkg/loader"
	"github.com/reviewboard/rbpkg/match"
	"github.com/reviewboard/rbpkg/repo"
)

// Config is the state every subcommand needs, built once by the root
// command and threaded through explicitly rather than read from
// package-level globals.
type Config struct {
	Repository *repo.Repository
	Host       match.Host
	DryRun     bool
}

// NewRootCmd builds the full rbpkg command tree.
func NewRootCmd() *cobra.Command {
	cfg := &Config{}

	root := &cobra.Command{
		Use:     "rbpkg",
		Short:   "Install and upgrade Review Board packages",
		Version: rbpkg.Version,

		Args: cobra.ArbitraryArgs,

		// main() renders errors and usage itself, matching the
		// kind-prefixed error output of the rest of the taxonomy.
		SilenceErrors: true,
		SilenceUsage:  true,

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logrus.SetLevel(logrus.DebugLevel)
			}

			dryRun, _ := cmd.Flags().GetBool("dry-run")

			cfg.Repository = repo.NewRepository(loader.Default())
			cfg.Host = match.DetectHostProvider{}.CurrentHost()
			cfg.DryRun = dryRun

			logrus.Debugf("rbpkg %s", rbpkg.Version)
			logrus.Debugf("Running on %s %s", cfg.Host.Name, cfg.Host.Version)

			return nil
		},
	}

	root.PersistentFlags().BoolP("debug", "d", false, "Displays debug output.")
	root.PersistentFlags().Bool("dry-run", false, "Simulates all operations.")

	root.AddCommand(newInstallCmd(cfg))
	root.AddCommand(newUpgradeCmd(cfg))

	return root
}
