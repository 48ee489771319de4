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
	"github.com/spf13/cobra"

	"github.com/reviewboard/rbpkg/install"
	"github.com/reviewboard/rbpkg/repo"
)

func newUpgradeCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "upgrade <bundle>",
		Short: "Upgrade a package to the latest release on its current channel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInstall(cmd.Context(), cfg, args[0], repo.PackageType(""), "", install.InstallDepsRequired)
		},
	}
}
