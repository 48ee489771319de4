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

// Command rbpkg installs and upgrades Review Board packages.
package main

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/reviewboard/rbpkg/cmd/rbpkg/cmd"
	"github.com/reviewboard/rbpkg/rbpkgerr"
)

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})

	root := cmd.NewRootCmd()

	if err := root.ExecuteContext(context.Background()); err != nil {
		logrus.Errorf("%s: %v", errorKind(err), err)
		os.Exit(1)
	}
}

// errorKind names the rbpkgerr taxonomy member err belongs to, for the
// kind-prefixed stderr rendering, or "error" for anything else
// (argument parsing failures, mainly).
func errorKind(err error) string {
	switch err.(type) {
	case *rbpkgerr.LoadDataError:
		return "LoadDataError"
	case *rbpkgerr.ConfigurationError:
		return "ConfigurationError"
	case *rbpkgerr.PackageLookupError:
		return "PackageLookupError"
	case *rbpkgerr.PackageInstallError:
		return "PackageInstallError"
	case *rbpkgerr.DependencyConflictError:
		return "DependencyConflictError"
	default:
		return "error"
	}
}
