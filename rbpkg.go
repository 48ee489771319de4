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
Package rbpkg is the root package of the rbpkg module: a package
installer resolution engine, organized into the match, depgraph, repo,
install, loader, and rbpkgerr subpackages, with a cobra-based CLI
front end in cmd/rbpkg.
*/
package rbpkg

// Version is the current release version string.
const Version = "0.1.0-alpha0"
