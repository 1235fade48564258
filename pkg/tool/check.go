// Copyright 2025 walteh LLC
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

package tool

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement defines an external binary romsend relies on
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a requirement
type Status struct {
	Requirement
	Available bool
	Path      string
	Detail    string
}

// lookPath is swapped in tests
var lookPath = exec.LookPath

// Requirements returns the tools used by the given clients
func Requirements(opt *Optimizer, comp *Compressor) []Requirement {
	return []Requirement{
		{
			Name:        "chdman",
			Command:     opt.Binary(),
			Description: "disc images to CHD",
			Optional:    true,
		},
		{
			Name:        "7z",
			Command:     comp.Binary(),
			Description: "files to zip archives",
			Optional:    true,
		},
	}
}

// Check evaluates the requirements and reports availability
func Check(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		req.Command = strings.TrimSpace(req.Command)
		status := Status{Requirement: req}
		if req.Command == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		path, err := lookPath(req.Command)
		if err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", req.Command)
			results = append(results, status)
			continue
		}
		status.Available = true
		status.Path = path
		results = append(results, status)
	}
	return results
}
