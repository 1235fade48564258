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

package plan

import (
	"github.com/walteh/romsend/pkg/catalog"
)

// 🧭 Plan decides what to do with a single source file.
//
// Rules are evaluated in order:
//  1. optimizable platform, disc-container extension, platform preferred -> optimize to .chd
//  2. platform preferred and not already a compressed container -> archive to .zip
//  3. copy under the original name
func Plan(desc Descriptor, prefs Preferences) Entry {
	platform := catalog.Classify(desc.Path)
	entry := Entry{
		Source:     desc,
		Platform:   platform,
		Action:     ActionCopy,
		TargetName: desc.Name,
	}

	switch {
	case catalog.IsOptimizable(platform) && catalog.IsDiscContainer(desc.Ext) && prefs.Has(platform):
		entry.Action = ActionOptimize
		entry.TargetName = desc.Stem + ChdExt
	case prefs.Has(platform) && !catalog.IsPrecompressed(desc.Ext):
		entry.Action = ActionArchive
		entry.TargetName = desc.Stem + ZipExt
	}

	return entry
}

// PlanAll plans every path, preserving order
func PlanAll(paths []string, prefs Preferences) []Entry {
	entries := make([]Entry, 0, len(paths))
	for _, path := range paths {
		entries = append(entries, Plan(Describe(path), prefs))
	}
	return entries
}
