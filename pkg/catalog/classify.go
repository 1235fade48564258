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

package catalog

import (
	"strings"
)

// 🎯 Classify resolves the target platform for a source file path.
//
// The extension is looked up in the extension map (fallback: arcade). Only
// for the ambiguous .lst/.dat group, a case-insensitive family marker anywhere
// in the full path reassigns the file to that family's platform.
func Classify(path string) string {
	ext := Ext(path)
	platform := Platform(ext)
	if ambiguous[ext] && strings.Contains(strings.ToLower(path), familyMarker) {
		return familyPlatform
	}
	return platform
}
