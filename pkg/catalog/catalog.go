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
	"path/filepath"
	"slices"
	"sort"
	"strings"
)

// 🕹️ Fallback is the platform for any accepted extension without a specific rule
const Fallback = "arcade"

// 🗺️ extensionMap maps a lower-case extension token to its platform folder
var extensionMap = map[string]string{
	".zip": "arcade", ".7z": "arcade",
	".lst": "naomi", ".dat": "naomi",
	".neo": "neogeo",
	".nds": "nds",
	".3ds": "n3ds", ".cia": "n3ds",
	".bin": "psx", ".cue": "psx", ".chd": "psx", ".pbp": "psx",
	".iso": "ps2",
	".gdi": "dreamcast",
	".rvz": "gc", ".nkit.iso": "gc",
	".3do": "3do",
	".ccd": "pcenginecd",
	".cso": "psp",
	".nes": "nes",
	".sfc": "snes", ".smc": "snes",
	".gba": "gba",
	".gb":  "gb",
	".gbc": "gbc",
	".md":  "megadrive",
	".sms": "mastersystem",
	".v64": "n64", ".z64": "n64", ".n64": "n64",
	".pce": "pcengine",
}

// 💿 optimizable platforms accept disc images re-encoded as CHD
var optimizable = map[string]bool{
	"psx":        true,
	"ps2":        true,
	"dreamcast":  true,
	"saturn":     true,
	"gc":         true,
	"naomi":      true,
	"atomiswave": true,
	"psp":        true,
}

// compoundSuffixes are checked before the final path segment, longest first
var compoundSuffixes = []string{".nkit.iso"}

var (
	discContainers = map[string]bool{".cue": true, ".iso": true, ".gdi": true, ".lst": true, ".bin": true}
	precompressed  = map[string]bool{".zip": true, ".7z": true, ".chd": true, ".cso": true, ".cia": true}
)

// Ambiguous list/metadata extensions shared by the naomi and atomiswave boards.
var (
	ambiguous      = map[string]bool{".lst": true, ".dat": true}
	familyMarker   = "atomiswave"
	familyPlatform = "atomiswave"
)

// 🔍 Ext returns the normalized extension token of path, including the dot.
// Compound suffixes win over the trailing segment.
func Ext(path string) string {
	_, ext := Split(filepath.Base(path))
	return ext
}

// ✂️ Split cuts a file name into its stem and normalized extension token.
// Only ASCII letters are folded, so the token has the same byte length as the
// suffix it was cut from and stem+suffix always rebuilds name.
func Split(name string) (stem, ext string) {
	for _, suffix := range compoundSuffixes {
		if len(name) > len(suffix) && asciiEqualFold(name[len(name)-len(suffix):], suffix) {
			return name[:len(name)-len(suffix)], suffix
		}
	}
	raw := filepath.Ext(name)
	return name[:len(name)-len(raw)], asciiLower(raw)
}

func asciiLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			b[i] = c + 'a' - 'A'
		}
	}
	return string(b)
}

func asciiEqualFold(a, b string) bool {
	return len(a) == len(b) && asciiLower(a) == asciiLower(b)
}

// Platform resolves the default platform for an extension token.
func Platform(ext string) string {
	if p, ok := extensionMap[asciiLower(ext)]; ok {
		return p
	}
	return Fallback
}

// IsKnownExtension reports whether ext appears in the extension map
func IsKnownExtension(ext string) bool {
	_, ok := extensionMap[asciiLower(ext)]
	return ok
}

// IsOptimizable reports whether platform accepts CHD disc images
func IsOptimizable(platform string) bool {
	return optimizable[platform]
}

// IsDiscContainer reports whether ext is a raw optical-disc image format.
// For compound tokens the trailing segment also counts.
func IsDiscContainer(ext string) bool {
	return matchToken(discContainers, ext)
}

// IsPrecompressed reports whether ext is already a compressed container
func IsPrecompressed(ext string) bool {
	return matchToken(precompressed, ext)
}

func matchToken(set map[string]bool, ext string) bool {
	ext = asciiLower(ext)
	if set[ext] {
		return true
	}
	if i := strings.LastIndex(ext, "."); i > 0 {
		return set[ext[i:]]
	}
	return false
}

// 📋 KnownPlatforms returns every platform id, sorted. The ambiguous-group
// override platform is included so it can carry a compression preference.
func KnownPlatforms() []string {
	seen := map[string]bool{familyPlatform: true}
	for _, p := range extensionMap {
		seen[p] = true
	}
	out := make([]string, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// IsKnownPlatform reports whether platform is a catalog platform id
func IsKnownPlatform(platform string) bool {
	return slices.Contains(KnownPlatforms(), platform)
}

// Extensions returns every mapped extension token, sorted
func Extensions() []string {
	out := make([]string, 0, len(extensionMap))
	for ext := range extensionMap {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// ExtensionsFor returns the extensions that map to platform by default, sorted
func ExtensionsFor(platform string) []string {
	var out []string
	for ext, p := range extensionMap {
		if p == platform {
			out = append(out, ext)
		}
	}
	if platform == familyPlatform {
		for ext := range ambiguous {
			out = append(out, ext)
		}
	}
	sort.Strings(out)
	return out
}
