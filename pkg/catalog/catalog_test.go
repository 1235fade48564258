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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyMappedExtensions(t *testing.T) {
	for ext, want := range extensionMap {
		if ambiguous[ext] {
			continue
		}
		t.Run(ext, func(t *testing.T) {
			assert.Equal(t, want, Classify("/roms/some game"+ext), "mapped platform should win")
			assert.Equal(t, want, Classify("/roms/ATOMISWAVE/some game"+ext), "family marker must not affect %s", ext)
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{name: "nes", path: "/src/mario.nes", want: "nes"},
		{name: "upper_case_extension", path: "/src/MARIO.NES", want: "nes"},
		{name: "cue_sheet", path: "/src/game.cue", want: "psx"},
		{name: "zip_is_arcade", path: "/src/game.zip", want: "arcade"},
		{name: "unknown_falls_back", path: "/src/readme.txt", want: Fallback},
		{name: "no_extension", path: "/src/README", want: Fallback},
		{name: "lst_default", path: "/src/disk.lst", want: "naomi"},
		{name: "dat_default", path: "/src/roms/game.dat", want: "naomi"},
		{name: "lst_marker_in_dir", path: "/src/atomiswave/disk.lst", want: "atomiswave"},
		{name: "lst_marker_in_name", path: "/src/Disk (AtomisWave).lst", want: "atomiswave"},
		{name: "dat_marker_mixed_case", path: "/src/AtOmIsWaVe-set/game.DAT", want: "atomiswave"},
		{name: "compound_suffix", path: "/src/game.nkit.iso", want: "gc"},
		{name: "compound_suffix_upper", path: "/src/GAME.NKIT.ISO", want: "gc"},
		{name: "plain_iso", path: "/src/game.iso", want: "ps2"},
		{name: "dot_in_stem", path: "/src/super.mario.bros.nes", want: "nes"},
		{name: "non_ascii_suffix_is_unknown", path: "/src/Game.İSO", want: Fallback},
		{name: "invalid_utf8_suffix", path: "/src/a.\xff\xff", want: Fallback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.path))
		})
	}
}

func TestExt(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{path: "a.nes", want: ".nes"},
		{path: "a.NES", want: ".nes"},
		{path: "a.nkit.iso", want: ".nkit.iso"},
		{path: "a.nkit.ISO", want: ".nkit.iso"},
		{path: ".nkit.iso", want: ".iso"},
		{path: "dir.v2/file", want: ""},
		{path: "a.b.iso", want: ".iso"},
		{path: "a.\xff\xff", want: ".\xff\xff"},
		{path: "Game.İSO", want: ".İso"},
		{path: "Game.NKİT.ISO", want: ".iso"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, Ext(tt.path))
		})
	}
}

func TestContainerSets(t *testing.T) {
	for _, ext := range []string{".cue", ".iso", ".gdi", ".lst", ".bin", ".nkit.iso", ".CUE"} {
		assert.True(t, IsDiscContainer(ext), "%s should be a disc container", ext)
	}
	for _, ext := range []string{".chd", ".zip", ".nes", ".rvz"} {
		assert.False(t, IsDiscContainer(ext), "%s should not be a disc container", ext)
	}
	for _, ext := range []string{".zip", ".7z", ".chd", ".cso", ".cia"} {
		assert.True(t, IsPrecompressed(ext), "%s should be precompressed", ext)
	}
	for _, ext := range []string{".iso", ".nes", ".3ds", ".pbp"} {
		assert.False(t, IsPrecompressed(ext), "%s should not be precompressed", ext)
	}
}

func TestKnownPlatforms(t *testing.T) {
	platforms := KnownPlatforms()
	require.NotEmpty(t, platforms)
	assert.IsIncreasing(t, platforms, "platforms should be sorted")
	assert.Contains(t, platforms, "atomiswave")
	assert.Contains(t, platforms, Fallback)
	assert.NotContains(t, platforms, "saturn", "saturn has no mapped extension")

	for _, p := range extensionMap {
		assert.Contains(t, platforms, p)
	}

	assert.True(t, IsKnownPlatform("psx"))
	assert.False(t, IsKnownPlatform("dos"))
}

func TestExtensionsFor(t *testing.T) {
	assert.Equal(t, []string{".n64", ".v64", ".z64"}, ExtensionsFor("n64"))
	assert.Equal(t, []string{".dat", ".lst"}, ExtensionsFor("atomiswave"))
	assert.Empty(t, ExtensionsFor("dos"))
	assert.Len(t, Extensions(), len(extensionMap))
}

func TestOptimizable(t *testing.T) {
	assert.True(t, IsOptimizable("psx"))
	assert.True(t, IsOptimizable("atomiswave"))
	assert.False(t, IsOptimizable("nes"))
	assert.False(t, IsOptimizable("arcade"))
}

func TestPlatform(t *testing.T) {
	assert.Equal(t, "psx", Platform(".CUE"))
	assert.Equal(t, Fallback, Platform(".txt"))
	assert.True(t, IsKnownExtension(".Nes"))
	assert.False(t, IsKnownExtension(".txt"))
	assert.False(t, IsKnownExtension(".İso"))
}

func TestSplit(t *testing.T) {
	tests := []struct {
		name     string
		wantStem string
		wantExt  string
	}{
		{name: "mario.nes", wantStem: "mario", wantExt: ".nes"},
		{name: "Game.CUE", wantStem: "Game", wantExt: ".cue"},
		{name: "Game.NKIT.ISO", wantStem: "Game", wantExt: ".nkit.iso"},
		{name: "README", wantStem: "README", wantExt: ""},
		{name: "a.\xff\xff", wantStem: "a", wantExt: ".\xff\xff"},
		{name: "Game.İSO", wantStem: "Game", wantExt: ".İso"},
		{name: ".İİ", wantStem: "", wantExt: ".İİ"},
		{name: "Straße.İ.nes", wantStem: "Straße.İ", wantExt: ".nes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stem, ext := Split(tt.name)
			assert.Equal(t, tt.wantStem, stem)
			assert.Equal(t, tt.wantExt, ext)
			assert.Len(t, ext, len(tt.name)-len(stem), "token should match the suffix length")
		})
	}
}
