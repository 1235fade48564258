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
	"path/filepath"
	"sort"
	"strings"

	"github.com/walteh/romsend/pkg/catalog"
	"gitlab.com/tozd/go/errors"
)

// 🎬 Action is what the executor does with a source file
type Action int

const (
	ActionCopy Action = iota
	ActionArchive
	ActionOptimize
)

const (
	// ChdExt is the compact disc-archive extension produced by the optimizer
	ChdExt = ".chd"
	// ZipExt is the extension produced by the generic compressor
	ZipExt = ".zip"
)

// String returns a string representation of Action
func (a Action) String() string {
	switch a {
	case ActionOptimize:
		return "optimize-disc"
	case ActionArchive:
		return "archive"
	default:
		return "copy"
	}
}

// 📄 Descriptor describes one source file
type Descriptor struct {
	Path string // Absolute source path
	Name string // Base file name
	Ext  string // Normalized extension token (may be compound)
	Stem string // Name without the extension token
}

// Describe builds a Descriptor for path
func Describe(path string) Descriptor {
	name := filepath.Base(path)
	stem, ext := catalog.Split(name)
	return Descriptor{
		Path: path,
		Name: name,
		Ext:  ext,
		Stem: stem,
	}
}

// 📦 Entry is the decision taken for a single source file
type Entry struct {
	Source     Descriptor
	Platform   string
	Action     Action
	TargetName string
}

// TargetPath returns root/<platform>/<target name>
func (e Entry) TargetPath(root string) string {
	return filepath.Join(root, e.Platform, e.TargetName)
}

// 🎛️ Preferences is the set of platforms whose files are transformed
// instead of copied verbatim
type Preferences map[string]bool

// NewPreferences builds a Preferences set, rejecting unknown platform ids
func NewPreferences(platforms ...string) (Preferences, error) {
	prefs := Preferences{}
	for _, p := range platforms {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		if !catalog.IsKnownPlatform(p) {
			return nil, errors.Errorf("unknown platform %q", p)
		}
		prefs[p] = true
	}
	return prefs, nil
}

// FromToggles builds Preferences from one boolean per platform id
func FromToggles(toggles map[string]bool) (Preferences, error) {
	var enabled []string
	for p, on := range toggles {
		if on {
			enabled = append(enabled, p)
		}
	}
	return NewPreferences(enabled...)
}

// platforms copied as is unless enabled explicitly
var notDefault = map[string]bool{"arcade": true, "n3ds": true, "atomiswave": true}

// DefaultPreferences compresses every known platform except arcade, n3ds and
// atomiswave
func DefaultPreferences() Preferences {
	prefs := Preferences{}
	for _, p := range catalog.KnownPlatforms() {
		if notDefault[p] {
			continue
		}
		prefs[p] = true
	}
	return prefs
}

// Has reports whether platform is in the set
func (p Preferences) Has(platform string) bool {
	return p[platform]
}

// Toggles returns one boolean per known platform
func (p Preferences) Toggles() map[string]bool {
	out := make(map[string]bool, len(p))
	for _, platform := range catalog.KnownPlatforms() {
		out[platform] = p[platform]
	}
	return out
}

// List returns the enabled platforms, sorted
func (p Preferences) List() []string {
	out := make([]string, 0, len(p))
	for platform, on := range p {
		if on {
			out = append(out, platform)
		}
	}
	sort.Strings(out)
	return out
}
