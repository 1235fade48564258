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

package status

import (
	"github.com/fatih/color"
)

// 🎨 Colored renders a line for a terminal, colouring it by level
func Colored(l Line) string {
	switch l.Level {
	case LevelSuccess:
		return color.New(color.FgGreen).Sprint(l.Text)
	case LevelWarning:
		return color.New(color.FgYellow).Sprint(l.Text)
	case LevelError:
		return color.New(color.FgRed).Sprint(l.Text)
	default:
		return color.New(color.FgCyan).Sprint(l.Text)
	}
}
