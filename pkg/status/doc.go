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

/*
Package status turns per-file outcomes into the event streams a front end consumes.

	            +-------------+
	            |   Status    |
	            |  (Events)   |
	            +------+------+
	                   |
	      +------------+------------+
	      |            |            |
	+-----+----+ +-----+----+ +-----+----+
	|   Log    | | Progress | | Complete |
	|  lines   | |  0..100  | |  (once)  |
	+----------+ +----------+ +----------+

🎯 Purpose:
- Formats one human-readable line per processed file
- Computes a non-decreasing percentage after each file
- Signals the end of a batch exactly once

🤝 Interfaces:
- Reporter: OnLog / OnProgress / OnComplete callbacks
- FileFormatter: outcome, progress and summary wording
- ChannelReporter: the same events as a typed channel

🔍 Example:

	ch := status.NewChannelReporter(16)
	tracker := status.NewTracker(ch)
	tracker.StartOperation(ctx, id, root, len(entries))
	tracker.Record(ctx, outcome)
	tracker.FinishOperation(ctx, false)
*/
package status
