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
Package operation moves planned ROM files into a destination root.

	+-------------+      +-------------+      +------------------+
	|   Runner    | ---> |  Executor   | ---> |  <root>/<system> |
	|   (batch)   |      | (one entry) |      |  game.chd / .zip |
	+------+------+      +------+------+      +------------------+
	       |                    |
	       |             chdman | 7z | copy
	       v
	+-------------+
	|   Tracker   |  log line, progress %, completion
	+-------------+

🎯 Purpose:
- Execute one plan entry: optimize a disc image, archive a file or copy it
- Run a batch of entries in order on a dedicated goroutine
- Report every processed file to a status.Reporter

🔄 Flow:
1. Start resolves the destination and fails fast when it does not exist
2. The destination is locked so two batches never write to the same root
3. Every source is planned, then executed one at a time
4. After each file a log line and a progress percentage are emitted
5. A single completion event ends the batch, cancelled or not

⚡ Guarantees:
- Sources are never modified
- Targets are written to a temp sibling and renamed into place
- A failing file never stops the batch
- Cancellation is honoured between files only

🔍 Example:

	runner := operation.NewRunner(operation.NewExecutor(optimizer, compressor))
	batch, err := runner.Start(ctx, operation.Request{
		Sources:     files,
		Destination: "/mnt/roms",
		Preferences: plan.DefaultPreferences(),
		Reporter:    reporter,
	})
	if err != nil {
		return err
	}
	summary := batch.Wait()
*/
package operation
