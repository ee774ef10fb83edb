// Copyright 2025 Poiesic Systems
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


package reindex

// DefaultBatchSize is the default number of records processed per batch.
const DefaultBatchSize = 100

// forEachBatch calls fn for each batchSize-sized slice of records.
// Iteration stops on the first error from fn.
func forEachBatch[T any](records []T, batchSize int, fn func([]T) error) error {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	for i := 0; i < len(records); i += batchSize {
		end := i + batchSize
		if end > len(records) {
			end = len(records)
		}
		if err := fn(records[i:end]); err != nil {
			return err
		}
	}
	return nil
}
