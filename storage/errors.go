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


package storage

import "errors"

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateKey is returned when inserting a record whose unique
	// key (such as an agent name) is already taken.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrDimensionMismatch is returned when a vector's dimensionality
	// does not match the collection it is written to or queried against.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrStorageClosed is returned when an operation is attempted on a
	// closed storage backend.
	ErrStorageClosed = errors.New("storage is closed")

	// ErrSerializationFailed is returned when a record cannot be
	// marshaled for storage.
	ErrSerializationFailed = errors.New("serialization failed")

	// ErrTruncatedData is returned when stored bytes are shorter than
	// the record they claim to encode.
	ErrTruncatedData = errors.New("truncated data")
)
