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


package extract

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/poiesic/agentspace/core"
)

// Text converts a raw uploaded document into plain text, dispatching on the
// file extension.
//
// Supported extensions:
//   - .txt            decoded as UTF-8
//   - .pdf            page by page, pages separated by a blank line
//   - .doc, .docx     paragraph by paragraph, blank paragraphs skipped
//   - .xls, .xlsx     sheet by sheet, cell values tab-joined per row, with a
//     header separator line per sheet name
//
// Any other extension fails with ErrUnsupportedFileType. Empty or zero-length
// content returns an empty string: callers must treat empty extraction as
// "nothing to index", not as an error.
func Text(doc core.KnowledgeDocument) (string, error) {
	ext := strings.ToLower(filepath.Ext(doc.FileName))

	switch ext {
	case ".txt":
		return plainText(doc.RawBytes)
	case ".pdf":
		return pdfText(doc.RawBytes)
	case ".doc", ".docx":
		return wordText(doc.RawBytes)
	case ".xls", ".xlsx":
		return spreadsheetText(doc.RawBytes)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFileType, ext)
	}
}

// plainText decodes raw bytes as UTF-8, replacing invalid sequences.
func plainText(raw []byte) (string, error) {
	if len(raw) == 0 {
		return "", nil
	}
	if utf8.Valid(raw) {
		return string(raw), nil
	}
	return strings.ToValidUTF8(string(raw), string(utf8.RuneError)), nil
}
