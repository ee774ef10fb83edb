package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// Office Open XML readers for word-processor and spreadsheet documents.
// Both formats are ZIP containers of XML parts; the readers walk the XML
// token stream directly instead of binding to the full OOXML schema.

// wordText extracts text from a .docx document paragraph by paragraph.
// Blank paragraphs are skipped.
func wordText(raw []byte) (string, error) {
	if len(raw) == 0 {
		return "", nil
	}

	archive, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}

	part, err := readArchivePart(archive, "word/document.xml")
	if err != nil {
		return "", err
	}

	var (
		paragraphs []string
		current    strings.Builder
		decoder    = xml.NewDecoder(bytes.NewReader(part))
		inText     bool
	)

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrMalformedDocument, err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "br", "cr":
				current.WriteByte('\n')
			case "tab":
				current.WriteByte('\t')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				paragraph := strings.TrimSpace(current.String())
				current.Reset()
				if paragraph != "" {
					paragraphs = append(paragraphs, paragraph)
				}
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		}
	}

	return strings.Join(paragraphs, "\n"), nil
}

// spreadsheetText extracts text from a .xlsx workbook sheet by sheet.
// Every sheet contributes a header separator line with its name, followed
// by one line per row with cell values tab-joined.
func spreadsheetText(raw []byte) (string, error) {
	if len(raw) == 0 {
		return "", nil
	}

	archive, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}

	shared, err := readSharedStrings(archive)
	if err != nil {
		return "", err
	}

	names, err := readSheetNames(archive)
	if err != nil {
		return "", err
	}

	sheetParts := sheetPartNames(archive)

	var out strings.Builder
	for i, partName := range sheetParts {
		name := fmt.Sprintf("Sheet%d", i+1)
		if i < len(names) {
			name = names[i]
		}

		part, err := readArchivePart(archive, partName)
		if err != nil {
			return "", err
		}

		rows, err := readSheetRows(part, shared)
		if err != nil {
			return "", err
		}

		if out.Len() > 0 {
			out.WriteByte('\n')
		}
		out.WriteString("--- " + name + " ---\n")
		for _, row := range rows {
			out.WriteString(row)
			out.WriteByte('\n')
		}
	}

	return strings.TrimSuffix(out.String(), "\n"), nil
}

// readArchivePart returns the decompressed content of one ZIP member.
func readArchivePart(archive *zip.Reader, name string) ([]byte, error) {
	for _, file := range archive.File {
		if file.Name != name {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrMalformedDocument, name, err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrMalformedDocument, name, err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("%w: missing part %s", ErrMalformedDocument, name)
}

// readSharedStrings parses xl/sharedStrings.xml into the shared string table.
// A missing part is valid: workbooks without shared strings have none.
func readSharedStrings(archive *zip.Reader) ([]string, error) {
	part, err := readArchivePart(archive, "xl/sharedStrings.xml")
	if err != nil {
		return nil, nil
	}

	var (
		strs    []string
		current strings.Builder
		decoder = xml.NewDecoder(bytes.NewReader(part))
		inText  bool
	)

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "si":
				strs = append(strs, current.String())
				current.Reset()
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		}
	}

	return strs, nil
}

// readSheetNames parses the ordered sheet names from xl/workbook.xml.
func readSheetNames(archive *zip.Reader) ([]string, error) {
	part, err := readArchivePart(archive, "xl/workbook.xml")
	if err != nil {
		return nil, err
	}

	var (
		names   []string
		decoder = xml.NewDecoder(bytes.NewReader(part))
	)

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
		}

		start, ok := token.(xml.StartElement)
		if !ok || start.Name.Local != "sheet" {
			continue
		}
		for _, attr := range start.Attr {
			if attr.Name.Local == "name" {
				names = append(names, attr.Value)
			}
		}
	}

	return names, nil
}

// sheetPartNames lists the worksheet parts in workbook order.
// Worksheet parts are conventionally named xl/worksheets/sheetN.xml.
func sheetPartNames(archive *zip.Reader) []string {
	var parts []string
	for _, file := range archive.File {
		if strings.HasPrefix(file.Name, "xl/worksheets/sheet") && strings.HasSuffix(file.Name, ".xml") {
			parts = append(parts, file.Name)
		}
	}
	sort.Slice(parts, func(i, j int) bool {
		return sheetPartIndex(parts[i]) < sheetPartIndex(parts[j])
	})
	return parts
}

func sheetPartIndex(partName string) int {
	numeric := strings.TrimSuffix(strings.TrimPrefix(partName, "xl/worksheets/sheet"), ".xml")
	index, err := strconv.Atoi(numeric)
	if err != nil {
		return 0
	}
	return index
}

// readSheetRows parses one worksheet part into tab-joined row strings.
// Cells typed "s" index into the shared string table; all other cells use
// their inline value.
func readSheetRows(part []byte, shared []string) ([]string, error) {
	var (
		rows     []string
		cells    []string
		value    strings.Builder
		decoder  = xml.NewDecoder(bytes.NewReader(part))
		cellType string
		inValue  bool
	)

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "c":
				cellType = ""
				for _, attr := range t.Attr {
					if attr.Name.Local == "t" {
						cellType = attr.Value
					}
				}
			case "v", "t":
				inValue = true
				value.Reset()
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "v", "t":
				inValue = false
			case "c":
				cell := value.String()
				value.Reset()
				if cellType == "s" {
					if idx, err := strconv.Atoi(cell); err == nil && idx >= 0 && idx < len(shared) {
						cell = shared[idx]
					}
				}
				cells = append(cells, cell)
			case "row":
				rows = append(rows, strings.Join(cells, "\t"))
				cells = nil
			}
		case xml.CharData:
			if inValue {
				value.Write(t)
			}
		}
	}

	return rows, nil
}
