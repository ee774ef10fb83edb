package extract

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// pdfText extracts text from a PDF page by page, concatenating pages with
// blank-line separators.
func pdfText(raw []byte) (string, error) {
	if len(raw) == 0 {
		return "", nil
	}

	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(raw), model.NewDefaultConfiguration())
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}

	var pages []string
	for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
		reader, err := pdfcpu.ExtractPageContent(ctx, pageNr)
		if err != nil {
			return "", fmt.Errorf("%w: page %d: %w", ErrMalformedDocument, pageNr, err)
		}
		if reader == nil {
			continue
		}

		content, err := io.ReadAll(reader)
		if err != nil {
			return "", fmt.Errorf("%w: page %d: %w", ErrMalformedDocument, pageNr, err)
		}

		text := scrapeContentText(content)
		if text != "" {
			pages = append(pages, text)
		}
	}

	return strings.Join(pages, "\n\n"), nil
}

// scrapeContentText pulls string literals out of a PDF content stream.
// It walks the stream and collects parenthesized literals that feed the
// text-showing operators (Tj, TJ, ', "), joining them with spaces. Text
// encoded via embedded font CID maps is not decoded.
func scrapeContentText(content []byte) string {
	var (
		out     strings.Builder
		i       = 0
		n       = len(content)
		written = false
	)

	for i < n {
		if content[i] != '(' {
			i++
			continue
		}

		literal, next, ok := readStringLiteral(content, i)
		i = next
		if !ok || literal == "" {
			continue
		}
		if written {
			out.WriteByte(' ')
		}
		out.WriteString(literal)
		written = true
	}

	return strings.TrimSpace(out.String())
}

// readStringLiteral reads a PDF string literal starting at the '(' found at
// offset start. It handles backslash escapes, octal codes, and balanced
// nested parentheses. Returns the decoded literal, the offset after the
// closing parenthesis, and whether the literal was terminated.
func readStringLiteral(content []byte, start int) (string, int, bool) {
	var (
		sb    strings.Builder
		depth = 1
		i     = start + 1
		n     = len(content)
	)

	for i < n {
		c := content[i]
		switch c {
		case '\\':
			if i+1 >= n {
				return sb.String(), n, false
			}
			esc := content[i+1]
			switch esc {
			case 'n':
				sb.WriteByte('\n')
			case 'r':
				sb.WriteByte('\r')
			case 't':
				sb.WriteByte('\t')
			case 'b', 'f':
				// backspace and form feed carry no text
			case '(', ')', '\\':
				sb.WriteByte(esc)
			case '\n':
				// line continuation
			default:
				if esc >= '0' && esc <= '7' {
					j := i + 1
					for j < n && j < i+4 && content[j] >= '0' && content[j] <= '7' {
						j++
					}
					if code, err := strconv.ParseUint(string(content[i+1:j]), 8, 16); err == nil && code > 0 && code < 256 {
						sb.WriteByte(byte(code))
					}
					i = j
					continue
				}
				sb.WriteByte(esc)
			}
			i += 2
		case '(':
			depth++
			sb.WriteByte(c)
			i++
		case ')':
			depth--
			if depth == 0 {
				return sb.String(), i + 1, true
			}
			sb.WriteByte(c)
			i++
		default:
			sb.WriteByte(c)
			i++
		}
	}

	return sb.String(), n, false
}
