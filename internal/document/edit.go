// Package document applies LSP edits to document text and maps between LSP
// (0-based, UTF-16) and source (1-based, rune) coordinates.
package document

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// ApplyChanges applies content changes in order. Each change is either a
// ranged TextDocumentContentChangeEvent or a TextDocumentContentChangeEventWhole.
func ApplyChanges(text string, changes []any) (string, error) {
	for i, change := range changes {
		var err error
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEvent:
			text, err = ApplyChange(text, c)
		case protocol.TextDocumentContentChangeEventWhole:
			text = c.Text
		default:
			err = fmt.Errorf("unsupported content change %T", change)
		}
		if err != nil {
			return text, fmt.Errorf("change %d: %w", i, err)
		}
	}
	return text, nil
}

// ApplyChange replaces the change's range with its text. A change without a
// range replaces the whole document.
func ApplyChange(text string, change protocol.TextDocumentContentChangeEvent) (string, error) {
	if change.Range == nil {
		return change.Text, nil
	}

	start, err := PositionToOffset(text, change.Range.Start)
	if err != nil {
		return "", fmt.Errorf("invalid start: %w", err)
	}
	end, err := PositionToOffset(text, change.Range.End)
	if err != nil {
		return "", fmt.Errorf("invalid end: %w", err)
	}
	if start > end {
		return "", fmt.Errorf("range start %d after end %d", start, end)
	}

	return text[:start] + change.Text + text[end:], nil
}

// PositionToOffset converts an LSP position to a byte offset into text.
func PositionToOffset(text string, pos protocol.Position) (int, error) {
	line := int(pos.Line)
	offset := 0
	for i := 0; i < line; i++ {
		nl := strings.IndexByte(text[offset:], '\n')
		if nl < 0 {
			return 0, fmt.Errorf("line %d out of range", line)
		}
		offset += nl + 1
	}

	lineText := text[offset:]
	if nl := strings.IndexByte(lineText, '\n'); nl >= 0 {
		lineText = lineText[:nl]
	}

	b, err := utf16ToByte(lineText, int(pos.Character))
	if err != nil {
		return 0, err
	}
	return offset + b, nil
}

func utf16ToByte(line string, units int) (int, error) {
	count := 0
	for i, r := range line {
		if count >= units {
			return i, nil
		}
		count += utf16RuneLen(r)
	}
	if count < units {
		return 0, fmt.Errorf("character %d beyond line length %d", units, count)
	}
	return len(line), nil
}

// UTF16Len returns the length of s in UTF-16 code units.
func UTF16Len(s string) int {
	return len(utf16.Encode([]rune(s)))
}

// RuneToUTF16 converts a 1-based rune column on line to a 0-based UTF-16
// character offset.
func RuneToUTF16(line string, column int) uint32 {
	if column <= 1 {
		return 0
	}
	units, runes := 0, 0
	for _, r := range line {
		if runes >= column-1 {
			break
		}
		units += utf16RuneLen(r)
		runes++
	}
	if runes < column-1 {
		units += column - 1 - runes
	}
	return uint32(units)
}

// UTF16ToRune converts a 0-based UTF-16 character offset on line to a
// 1-based rune column.
func UTF16ToRune(line string, character uint32) int {
	units, col := 0, 1
	for _, r := range line {
		if units >= int(character) {
			break
		}
		units += utf16RuneLen(r)
		col++
	}
	return col
}

// WordAt returns the identifier covering the 0-based UTF-16 offset on line,
// and its 1-based rune column. It returns "" when the offset is not on a word.
func WordAt(line string, character uint32) (string, int) {
	runes := []rune(line)
	col := UTF16ToRune(line, character) - 1

	if col >= len(runes) || !isWordRune(runes[col]) {
		if col == 0 || col > len(runes) || !isWordRune(runes[col-1]) {
			return "", 0
		}
		col--
	}

	start, end := col, col
	for start > 0 && isWordRune(runes[start-1]) {
		start--
	}
	for end < len(runes) && isWordRune(runes[end]) {
		end++
	}
	return string(runes[start:end]), start + 1
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func utf16RuneLen(r rune) int {
	if r >= 0x10000 && r <= utf8.MaxRune {
		return 2
	}
	return 1
}
