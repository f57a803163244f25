package fileproc

import (
	"strings"
)

// TextProcessor splits plain text into records: one per paragraph (blank-line
// boundaries) by default, or one per non-blank line in line mode. Beyond the
// shared empty/encoding checks it has no failure mode of its own.
type TextProcessor struct{}

// Kind returns FormatText.
func (tp *TextProcessor) Kind() FormatKind {
	return FormatText
}

// Process splits the content according to the policy's text mode.
func (tp *TextProcessor) Process(raw []byte, path string, policy ValidationPolicy) ([]FileRecord, error) {
	if perr := checkRawInput(raw, path); perr != nil {
		return nil, perr
	}

	if policy.TextLineMode {
		return tp.splitLines(string(raw), path), nil
	}
	return tp.splitParagraphs(string(raw), path), nil
}

// splitLines emits one record per non-blank line.
func (tp *TextProcessor) splitLines(content, path string) []FileRecord {
	var records []FileRecord
	var offset int64

	for _, line := range strings.SplitAfter(content, "\n") {
		length := int64(len(line))
		text := strings.TrimRight(line, "\r\n")
		if strings.TrimSpace(text) != "" {
			records = append(records, FileRecord{
				Path:   path,
				Index:  len(records),
				Format: FormatText,
				Text:   text,
				Offset: offset,
				Length: length,
			})
		}
		offset += length
	}

	return records
}

// splitParagraphs emits one record per run of non-blank lines.
func (tp *TextProcessor) splitParagraphs(content, path string) []FileRecord {
	var records []FileRecord
	var offset int64
	var para []string
	var paraStart int64

	flush := func(end int64) {
		if len(para) == 0 {
			return
		}
		records = append(records, FileRecord{
			Path:   path,
			Index:  len(records),
			Format: FormatText,
			Text:   strings.Join(para, "\n"),
			Offset: paraStart,
			Length: end - paraStart,
		})
		para = nil
	}

	for _, line := range strings.SplitAfter(content, "\n") {
		length := int64(len(line))
		text := strings.TrimRight(line, "\r\n")
		if strings.TrimSpace(text) == "" {
			flush(offset)
		} else {
			if len(para) == 0 {
				paraStart = offset
			}
			para = append(para, text)
		}
		offset += length
	}
	flush(offset)

	return records
}
