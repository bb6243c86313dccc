// Package chunker splits an oversized item into part items linked to their parent
// by has-part relationships.
package chunker

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rcliao/context-priority/internal/deps"
	"github.com/rcliao/context-priority/internal/model"
)

const (
	DefaultTargetChars = 900
	DefaultMaxChars    = 2000

	minTargetChars = 200
	minMaxChars    = 400
)

// Options configures chunking behavior.
type Options struct {
	TargetChars int
	MaxChars    int
}

// DefaultOptions returns default chunking options.
func DefaultOptions() Options {
	return Options{TargetChars: DefaultTargetChars, MaxChars: DefaultMaxChars}
}

// normalized applies the lower bounds and keeps target <= max.
func (o Options) normalized() Options {
	if o.TargetChars == 0 {
		o.TargetChars = DefaultTargetChars
	}
	if o.MaxChars == 0 {
		o.MaxChars = DefaultMaxChars
	}
	o.TargetChars = max(minTargetChars, o.TargetChars)
	o.MaxChars = max(minMaxChars, o.MaxChars)
	if o.TargetChars > o.MaxChars {
		o.TargetChars = o.MaxChars
	}
	return o
}

// Chunk is a piece of text with its position in the original.
type Chunk struct {
	Text      string
	StartLine int
	EndLine   int
}

// IDFunc names the part at index i of parent.
type IDFunc func(parentID string, index int) string

// DefaultID names parts "<parent>#<index>".
func DefaultID(parentID string, index int) string {
	return fmt.Sprintf("%s#%d", parentID, index)
}

// Split breaks parent's text into parts. It returns nil when the text fits in a
// single chunk. Each part keeps the parent's kind and timestamp and records
// parent_id and part_index in metadata.
func Split(parent model.Item, opts Options, newID IDFunc) ([]model.Item, []model.Relationship) {
	if newID == nil {
		newID = DefaultID
	}
	chunks := ChunkText(parent.Text, opts)
	if len(chunks) < 2 {
		return nil, nil
	}
	parts := make([]model.Item, 0, len(chunks))
	rels := make([]model.Relationship, 0, len(chunks))
	for i, c := range chunks {
		id := newID(parent.ID, i)
		meta := map[string]any{
			"parent_id":  parent.ID,
			"part_index": i,
			"start_line": c.StartLine,
			"end_line":   c.EndLine,
		}
		if name := parent.Meta("name"); name != "" {
			meta["name"] = fmt.Sprintf("%s (part %d)", name, i+1)
		}
		parts = append(parts, model.Item{
			ID:        id,
			Kind:      parent.Kind,
			Text:      c.Text,
			CreatedAt: parent.CreatedAt,
			Metadata:  meta,
		})
		rels = append(rels, model.Relationship{FromID: parent.ID, ToID: id, Kind: deps.KindHasPart})
	}
	return parts, rels
}

// ChunkText splits text into chunks. Short text (<= MaxChars) returns a single chunk.
func ChunkText(text string, opts Options) []Chunk {
	opts = opts.normalized()
	text = strings.TrimSpace(strings.ReplaceAll(strings.ReplaceAll(text, "\r\n", "\n"), "\r", "\n"))
	if text == "" {
		return nil
	}
	if runeLen(text) <= opts.MaxChars {
		return []Chunk{{Text: text, StartLine: 1, EndLine: strings.Count(text, "\n") + 1}}
	}
	return mergeBlocks(splitBlocks(text), opts)
}

// block is an intermediate representation of a text section.
type block struct {
	text      string
	startLine int
	endLine   int
	code      bool
}

// splitBlocks splits on heading lines and blank lines, never inside a fenced code block.
func splitBlocks(text string) []block {
	lines := strings.Split(text, "\n")
	var blocks []block
	var current []string
	startLine := 1
	fence := ""

	flush := func(endLine int, code bool) {
		if len(current) == 0 {
			startLine = endLine + 1
			return
		}
		t := strings.TrimSpace(strings.Join(current, "\n"))
		if t != "" {
			blocks = append(blocks, block{text: t, startLine: startLine, endLine: endLine, code: code})
		}
		current = nil
		startLine = endLine + 1
	}

	for i, line := range lines {
		lineNum := i + 1
		trimmed := strings.TrimSpace(line)

		if fence != "" {
			current = append(current, line)
			if strings.HasPrefix(trimmed, fence) {
				fence = ""
				flush(lineNum, true)
			}
			continue
		}
		if f := fenceMarker(trimmed); f != "" {
			flush(lineNum-1, false)
			fence = f
			current = append(current, line)
			continue
		}
		if strings.HasPrefix(trimmed, "#") && len(current) > 0 {
			flush(lineNum-1, false)
		}
		if trimmed == "" {
			flush(lineNum-1, false)
			continue
		}
		current = append(current, line)
	}
	flush(len(lines), fence != "")
	return blocks
}

func fenceMarker(trimmed string) string {
	for _, f := range []string{"```", "~~~"} {
		if strings.HasPrefix(trimmed, f) {
			return f
		}
	}
	return ""
}

// mergeBlocks combines small blocks up to the target and splits oversized ones.
func mergeBlocks(blocks []block, opts Options) []Chunk {
	var results []Chunk
	var accum block

	flushAccum := func() {
		t := strings.TrimSpace(accum.text)
		if t == "" {
			return
		}
		if runeLen(t) > opts.MaxChars && !accum.code {
			results = append(results, hardSplit(t, accum.startLine, opts)...)
		} else {
			results = append(results, Chunk{Text: t, StartLine: accum.startLine, EndLine: accum.endLine})
		}
		accum = block{}
	}

	for _, b := range blocks {
		if accum.text == "" {
			accum = b
			continue
		}
		combined := accum.text + "\n\n" + b.text
		if runeLen(combined) <= opts.TargetChars {
			accum.text = combined
			accum.endLine = b.endLine
			accum.code = accum.code || b.code
		} else {
			flushAccum()
			accum = b
		}
	}
	flushAccum()
	return results
}

// hardSplit breaks text that exceeds MaxChars on line boundaries.
func hardSplit(text string, startLine int, opts Options) []Chunk {
	lines := strings.Split(text, "\n")
	var results []Chunk
	var current []string
	curStart := startLine
	curLen := 0

	emit := func(endLine int) {
		t := strings.TrimSpace(strings.Join(current, "\n"))
		if t != "" {
			results = append(results, Chunk{Text: t, StartLine: curStart, EndLine: endLine})
		}
	}

	for i, line := range lines {
		lineLen := runeLen(line)
		if curLen+lineLen > opts.TargetChars && len(current) > 0 {
			emit(startLine + i - 1)
			current = nil
			curStart = startLine + i
			curLen = 0
		}
		current = append(current, line)
		curLen += lineLen + 1
	}
	if len(current) > 0 {
		emit(startLine + len(lines) - 1)
	}
	return results
}

func runeLen(s string) int { return utf8.RuneCountInString(s) }
