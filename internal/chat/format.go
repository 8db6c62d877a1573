package chat

import "strings"

// BlockKind tags a rendered block.
type BlockKind int

const (
	// KindParagraph is plain prose, possibly with inline code spans.
	KindParagraph BlockKind = iota
	// KindCode is a fenced code block rendered verbatim.
	KindCode
	// KindList is a bulleted or numbered list.
	KindList
)

// Span is a run of paragraph text; Code marks inline backtick spans.
type Span struct {
	Text string
	Code bool
}

// Block is one render node of a formatted assistant reply.
type Block struct {
	Kind       BlockKind
	Spans      []Span   // paragraphs
	Text       string   // code blocks, verbatim
	Language   string   // code fence info string, may be empty
	Items      []string // lists
	Emphasized bool     // headings are emphasized paragraphs, not semantic headings
}

// Format converts raw assistant text into an ordered sequence of render
// nodes. It understands triple-backtick fences, bullet and numbered
// lists, #/## headings and inline backtick spans; everything else is a
// paragraph. Empty input yields a single empty paragraph so the bubble
// always has something to show.
func Format(text string) []Block {
	if strings.TrimSpace(text) == "" {
		return []Block{{Kind: KindParagraph, Spans: []Span{{Text: ""}}}}
	}

	var (
		blocks    []Block
		paragraph []string
		items     []string
		code      []string
		codeLang  string
		inFence   bool
	)

	flushParagraph := func() {
		if len(paragraph) == 0 {
			return
		}
		blocks = append(blocks, Block{
			Kind:  KindParagraph,
			Spans: parseSpans(strings.Join(paragraph, "\n")),
		})
		paragraph = nil
	}
	flushList := func() {
		if len(items) == 0 {
			return
		}
		blocks = append(blocks, Block{Kind: KindList, Items: items})
		items = nil
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)

		if inFence {
			if strings.HasPrefix(trimmed, "```") {
				blocks = append(blocks, Block{
					Kind:     KindCode,
					Text:     strings.Join(code, "\n"),
					Language: codeLang,
				})
				code = nil
				inFence = false
				continue
			}
			// Inside a fence everything is literal, indentation included.
			code = append(code, line)
			continue
		}

		switch {
		case strings.HasPrefix(trimmed, "```"):
			flushParagraph()
			flushList()
			codeLang = strings.TrimSpace(strings.TrimPrefix(trimmed, "```"))
			inFence = true

		case trimmed == "":
			flushParagraph()
			flushList()

		case listItem(trimmed) != "":
			flushParagraph()
			items = append(items, listItem(trimmed))

		case strings.HasPrefix(trimmed, "#"):
			flushParagraph()
			flushList()
			heading := strings.TrimSpace(strings.TrimLeft(trimmed, "#"))
			blocks = append(blocks, Block{
				Kind:       KindParagraph,
				Spans:      parseSpans(heading),
				Emphasized: true,
			})

		default:
			flushList()
			paragraph = append(paragraph, trimmed)
		}
	}

	// An unterminated fence still renders as code.
	if inFence {
		blocks = append(blocks, Block{
			Kind:     KindCode,
			Text:     strings.Join(code, "\n"),
			Language: codeLang,
		})
	}
	flushParagraph()
	flushList()

	return blocks
}

// listItem returns the item text when the line is a bullet or numbered
// list entry, empty string otherwise.
func listItem(trimmed string) string {
	for _, marker := range []string{"- ", "* ", "+ "} {
		if strings.HasPrefix(trimmed, marker) {
			return strings.TrimSpace(trimmed[len(marker):])
		}
	}
	// Numbered: "1. text", "12. text".
	dot := strings.Index(trimmed, ". ")
	if dot > 0 {
		for _, r := range trimmed[:dot] {
			if r < '0' || r > '9' {
				return ""
			}
		}
		return strings.TrimSpace(trimmed[dot+2:])
	}
	return ""
}

// parseSpans splits paragraph text on single backticks; odd segments
// are inline code. An unbalanced backtick is kept as literal text.
func parseSpans(text string) []Span {
	parts := strings.Split(text, "`")
	if len(parts)%2 == 0 {
		// Unbalanced: re-join the tail so nothing is dropped.
		parts[len(parts)-2] += "`" + parts[len(parts)-1]
		parts = parts[:len(parts)-1]
	}

	var spans []Span
	for i, part := range parts {
		if part == "" && len(parts) > 1 {
			continue
		}
		spans = append(spans, Span{Text: part, Code: i%2 == 1})
	}
	if len(spans) == 0 {
		spans = []Span{{Text: text}}
	}
	return spans
}
