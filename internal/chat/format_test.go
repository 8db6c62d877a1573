package chat

import (
	"reflect"
	"testing"
)

func TestFormatEmptyInput(t *testing.T) {
	for _, input := range []string{"", "   ", "\n\n"} {
		blocks := Format(input)
		if len(blocks) != 1 || blocks[0].Kind != KindParagraph {
			t.Errorf("Format(%q) = %+v, want a single placeholder paragraph", input, blocks)
		}
	}
}

func TestFormatMixedDocument(t *testing.T) {
	input := "```go\nfunc main() {\n\tfmt.Println(\"hi\")\n}\n```\n\n- first point\n- second point\n\nAnd a closing remark."

	blocks := Format(input)
	if len(blocks) != 3 {
		t.Fatalf("block count = %d, want code+list+paragraph, got %+v", len(blocks), blocks)
	}

	code := blocks[0]
	if code.Kind != KindCode || code.Language != "go" {
		t.Errorf("first block = %+v, want go code", code)
	}
	if code.Text != "func main() {\n\tfmt.Println(\"hi\")\n}" {
		t.Errorf("code text not verbatim: %q", code.Text)
	}

	list := blocks[1]
	if list.Kind != KindList || !reflect.DeepEqual(list.Items, []string{"first point", "second point"}) {
		t.Errorf("second block = %+v, want two-item list", list)
	}

	para := blocks[2]
	if para.Kind != KindParagraph || len(para.Spans) != 1 || para.Spans[0].Text != "And a closing remark." {
		t.Errorf("third block = %+v, want plain paragraph", para)
	}
}

func TestFormatListMarkers(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"dashes", "- a\n- b", []string{"a", "b"}},
		{"stars", "* a\n* b", []string{"a", "b"}},
		{"plus", "+ a\n+ b", []string{"a", "b"}},
		{"numbered", "1. a\n2. b\n10. c", []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blocks := Format(tt.input)
			if len(blocks) != 1 || blocks[0].Kind != KindList {
				t.Fatalf("Format(%q) = %+v, want one list", tt.input, blocks)
			}
			if !reflect.DeepEqual(blocks[0].Items, tt.want) {
				t.Errorf("items = %v, want %v", blocks[0].Items, tt.want)
			}
		})
	}
}

func TestFormatHeadingsAreEmphasizedParagraphs(t *testing.T) {
	blocks := Format("# Big\nbody text\n## Smaller")

	if len(blocks) != 3 {
		t.Fatalf("block count = %d, want 3", len(blocks))
	}
	if !blocks[0].Emphasized || blocks[0].Spans[0].Text != "Big" {
		t.Errorf("first block = %+v, want emphasized Big", blocks[0])
	}
	if blocks[1].Emphasized {
		t.Error("body text must not be emphasized")
	}
	if !blocks[2].Emphasized || blocks[2].Spans[0].Text != "Smaller" {
		t.Errorf("third block = %+v, want emphasized Smaller", blocks[2])
	}
}

func TestFormatInlineCodeSpans(t *testing.T) {
	blocks := Format("use `fmt.Errorf` with `%w` here")
	if len(blocks) != 1 {
		t.Fatalf("block count = %d, want 1", len(blocks))
	}

	want := []Span{
		{Text: "use "},
		{Text: "fmt.Errorf", Code: true},
		{Text: " with "},
		{Text: "%w", Code: true},
		{Text: " here"},
	}
	if !reflect.DeepEqual(blocks[0].Spans, want) {
		t.Errorf("spans = %+v, want %+v", blocks[0].Spans, want)
	}
}

func TestFormatUnbalancedBacktick(t *testing.T) {
	blocks := Format("a stray ` backtick")
	if len(blocks) != 1 {
		t.Fatalf("block count = %d, want 1", len(blocks))
	}
	for _, s := range blocks[0].Spans {
		if s.Code {
			t.Errorf("unbalanced backtick produced a code span: %+v", blocks[0].Spans)
		}
	}
}

func TestFormatUnterminatedFence(t *testing.T) {
	blocks := Format("```\ncode that never ends")
	if len(blocks) != 1 || blocks[0].Kind != KindCode {
		t.Fatalf("blocks = %+v, want a single code block", blocks)
	}
	if blocks[0].Text != "code that never ends" {
		t.Errorf("code text = %q", blocks[0].Text)
	}
}

func TestFormatConsecutiveLinesJoinParagraph(t *testing.T) {
	blocks := Format("line one\nline two\n\nline three")
	if len(blocks) != 2 {
		t.Fatalf("block count = %d, want 2 paragraphs", len(blocks))
	}
	if blocks[0].Spans[0].Text != "line one\nline two" {
		t.Errorf("first paragraph = %q", blocks[0].Spans[0].Text)
	}
}
