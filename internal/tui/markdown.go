// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var markdownParser = goldmark.New()

// renderMarkdown renders an assistant reply for the terminal. Paragraphs are
// wrapped to width; soft line breaks become spaces.
func renderMarkdown(input string, width int) string {
	if strings.TrimSpace(input) == "" {
		return ""
	}
	source := []byte(input)
	document := markdownParser.Parser().Parse(text.NewReader(source))

	r := &markdownRenderer{source: source, width: width}
	_ = ast.Walk(document, r.walk)

	return strings.TrimRight(r.output.String(), "\n")
}

type listLevel struct {
	ordered bool
	counter int
	tight   bool
}

type markdownRenderer struct {
	source []byte
	width  int

	output strings.Builder
	inline strings.Builder

	bold   int
	italic int

	lists  []listLevel
	bullet string
}

func (r *markdownRenderer) indent() string {
	return strings.Repeat("  ", len(r.lists))
}

func (r *markdownRenderer) flush(blankLine bool) {
	content := strings.TrimSpace(r.inline.String())
	r.inline.Reset()
	if content == "" {
		return
	}

	prefix := r.indent()
	if r.bullet != "" {
		prefix = strings.Repeat("  ", len(r.lists)-1) + r.bullet
		r.bullet = ""
	}

	width := r.width - len([]rune(prefix))
	if width < 10 {
		width = 10
	}
	wrapped := lipgloss.NewStyle().Width(width).Render(content)

	pad := strings.Repeat(" ", len([]rune(prefix)))
	for i, line := range strings.Split(wrapped, "\n") {
		if i == 0 {
			r.output.WriteString(prefix)
		} else {
			r.output.WriteString(pad)
		}
		r.output.WriteString(strings.TrimRight(line, " "))
		r.output.WriteString("\n")
	}
	if blankLine {
		r.output.WriteString("\n")
	}
}

func (r *markdownRenderer) styled(s string) string {
	style := lipgloss.NewStyle()
	if r.bold > 0 {
		style = style.Bold(true)
	}
	if r.italic > 0 {
		style = style.Italic(true)
	}
	return style.Render(s)
}

func (r *markdownRenderer) inTightList() bool {
	return len(r.lists) > 0 && r.lists[len(r.lists)-1].tight
}

func (r *markdownRenderer) walk(node ast.Node, entering bool) (ast.WalkStatus, error) {
	switch n := node.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		if !entering {
			r.flush(!r.inTightList())
		}

	case *ast.Heading:
		if entering {
			r.bold++
		} else {
			r.bold--
			r.flush(true)
		}

	case *ast.List:
		if entering {
			r.flush(false)
			r.lists = append(r.lists, listLevel{ordered: n.IsOrdered(), counter: n.Start, tight: n.IsTight})
		} else {
			r.lists = r.lists[:len(r.lists)-1]
			if len(r.lists) == 0 {
				r.output.WriteString("\n")
			}
		}

	case *ast.ListItem:
		if entering {
			level := &r.lists[len(r.lists)-1]
			if level.ordered {
				r.bullet = strconv.Itoa(level.counter) + ". "
				level.counter++
			} else {
				r.bullet = "• "
			}
		} else {
			r.flush(false)
		}

	case *ast.FencedCodeBlock:
		r.writeCodeBlock(n.Lines())
		return ast.WalkSkipChildren, nil

	case *ast.CodeBlock:
		r.writeCodeBlock(n.Lines())
		return ast.WalkSkipChildren, nil

	case *ast.ThematicBreak:
		if entering {
			r.output.WriteString(strings.Repeat("─", min(r.width, 40)))
			r.output.WriteString("\n\n")
		}

	case *ast.Emphasis:
		delta := 1
		if !entering {
			delta = -1
		}
		if n.Level >= 2 {
			r.bold += delta
		} else {
			r.italic += delta
		}

	case *ast.CodeSpan:
		if entering {
			var code strings.Builder
			for c := n.FirstChild(); c != nil; c = c.NextSibling() {
				if t, ok := c.(*ast.Text); ok {
					code.Write(t.Segment.Value(r.source))
				}
			}
			r.inline.WriteString(codeStyle.Render(code.String()))
			return ast.WalkSkipChildren, nil
		}

	case *ast.AutoLink:
		if entering {
			r.inline.WriteString(string(n.URL(r.source)))
			return ast.WalkSkipChildren, nil
		}

	case *ast.Text:
		if entering {
			r.inline.WriteString(r.styled(string(n.Segment.Value(r.source))))
			switch {
			case n.HardLineBreak():
				r.inline.WriteString("\n")
			case n.SoftLineBreak():
				r.inline.WriteString(" ")
			}
		}

	case *ast.String:
		if entering {
			r.inline.WriteString(r.styled(string(n.Value)))
		}

	case *ast.HTMLBlock, *ast.RawHTML:
		return ast.WalkSkipChildren, nil
	}

	return ast.WalkContinue, nil
}

func (r *markdownRenderer) writeCodeBlock(lines *text.Segments) {
	r.flush(false)
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		r.output.WriteString(r.indent())
		r.output.WriteString("  ")
		r.output.WriteString(codeStyle.Render(strings.TrimRight(string(seg.Value(r.source)), "\n")))
		r.output.WriteString("\n")
	}
	r.output.WriteString("\n")
}
