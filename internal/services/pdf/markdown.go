package pdf

import (
	"strings"

	"github.com/ternarybob/officeflow/internal/models"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

var markdownParser = goldmark.New(
	goldmark.WithExtensions(extension.Table, extension.Strikethrough, extension.Linkify),
)

// MarkdownToDocument flattens markdown into renderable content blocks.
// Headings, paragraphs, list items (with nesting depth), code blocks and
// tables are kept; inline styling is reduced to plain text.
func MarkdownToDocument(markdown string) *models.ContentDocument {
	source := []byte(stripFrontmatter(markdown))
	root := markdownParser.Parser().Parse(text.NewReader(source))

	b := &blockBuilder{source: source}
	_ = ast.Walk(root, b.walk)

	return &models.ContentDocument{Blocks: b.blocks}
}

type blockBuilder struct {
	source    []byte
	blocks    []models.ContentBlock
	listDepth int
}

func (b *blockBuilder) walk(n ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node := n.(type) {
	case *ast.Heading:
		if entering {
			b.add(models.ContentBlock{Kind: models.BlockHeading, Text: inlineText(node, b.source), Level: node.Level})
		}
		return ast.WalkSkipChildren, nil

	case *ast.Paragraph:
		if entering {
			b.add(models.ContentBlock{Kind: models.BlockParagraph, Text: inlineText(node, b.source)})
		}
		return ast.WalkSkipChildren, nil

	case *ast.List:
		if entering {
			b.listDepth++
		} else {
			b.listDepth--
		}
		return ast.WalkContinue, nil

	case *ast.ListItem:
		if !entering {
			return ast.WalkContinue, nil
		}
		b.add(models.ContentBlock{Kind: models.BlockListItem, Text: listItemText(node, b.source), Level: b.listDepth})
		// nested lists inside the item still need their own blocks
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			if _, ok := c.(*ast.List); ok {
				if err := ast.Walk(c, b.walk); err != nil {
					return ast.WalkStop, err
				}
			}
		}
		return ast.WalkSkipChildren, nil

	case *ast.FencedCodeBlock, *ast.CodeBlock:
		if entering {
			b.add(models.ContentBlock{Kind: models.BlockParagraph, Text: blockLines(n, b.source)})
		}
		return ast.WalkSkipChildren, nil

	case *extast.Table:
		if entering {
			b.add(models.ContentBlock{Kind: models.BlockTable, Rows: tableRows(node, b.source)})
		}
		return ast.WalkSkipChildren, nil
	}

	return ast.WalkContinue, nil
}

func (b *blockBuilder) add(block models.ContentBlock) {
	if block.Kind != models.BlockTable && strings.TrimSpace(block.Text) == "" {
		return
	}
	b.blocks = append(b.blocks, block)
}

// inlineText concatenates the text of every inline descendant of n
func inlineText(n ast.Node, source []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(t.Value)
		case *ast.AutoLink:
			sb.Write(t.Label(source))
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}

// listItemText joins the item's own paragraphs, excluding nested lists
func listItemText(item *ast.ListItem, source []byte) string {
	var parts []string
	for c := item.FirstChild(); c != nil; c = c.NextSibling() {
		if _, ok := c.(*ast.List); ok {
			continue
		}
		if s := inlineText(c, source); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

func blockLines(n ast.Node, source []byte) string {
	lines := n.Lines()
	var sb strings.Builder
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(source))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func tableRows(table *extast.Table, source []byte) [][]string {
	var rows [][]string
	for child := table.FirstChild(); child != nil; child = child.NextSibling() {
		switch child.(type) {
		case *extast.TableHeader, *extast.TableRow:
			var row []string
			for cell := child.FirstChild(); cell != nil; cell = cell.NextSibling() {
				row = append(row, inlineText(cell, source))
			}
			rows = append(rows, row)
		}
	}
	return rows
}

// stripFrontmatter removes a leading YAML frontmatter block
func stripFrontmatter(markdown string) string {
	if !strings.HasPrefix(markdown, "---\n") {
		return markdown
	}
	end := strings.Index(markdown[4:], "\n---\n")
	if end == -1 {
		return markdown
	}
	return strings.TrimSpace(markdown[4+end+5:])
}
