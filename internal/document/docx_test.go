package document

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/tribaldesk-backend/internal/domain/entity"
)

type paragraph struct {
	Style string
	Text  string
}

// readParagraphs распаковывает word/document.xml и возвращает абзацы.
func readParagraphs(t *testing.T, data []byte) []paragraph {
	t.Helper()

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	var doc []byte
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			rc, err := f.Open()
			require.NoError(t, err)
			doc, err = io.ReadAll(rc)
			require.NoError(t, err)
			rc.Close()
		}
	}
	require.NotNil(t, doc, "word/document.xml missing")

	var (
		out     []paragraph
		current *paragraph
		inText  bool
	)
	dec := xml.NewDecoder(bytes.NewReader(doc))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)

		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "p":
				current = &paragraph{}
			case "pStyle":
				for _, a := range el.Attr {
					if a.Name.Local == "val" {
						current.Style = a.Value
					}
				}
			case "t":
				inText = true
			}
		case xml.EndElement:
			switch el.Name.Local {
			case "p":
				out = append(out, *current)
				current = nil
			case "t":
				inText = false
			}
		case xml.CharData:
			if inText && current != nil {
				current.Text += string(el)
			}
		}
	}
	return out
}

func TestClassify(t *testing.T) {
	blocks := Classify("# Title\n## Section\nplain text\n\n###  deeper\n#no-space")

	assert.Equal(t, []Block{
		{Kind: BlockHeading1, Text: "Title"},
		{Kind: BlockHeading2, Text: "Section"},
		{Kind: BlockParagraph, Text: "plain text"},
		{Kind: BlockParagraph, Text: ""},
		{Kind: BlockParagraph, Text: "###  deeper"},
		{Kind: BlockParagraph, Text: "#no-space"},
	}, blocks)
}

func TestClassify_HeadingTextTrimmed(t *testing.T) {
	blocks := Classify("#   Spaced Title   \n##  Budget \t")

	assert.Equal(t, "Spaced Title", blocks[0].Text)
	assert.Equal(t, "Budget", blocks[1].Text)
}

func TestExportDocx_PackageParts(t *testing.T) {
	data, err := ExportDocx("# Title")
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, f := range zr.File {
		names[f.Name] = true
	}
	for _, want := range []string{
		"[Content_Types].xml",
		"_rels/.rels",
		"word/_rels/document.xml.rels",
		"word/document.xml",
		"word/styles.xml",
	} {
		assert.True(t, names[want], "missing part %s", want)
	}
}

func TestExportDocx_LevelClassification(t *testing.T) {
	data, err := ExportDocx("# Title\n## Section\nplain text\n")
	require.NoError(t, err)

	assert.Equal(t, []paragraph{
		{Style: "Heading1", Text: "Title"},
		{Style: "Heading2", Text: "Section"},
		{Text: "plain text"},
		{},
	}, readParagraphs(t, data))
}

func TestExportDocx_EmptyInput(t *testing.T) {
	data, err := ExportDocx("")
	require.NoError(t, err)

	assert.Equal(t, []paragraph{{}}, readParagraphs(t, data))
}

func TestExportDocx_LiteralMarkdownAndEscaping(t *testing.T) {
	md := "- **bold** & [link](http://x) <tag>\n\tindented"
	data, err := ExportDocx(md)
	require.NoError(t, err)

	assert.Equal(t, []paragraph{
		{Text: "- **bold** & [link](http://x) <tag>"},
		{Text: "\tindented"},
	}, readParagraphs(t, data))
}

func TestExportDocx_ControlCharactersDropped(t *testing.T) {
	data, err := ExportDocx("bell\x07 here")
	require.NoError(t, err)

	assert.Equal(t, []paragraph{{Text: "bell here"}}, readParagraphs(t, data))
}

func TestExportDocx_BuilderRoundTrip(t *testing.T) {
	draft := entity.ProposalDraft{
		Project:    "Health Initiative",
		Summary:    "Improve clinic access",
		Budget:     "$120,000 over two years",
		Evaluation: "Quarterly reports",
	}

	data, err := ExportDocx(draft.Markdown())
	require.NoError(t, err)
	paras := readParagraphs(t, data)

	var headings []string
	for _, p := range paras {
		if p.Style == "Heading2" {
			headings = append(headings, p.Text)
		}
	}
	assert.Equal(t, entity.SectionHeadings, headings)
	assert.Equal(t, paragraph{Style: "Heading1", Text: "Health Initiative — Proposal Draft"}, paras[0])
	assert.Equal(t, paragraph{Text: "Organization: N/A"}, paras[1])

	bodies := make(map[string]string)
	for i := 0; i+1 < len(paras); i++ {
		if paras[i].Style == "Heading2" && paras[i+1].Style == "" {
			bodies[paras[i].Text] = paras[i+1].Text
		}
	}
	assert.Equal(t, "Improve clinic access", bodies["Summary"])
	assert.Equal(t, "$120,000 over two years", bodies["Budget"])
	assert.Equal(t, "Quarterly reports", bodies["Evaluation"])
}

func TestFileName(t *testing.T) {
	tests := []struct {
		name string
		base string
		want string
	}{
		{"plain", "Health Initiative", "Health Initiative.docx"},
		{"blank falls back", "   ", "proposal.docx"},
		{"path separators", "Water/Land: Plan?", "Water_Land_ Plan_.docx"},
		{"dots only", "...", "proposal.docx"},
		{"long", strings.Repeat("a", 200), strings.Repeat("a", maxFileBaseLength) + ".docx"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FileName(tt.base, entity.DefaultFileName))
		})
	}
}
