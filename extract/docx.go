package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/oxbridge-econ/knowledge-base/core"
)

// DocxExtractor reads Word documents. A docx file is a ZIP archive; the
// text lives in word/document.xml and the title in docProps/core.xml.
type DocxExtractor struct{}

// NewDocxExtractor creates a docx extractor.
func NewDocxExtractor() *DocxExtractor {
	return &DocxExtractor{}
}

// Extract returns the document body as one item.
func (e *DocxExtractor) Extract(_ context.Context, name string, data []byte) ([]Item, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open docx archive: %w", err)
	}

	text, err := docxBodyText(reader)
	if err != nil {
		return nil, err
	}
	if text == "" {
		return nil, nil
	}

	title := docxTitle(reader)
	if title == "" {
		title = titleFromName(name)
	}

	return []Item{{
		Text: text,
		Metadata: map[string]string{
			core.MetaTitle: title,
		},
	}}, nil
}

type docxDocument struct {
	Body struct {
		Paragraphs []docxParagraph `xml:"p"`
	} `xml:"body"`
}

type docxParagraph struct {
	Runs []docxRun `xml:"r"`
}

type docxRun struct {
	Text []docxText `xml:"t"`
}

type docxText struct {
	Content string `xml:",chardata"`
}

func docxBodyText(reader *zip.Reader) (string, error) {
	raw, err := readArchiveFile(reader, "word/document.xml")
	if err != nil {
		return "", err
	}
	if raw == nil {
		return "", nil
	}

	var doc docxDocument
	if err := xml.Unmarshal(raw, &doc); err != nil {
		return "", fmt.Errorf("parse document.xml: %w", err)
	}

	var b strings.Builder
	for i, para := range doc.Body.Paragraphs {
		if i > 0 {
			b.WriteByte('\n')
		}
		for _, run := range para.Runs {
			for _, t := range run.Text {
				b.WriteString(t.Content)
			}
		}
	}
	return strings.TrimSpace(b.String()), nil
}

type docxCoreProps struct {
	Title string `xml:"title"`
}

func docxTitle(reader *zip.Reader) string {
	raw, err := readArchiveFile(reader, "docProps/core.xml")
	if err != nil || raw == nil {
		return ""
	}
	var props docxCoreProps
	if err := xml.Unmarshal(raw, &props); err != nil {
		return ""
	}
	return strings.TrimSpace(props.Title)
}

// readArchiveFile returns the named file's bytes, or nil when absent.
func readArchiveFile(reader *zip.Reader, name string) ([]byte, error) {
	for _, file := range reader.File {
		if file.Name != name {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", name, err)
		}
		raw, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		return raw, nil
	}
	return nil, nil
}
