package export

import (
	"bytes"
	_ "embed"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/nguyenthenguyen/docx"
	"github.com/unidoc/unioffice/common/license"
	"github.com/unidoc/unioffice/document"
)

// template.docx carries the page setup and the Title, Heading1, Heading2 and
// ListParagraph styles; its body is replaced on every write.
//
//go:embed template.docx
var docxTemplate []byte

var (
	licenseOnce sync.Once
	licenseErr  error
	licensed    bool
)

// SetLicense applies a metered unioffice key once per process and switches
// WriteDocx to unioffice. An empty key is ignored.
func SetLicense(key string) error {
	if key == "" {
		return nil
	}
	licenseOnce.Do(func() {
		licenseErr = license.SetMeteredKey(key)
		licensed = licenseErr == nil
	})
	return licenseErr
}

var styleFor = map[BlockKind]string{
	Title:    "Title",
	Heading1: "Heading1",
	Heading2: "Heading2",
	Bullet:   "ListParagraph",
}

func blockText(b Block) string {
	if b.Kind == Bullet {
		return "• " + b.Text
	}
	return b.Text
}

// WriteDocx renders o as a Word document, through unioffice when a license
// has been set and from the embedded template otherwise.
func WriteDocx(w io.Writer, o Outline) error {
	if len(o.Blocks) == 0 {
		return ErrNothingToExport
	}
	if licensed {
		return writeUnioffice(w, o)
	}
	return writeTemplate(w, o)
}

func writeTemplate(w io.Writer, o Outline) error {
	r, err := docx.ReadDocxFromMemory(bytes.NewReader(docxTemplate), int64(len(docxTemplate)))
	if err != nil {
		return fmt.Errorf("docx template: %w", err)
	}
	defer r.Close()

	d := r.Editable()
	d.SetContent(documentXML(o))
	if err := d.Write(w); err != nil {
		return fmt.Errorf("docx write: %w", err)
	}
	return nil
}

const (
	documentOpen  = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n" + `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`
	documentClose = `<w:sectPr><w:pgSz w:w="11906" w:h="16838"/><w:pgMar w:top="1440" w:right="1440" w:bottom="1440" w:left="1440" w:header="708" w:footer="708" w:gutter="0"/></w:sectPr></w:body></w:document>`
)

// documentXML builds word/document.xml with one paragraph per block.
func documentXML(o Outline) string {
	var b strings.Builder
	b.WriteString(documentOpen)
	for _, blk := range o.Blocks {
		b.WriteString("<w:p>")
		if style, ok := styleFor[blk.Kind]; ok {
			fmt.Fprintf(&b, `<w:pPr><w:pStyle w:val="%s"/></w:pPr>`, style)
		}
		b.WriteString("<w:r>")
		if blk.Bold {
			b.WriteString("<w:rPr><w:b/></w:rPr>")
		}
		b.WriteString(`<w:t xml:space="preserve">`)
		_ = xml.EscapeText(&b, []byte(blockText(blk)))
		b.WriteString("</w:t></w:r></w:p>")
	}
	b.WriteString(documentClose)
	return b.String()
}

func writeUnioffice(w io.Writer, o Outline) error {
	doc := document.New()
	for _, b := range o.Blocks {
		para := doc.AddParagraph()
		if style, ok := styleFor[b.Kind]; ok {
			para.SetStyle(style)
		}
		run := para.AddRun()
		run.AddText(blockText(b))
		if b.Bold {
			run.Properties().SetBold(true)
		}
	}
	if err := doc.Save(w); err != nil {
		return fmt.Errorf("docx write: %w", err)
	}
	return nil
}
