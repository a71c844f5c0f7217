package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/net/html/charset"
)

var slideName = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

// pptxSlides returns the text of each slide in presentation order, one
// string per slide with its text runs joined by spaces. Empty slides are
// dropped.
func pptxSlides(data []byte) ([]string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pptx: %w", err)
	}
	type slide struct {
		n int
		f *zip.File
	}
	var found []slide
	for _, f := range zr.File {
		m := slideName.FindStringSubmatch(f.Name)
		if m == nil {
			continue
		}
		n, _ := strconv.Atoi(m[1])
		found = append(found, slide{n: n, f: f})
	}
	if len(found) == 0 {
		return nil, fmt.Errorf("open pptx: no slides found")
	}
	sort.Slice(found, func(i, j int) bool { return found[i].n < found[j].n })

	var out []string
	for _, s := range found {
		rc, err := s.f.Open()
		if err != nil {
			return nil, fmt.Errorf("slide %d: %w", s.n, err)
		}
		text, err := slideText(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("slide %d: %w", s.n, err)
		}
		if text != "" {
			out = append(out, text)
		}
	}
	return out, nil
}

func slideText(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel

	var b strings.Builder
	inText := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		switch el := tok.(type) {
		case xml.StartElement:
			if el.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			switch el.Name.Local {
			case "t":
				inText = false
			case "p":
				b.WriteString(" ")
			}
		case xml.CharData:
			if inText {
				b.Write(el)
			}
		}
	}
	return strings.Join(strings.Fields(b.String()), " "), nil
}
