package ingest

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var slideNameRe = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

// extractPPTX reads slide text straight out of the pptx zip container.
// Each slide becomes one page, in slide order.
func extractPPTX(path string) ([]rawPage, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pptx: %w", err)
	}
	defer r.Close()

	var pages []rawPage
	for _, f := range r.File {
		m := slideNameRe.FindStringSubmatch(f.Name)
		if m == nil {
			continue
		}
		num, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			logger.Error("Error opening slide", "slide", f.Name, "error", err)
			continue
		}
		text, err := slideText(rc)
		rc.Close()
		if err != nil {
			logger.Error("Error parsing slide", "slide", f.Name, "error", err)
			continue
		}

		pages = append(pages, rawPage{Number: num, Content: text})
	}

	if len(pages) == 0 {
		return nil, fmt.Errorf("pptx contains no slides")
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i].Number < pages[j].Number })
	return pages, nil
}

// slideText concatenates the text runs (<a:t> elements) of one slide.
// Paragraph boundaries (<a:p>) become newlines.
func slideText(r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)
	var sb strings.Builder
	inTextRun := false

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inTextRun = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inTextRun = false
			case "p":
				sb.WriteString("\n")
			}
		case xml.CharData:
			if inTextRun {
				sb.Write(t)
			}
		}
	}
	return strings.TrimSpace(sb.String()), nil
}
