package ingest

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var ErrUnsupportedFormat = errors.New("unsupported document format")

type docType int

const (
	docTypeErr docType = iota
	docTypePDF
	docTypePPTX
	docTypeDocx
)

func (t docType) String() string {
	switch t {
	case docTypePDF:
		return "pdf"
	case docTypePPTX:
		return "pptx"
	case docTypeDocx:
		return "docx"
	default:
		return "err"
	}
}

// IsSupportedFormat reports whether the file extension is one the
// pipeline can extract text from. Upload validation uses it to reject
// bad files before a job is queued.
func IsSupportedFormat(path string) bool {
	return getDocType(path) != docTypeErr
}

func getDocType(docPath string) docType {
	ext := strings.ToLower(filepath.Ext(docPath))
	switch ext {
	case ".pdf":
		return docTypePDF
	case ".pptx":
		return docTypePPTX
	case ".docx", ".txt", ".rtf":
		return docTypeDocx
	default:
		return docTypeErr
	}
}

func extractText(path string, contentType docType) ([]rawPage, error) {
	switch contentType {
	case docTypePDF:
		return extractPDF(path)
	case docTypePPTX:
		return extractPPTX(path)
	case docTypeDocx:
		return extractdocxTxtRtf(path)
	default:
		return nil, fmt.Errorf("unsupported content type: %s", contentType)
	}
}
