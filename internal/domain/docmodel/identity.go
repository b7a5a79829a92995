package docmodel

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// SafeInt parses a page-number-like string by stripping every non-digit
// character first. "page 2" becomes 2, unparsable values become 0.
func SafeInt(value string) int {
	if value == "" {
		return 0
	}
	var digits strings.Builder
	for _, c := range value {
		if c >= '0' && c <= '9' {
			digits.WriteRune(c)
		}
	}
	if digits.Len() == 0 {
		return 0
	}
	n, err := strconv.Atoi(digits.String())
	if err != nil {
		return 0
	}
	return n
}

// PageID is stable across re-ingestion of the same folder+page, which
// is what makes upserts replace instead of duplicate.
func PageID(folder string, pageNumber string) string {
	return fmt.Sprintf("%s_page_%s", folder, pageNumber)
}

func DocID(folder string) string {
	return "doc_" + folder
}

// ContentHash derives an id from the stable fields of a record. The
// embedding and timestamps are excluded so floating-point noise and
// re-upserts never churn the id.
func ContentHash(rec Record) string {
	stable := map[string]any{
		"folder_name":     rec.FolderName,
		"page_number":     rec.PageNumber,
		"description":     rec.Description,
		"page_summary":    rec.PageSummary,
		"content_type":    rec.ContentType,
		"is_consolidated": rec.IsConsolidated,
	}
	data, err := json.Marshal(stable) //map keys marshal sorted
	if err != nil {
		data = []byte(rec.FolderName + "/" + rec.PageNumber)
	}
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}
