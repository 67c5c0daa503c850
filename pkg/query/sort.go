package query

import "strings"

// SortField is one ORDER BY term. Field is a projection name.
type SortField struct {
	Field      string
	Descending bool
}

func (f SortField) direction() string {
	if f.Descending {
		return "DESC"
	}
	return "ASC"
}

// ParseSortFields reads a comma-separated list such as "mood,-timestamp".
// A leading "-" sorts descending; blank entries are skipped.
func ParseSortFields(s string) []SortField {
	var fields []SortField
	for part := range strings.SplitSeq(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, desc := strings.CutPrefix(part, "-")
		fields = append(fields, SortField{Field: name, Descending: desc})
	}
	return fields
}
