package querier

import "strings"

// OrderBy turns an ordering parameter such as "-date,status" into an ORDER BY
// list. Only keys present in columns are used; unknown keys are ignored and
// the fallback applies when nothing usable remains.
func OrderBy(raw string, columns map[string]string, fallback string) string {
	var parts []string
	seen := map[string]bool{}
	for _, token := range strings.Split(raw, ",") {
		token = strings.TrimSpace(token)
		desc := strings.HasPrefix(token, "-")
		name := strings.TrimPrefix(token, "-")
		column, ok := columns[name]
		if !ok || seen[name] {
			continue
		}
		seen[name] = true
		if desc {
			parts = append(parts, column+" DESC")
		} else {
			parts = append(parts, column+" ASC")
		}
	}
	if len(parts) == 0 {
		return fallback
	}
	return strings.Join(parts, ", ")
}
