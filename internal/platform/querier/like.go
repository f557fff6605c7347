package querier

import "strings"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// LikePattern builds a substring pattern for ILIKE ... ESCAPE '\' in which
// the term's own wildcard characters match literally.
func LikePattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}
