// Package sqlxrepos implements the entity repositories on postgres with
// hand-written queries. Exact-match id filters compare on id::text so that a
// malformed uuid from a client reads as "no match" instead of a query error.
package sqlxrepos

import (
	"strings"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/daftari/core"
)

// orderBy renders the client-requested orderings, whitelisted through cols
// (unknown fields are ignored), followed by the entity's default ordering tail.
func orderBy(ordering []core.DBOrdering, cols map[string]string, defaults string) string {
	terms := make([]string, 0, len(ordering)+1)
	for _, ord := range ordering {
		col, ok := cols[ord.Field]
		if !ok {
			continue
		}
		terms = append(terms, core.DBOrdering{Field: col, Ascending: ord.Ascending}.String())
	}
	terms = append(terms, defaults)
	return " ORDER BY " + strings.Join(terms, ", ")
}

func nullDate(d *core.Date) null.Time {
	if d == nil {
		return null.Time{}
	}
	return null.TimeFrom(d.Time)
}

func nullString(s string) null.String {
	return null.NewString(s, s != "")
}
