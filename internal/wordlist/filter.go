package wordlist

import "strings"

// Entry is one parsed word list row.
type Entry struct {
	English  string
	Japanese string
}

var headerNames = map[string]string{
	"english": "japanese",
	"en":      "jp",
	"word":    "meaning",
}

// parseRow trims the first two cells of a row. ok is false when either is blank.
func parseRow(row []string) (Entry, bool) {
	if len(row) < 2 {
		return Entry{}, false
	}
	e := Entry{
		English:  strings.TrimSpace(strings.TrimPrefix(row[0], "\ufeff")),
		Japanese: strings.TrimSpace(row[1]),
	}
	if e.English == "" || e.Japanese == "" {
		return Entry{}, false
	}
	return e, true
}

// isHeader reports whether an entry is a column header row.
func isHeader(e Entry) bool {
	second, ok := headerNames[strings.ToLower(e.English)]
	return ok && second == strings.ToLower(e.Japanese)
}
