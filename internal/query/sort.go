package query

import "strings"

// Direction is a validated sort direction.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// Default sort order: newest tasks first.
const (
	DefaultSortKey   = "createdAt"
	DefaultDirection = Descending
)

// taskSortColumns maps exposed sort keys to their database columns.
// Only keys present here may ever reach an ORDER BY clause.
var taskSortColumns = map[string]string{
	"id":        "id",
	"title":     "title",
	"priority":  "priority",
	"createdAt": "created_at",
}

// Sort is a validated (key, direction) pair. The zero value is not valid;
// always construct one through ResolveTaskSort.
type Sort struct {
	Key       string
	Direction Direction
}

// ResolveTaskSort validates a requested sort key and direction against the
// task sort whitelist. An unrecognized key falls back to createdAt and an
// unrecognized direction falls back to descending; invalid sort input never
// surfaces as an error.
func ResolveTaskSort(rawKey, rawDir string) Sort {
	s := Sort{Key: DefaultSortKey, Direction: DefaultDirection}

	if _, ok := taskSortColumns[rawKey]; ok {
		s.Key = rawKey
	}

	switch Direction(strings.ToLower(rawDir)) {
	case Ascending:
		s.Direction = Ascending
	case Descending:
		s.Direction = Descending
	}

	return s
}

// Column returns the database column for the resolved sort key. The key is
// guaranteed to be in the whitelist, so the lookup cannot miss.
func (s Sort) Column() string {
	return taskSortColumns[s.Key]
}

// OrderBy returns the full ORDER BY expression for the resolved sort,
// with the task id as a deterministic tiebreaker.
func (s Sort) OrderBy() string {
	dir := "DESC"
	if s.Direction == Ascending {
		dir = "ASC"
	}
	return s.Column() + " " + dir + ", id " + dir
}
