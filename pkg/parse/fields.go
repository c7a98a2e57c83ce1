package parse

import "strings"

// Absent is the marker FANTOM5 tables use for an empty cell
const Absent = "NA"

// Fields is a tab-split data row. Access beyond the end yields "".
type Fields []string

// Split splits a data row on tab characters
func Split(row string) Fields {
	return Fields(strings.Split(row, "\t"))
}

// Get returns the trimmed field at i, or "" when the row is shorter
func (f Fields) Get(i int) string {
	if i < 0 || i >= len(f) {
		return ""
	}
	return strings.TrimSpace(f[i])
}

// Value returns the field at i and whether it carries data. Empty
// cells and the NA marker carry none.
func (f Fields) Value(i int) (string, bool) {
	v := f.Get(i)
	if v == "" || v == Absent {
		return "", false
	}
	return v, true
}

// Len returns the number of fields
func (f Fields) Len() int {
	return len(f)
}

// Tail returns the fields from i on, or nil
func (f Fields) Tail(i int) Fields {
	if i >= len(f) {
		return nil
	}
	return f[i:]
}

// Require fails with ShortRow when the row has fewer than n fields
func (f Fields) Require(n int) error {
	if len(f) < n {
		return Fail(ShortRow, "want %d fields, got %d", n, len(f))
	}
	return nil
}
