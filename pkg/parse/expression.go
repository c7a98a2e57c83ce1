package parse

import (
	"math"
	"regexp"
	"strconv"
)

var libraryPattern = regexp.MustCompile(`CNhs\d+`)

// ParseExpression parses one sample column of an expression table
func ParseExpression(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, Fail(UnrecognizedExpressionValue, "%q", s)
	}
	return v, nil
}

// LibraryID extracts the CAGE library id from a sample column name such as
// "tpm.Adipocyte%20-%20breast%2c%20donor1.CNhs11051.11376-118A8". It
// returns "" if the column names no library.
func LibraryID(column string) string {
	return libraryPattern.FindString(column)
}
