package google

import "strings"

// columnName converts a 1-based column number to its A1 letter form
// (1 -> A, 26 -> Z, 27 -> AA).
func columnName(col int) string {
	var b []byte
	for col > 0 {
		col--
		b = append([]byte{byte('A' + col%26)}, b...)
		col /= 26
	}
	return string(b)
}

// quoteTitle wraps a worksheet title in single quotes for A1 ranges,
// escaping embedded quotes. Thai titles and underscores are safe either
// way, but quoting keeps ranges valid for any user-chosen title.
func quoteTitle(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}
