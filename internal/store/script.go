package store

import "strings"

// SplitScript splits a bundled schema script into executable statements.
//
// A statement ends at a semicolon that is the last non-whitespace character
// on its line, so a semicolon embedded in a quoted value does not split a
// statement. Comment lines starting with "--" and blank segments are
// skipped. Statement order follows the script.
func SplitScript(script string) []string {
	var stmts []string
	var buf []string

	flush := func() {
		stmt := strings.TrimSpace(strings.Join(buf, "\n"))
		buf = buf[:0]
		stmt = strings.TrimSuffix(stmt, ";")
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			return
		}
		stmts = append(stmts, stmt)
	}

	for _, line := range strings.Split(script, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "--") {
			continue
		}
		if trimmed == "" && len(buf) == 0 {
			continue
		}
		buf = append(buf, line)
		if strings.HasSuffix(trimmed, ";") {
			flush()
		}
	}
	flush()

	return stmts
}
