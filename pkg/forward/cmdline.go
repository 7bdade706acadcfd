package forward

import (
	"strconv"
	"strings"
)

// shellJoin renders an argument list as a single copy-pasteable string for
// display and for the audit trail. Arguments containing whitespace or quote
// characters are quoted.
func shellJoin(args []string) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		if arg == "" || strings.ContainsAny(arg, " \t\n\"'") {
			parts[i] = strconv.Quote(arg)
		} else {
			parts[i] = arg
		}
	}
	return strings.Join(parts, " ")
}
