package normalize

import "strings"

func Lower(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
