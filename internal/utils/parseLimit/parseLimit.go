package utils

import "strconv"

// MaxLimit caps list sizes requested through query strings.
const MaxLimit = 500

// ParseLimit reads a positive page size. Zero means "no limit requested".
func ParseLimit(s string) int {
	limit, err := strconv.Atoi(s)
	switch {
	case err != nil, limit <= 0:
		return 0
	case limit > MaxLimit:
		return MaxLimit
	}

	return limit
}
