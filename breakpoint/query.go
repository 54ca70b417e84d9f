package breakpoint

import "github.com/drake/relsize/box"

// Matches reports whether s satisfies every query. No queries always match.
func Matches(s box.Size, queries ...Breakpoint) bool {
	for _, q := range queries {
		if q == nil || !q(s) {
			return false
		}
	}
	return true
}

// Select returns match when s satisfies every query and noMatch otherwise.
func Select[T any](s box.Size, match, noMatch T, queries ...Breakpoint) T {
	if Matches(s, queries...) {
		return match
	}
	return noMatch
}

// Query binds queries for repeated evaluation against published sizes.
func Query(queries ...Breakpoint) func(box.Size) bool {
	return func(s box.Size) bool { return Matches(s, queries...) }
}

// Styled binds queries and returns a chooser between presentational
// values, e.g.
//
//	pad := breakpoint.Styled[int](breakpoint.MinWidth(100))(2, 0)
//	pad(size) // 2 on wide containers, 0 otherwise
func Styled[T any](queries ...Breakpoint) func(match, noMatch T) func(box.Size) T {
	return func(match, noMatch T) func(box.Size) T {
		return func(s box.Size) T { return Select(s, match, noMatch, queries...) }
	}
}
