package main

import "strings"

const ellipsis = "..."

// shortLabel drops the argument list and caps the length of a function name:
// "Renderer::drawHorizon(float, float)" → "Renderer::drawHorizon".
func shortLabel(name string, max, keep int) string {
	name = stripArgs(name)
	r := []rune(name)
	if len(r) > max {
		return string(r[:keep]) + ellipsis
	}
	return name
}

// stripArgs cuts name at the first '('.
func stripArgs(name string) string {
	if i := strings.IndexByte(name, '('); i >= 0 {
		return name[:i]
	}
	return name
}

func matchesName(name, pattern string) bool {
	return strings.Contains(name, pattern)
}

func truncate(n, top int) int {
	if top > 0 && top < n {
		return top
	}
	return n
}
