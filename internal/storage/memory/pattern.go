package memory

import "github.com/gobwas/glob"

// compilePattern turns a KEYS pattern into a predicate.
//
// "*" matches every key. Other patterns use glob syntax without path
// separators: "*" any run of bytes, "?" one character, "[abc]" / "[a-z]"
// classes, "[!abc]" negated classes, "{a,b}" alternatives and "\" escapes.
// A pattern that does not compile is compared literally.
func compilePattern(pattern string) func(string) bool {
	if pattern == "*" {
		return func(string) bool { return true }
	}

	g, err := glob.Compile(pattern)
	if err != nil {
		return func(k string) bool { return k == pattern }
	}
	return g.Match
}
