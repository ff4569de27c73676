package utils

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Capitalize upper-cases the first letter of s and lower-cases the rest, so
// "user_profiles" becomes "User_profiles" and "ORDERS" becomes "Orders".
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToTitle(r)) + strings.ToLower(s[size:])
}

// SnakeToCamel lower-cases s and folds every "_x" pair into "X":
// "blog_posts" becomes "blogPosts".
func SnakeToCamel(s string) string {
	rs := []rune(strings.ToLower(s))
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(rs); i++ {
		if rs[i] == '_' && i+1 < len(rs) && isWord(rs[i+1]) {
			b.WriteRune(unicode.ToUpper(rs[i+1]))
			i++
			continue
		}
		b.WriteRune(rs[i])
	}
	return b.String()
}

func isWord(r rune) bool {
	return r == '_' || r < utf8.RuneSelf && (unicode.IsLetter(r) || unicode.IsDigit(r))
}
