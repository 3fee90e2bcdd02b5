package tags

import (
	"bytes"
	"strings"

	"github.com/viant/parsly"
)

// matchPair matches the next key[=value] element terminated by a coma.
// Block ({...}) and quoted ('...') values may contain comas.
func matchPair(cursor *parsly.Cursor) (string, string) {
	key := ""
	value := ""
	var tokens = []*parsly.Token{scopeBlockMatcher, quotedMatcher}
	eqIndex := bytes.IndexByte(cursor.Input[cursor.Pos:], '=')
	comaIndex := bytes.IndexByte(cursor.Input[cursor.Pos:], ',')
	if eqIndex != -1 && (comaIndex == -1 || eqIndex < comaIndex) {
		tokens = append(tokens, eqTerminatorMatcher)
	} else {
		tokens = append(tokens, comaTerminatorMatcher)
	}

	match := cursor.MatchAfterOptional(whitespaceMatcher, tokens...)
	switch match.Code {
	case scopeBlockToken, quotedToken:
		value = unwrap(match.Text(cursor))
		cursor.MatchAny(comaTerminatorMatcher)
	case comaTerminatorToken:
		value = match.Text(cursor)
		value = value[:len(value)-1]
	case eqTerminatorToken:
		key = match.Text(cursor)
		key = strings.TrimSpace(key[:len(key)-1])
		value = matchValue(cursor)
		if key == "" {
			key = "="
		}
		return key, value
	default:
		value = rest(cursor)
	}
	value = strings.TrimSpace(value)
	if index := strings.Index(value, "="); index != -1 {
		return strings.TrimSpace(value[:index]), strings.TrimSpace(value[index+1:])
	}
	return value, ""
}

func matchValue(cursor *parsly.Cursor) string {
	match := cursor.MatchAfterOptional(whitespaceMatcher, scopeBlockMatcher, quotedMatcher, comaTerminatorMatcher)
	switch match.Code {
	case scopeBlockToken, quotedToken:
		value := unwrap(match.Text(cursor))
		cursor.MatchAny(comaTerminatorMatcher)
		return value
	case comaTerminatorToken:
		value := match.Text(cursor)
		return strings.TrimSpace(value[:len(value)-1])
	}
	return strings.TrimSpace(rest(cursor))
}

func rest(cursor *parsly.Cursor) string {
	if cursor.Pos >= len(cursor.Input) {
		return ""
	}
	value := string(cursor.Input[cursor.Pos:])
	cursor.Pos = len(cursor.Input)
	return value
}

func unwrap(text string) string {
	if len(text) < 2 {
		return text
	}
	switch text[0] {
	case '{', '\'':
		return text[1 : len(text)-1]
	}
	return text
}
