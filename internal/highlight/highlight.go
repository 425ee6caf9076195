// Package highlight maps source text plus a language tag to styled tokens.
// It is a plain character scanner, not a parser: good enough for card
// previews, stateless, and safe to call on every render.
package highlight

import "strings"

// Kind classifies a token for styling.
type Kind string

const (
	KindKeyword Kind = "keyword"
	KindString  Kind = "string"
	KindNumber  Kind = "number"
	KindComment Kind = "comment"
	KindDefault Kind = "default"
)

// Colors maps token kinds to the palette the UI renders with.
var Colors = map[Kind]string{
	KindKeyword: "#c678dd",
	KindString:  "#98c379",
	KindNumber:  "#d19a66",
	KindComment: "#5c6370",
	KindDefault: "#abb2bf",
}

// Token is a run of source text with a single styling kind.
type Token struct {
	Text  string `json:"text"`
	Kind  Kind   `json:"kind"`
	Color string `json:"color"`
}

// keywords per language tag. Unrecognized languages get no keyword table
// and fall back to default styling for every word.
var keywords = map[string][]string{
	"javascript": {
		"const", "let", "var", "function", "return", "if", "else", "for", "while",
		"class", "extends", "import", "export", "from", "default", "async", "await",
		"try", "catch", "throw", "new", "this", "super", "null", "undefined",
		"true", "false", "typeof", "instanceof",
	},
	"typescript": {
		"const", "let", "var", "function", "return", "if", "else", "for", "while",
		"class", "extends", "import", "export", "from", "default", "async", "await",
		"try", "catch", "throw", "new", "this", "super", "null", "undefined",
		"true", "false", "typeof", "instanceof", "interface", "type", "as",
		"implements", "private", "public", "protected", "readonly", "enum", "namespace",
	},
	"python": {
		"def", "class", "return", "if", "elif", "else", "for", "while", "in",
		"import", "from", "as", "try", "except", "finally", "raise", "with",
		"lambda", "pass", "break", "continue", "and", "or", "not", "is",
		"None", "True", "False", "async", "await", "yield", "global", "nonlocal",
	},
	"go": {
		"func", "package", "import", "return", "if", "else", "for", "range",
		"switch", "case", "default", "break", "continue", "type", "struct",
		"interface", "map", "chan", "go", "defer", "select", "var", "const",
		"nil", "true", "false",
	},
	"rust": {
		"fn", "let", "mut", "const", "return", "if", "else", "for", "while",
		"loop", "match", "struct", "enum", "impl", "trait", "pub", "use", "mod",
		"self", "Self", "true", "false", "async", "await", "move", "ref", "where",
	},
	"sql": {
		"SELECT", "FROM", "WHERE", "INSERT", "INTO", "VALUES", "UPDATE", "SET",
		"DELETE", "CREATE", "TABLE", "DROP", "ALTER", "JOIN", "INNER", "LEFT",
		"RIGHT", "ON", "AND", "OR", "NOT", "NULL", "ORDER", "BY", "GROUP",
		"HAVING", "LIMIT", "OFFSET", "AS", "DISTINCT", "INDEX", "PRIMARY", "KEY",
	},
	"bash": {
		"if", "then", "else", "elif", "fi", "for", "while", "do", "done", "case",
		"esac", "function", "return", "exit", "echo", "export", "local", "source",
	},
	"css": {
		"import", "media", "keyframes", "supports", "font-face", "root",
	},
	"html": {
		"html", "head", "body", "div", "span", "script", "style", "link", "meta",
	},
	"json": {
		"true", "false", "null",
	},
}

// lineComment returns the line-comment prefix for a language, or "".
func lineComment(language string) string {
	switch language {
	case "python", "bash":
		return "#"
	case "sql":
		return "--"
	case "html", "css", "json":
		return ""
	default:
		return "//"
	}
}

// Line is the tokenization of a single source line.
type Line []Token

// Source tokenizes an entire snippet line by line.
func Source(source, language string) []Line {
	rawLines := strings.Split(source, "\n")
	lines := make([]Line, len(rawLines))
	for i, raw := range rawLines {
		lines[i] = scanLine(raw, language)
	}
	return lines
}

func scanLine(line, language string) Line {
	var tokens Line
	kw := keywordSet(language)
	comment := lineComment(language)

	runes := []rune(line)
	i := 0
	for i < len(runes) {
		// rest of the line is a comment
		if comment != "" && strings.HasPrefix(string(runes[i:]), comment) {
			tokens = appendToken(tokens, string(runes[i:]), KindComment)
			break
		}

		ch := runes[i]
		switch {
		case ch == '"' || ch == '\'' || ch == '`':
			text, next := scanString(runes, i, ch)
			tokens = appendToken(tokens, text, KindString)
			i = next
		case ch >= '0' && ch <= '9':
			text, next := scanWhile(runes, i, isNumberRune)
			tokens = appendToken(tokens, text, KindNumber)
			i = next
		case isWordRune(ch):
			text, next := scanWhile(runes, i, isWordRune)
			kind := KindDefault
			if kw[text] {
				kind = KindKeyword
			}
			tokens = appendToken(tokens, text, kind)
			i = next
		default:
			tokens = appendToken(tokens, string(ch), KindDefault)
			i++
		}
	}
	if tokens == nil {
		tokens = Line{}
	}
	return tokens
}

func keywordSet(language string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range keywords[language] {
		set[w] = true
	}
	return set
}

// scanString consumes a quoted literal including both quotes, honoring
// backslash escapes. An unterminated literal runs to end of line.
func scanString(runes []rune, start int, quote rune) (string, int) {
	i := start + 1
	for i < len(runes) {
		if runes[i] == '\\' && i+1 < len(runes) {
			i += 2
			continue
		}
		if runes[i] == quote {
			i++
			break
		}
		i++
	}
	return string(runes[start:i]), i
}

func scanWhile(runes []rune, start int, pred func(rune) bool) (string, int) {
	i := start
	for i < len(runes) && pred(runes[i]) {
		i++
	}
	return string(runes[start:i]), i
}

func isWordRune(ch rune) bool {
	return ch == '_' || ch == '-' ||
		(ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9')
}

func isNumberRune(ch rune) bool {
	return (ch >= '0' && ch <= '9') || ch == '.' || ch == 'x' ||
		(ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func appendToken(tokens Line, text string, kind Kind) Line {
	// merge adjacent default runs so output stays compact
	if kind == KindDefault && len(tokens) > 0 && tokens[len(tokens)-1].Kind == KindDefault {
		tokens[len(tokens)-1].Text += text
		return tokens
	}
	return append(tokens, Token{Text: text, Kind: kind, Color: Colors[kind]})
}
