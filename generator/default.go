package generator

import (
	"strings"

	"github.com/ridoystarlord/knexgen/schema"
)

// TranslateDefault turns a catalog column_default into the literal emitted
// after .defaultTo. Auto-increment columns never carry a default: the
// sequence supplies their values.
func TranslateDefault(raw *string, dataType string, autoIncrement bool) *Literal {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil
	}
	if autoIncrement {
		return nil
	}

	expr := StripCast(*raw)

	if schema.ParseDataKind(dataType).NumericFamily() {
		return &Literal{Value: expr}
	}

	if s, ok := decodeStringLiteral(strings.TrimSpace(expr)); ok {
		return &Literal{Value: s, Quoted: true}
	}
	// Not a single literal ('a' || 'b', now(), ...). Quotes are dropped, which
	// corrupts expressions that rely on them.
	return &Literal{
		Value:  strings.ReplaceAll(expr, "'", ""),
		Quoted: true,
		Lossy:  strings.Contains(expr, "'"),
	}
}

// IsSequenceDefault reports whether a default draws from a sequence.
func IsSequenceDefault(raw *string) bool {
	return raw != nil && strings.Contains(*raw, "nextval")
}

// StripCast removes trailing ::type annotations from a default expression:
//
//	'active'::character varying    -> 'active'
//	('now'::text)::date            -> 'now'
//	(0)::numeric                   -> 0
//
// Casts are removed until none trails the expression, so the function is
// idempotent. Input without a trailing cast is returned unchanged.
func StripCast(expr string) string {
	out, stripped := expr, false
	for {
		next, ok := stripOnce(strings.TrimSpace(out))
		if !ok {
			break
		}
		out, stripped = next, true
	}
	if !stripped {
		return expr
	}
	return out
}

func stripOnce(s string) (string, bool) {
	// (expr::type)
	if inner, ok := unwrapParens(s); ok {
		if base, ok := splitCast(inner); ok {
			return base, true
		}
	}
	// expr::type and (expr)::type
	if base, ok := splitCast(s); ok {
		if inner, ok := unwrapParens(base); ok {
			return inner, true
		}
		return base, true
	}
	return "", false
}

// splitCast splits s at its last top-level "::" when what follows is a type
// name. Quoted text and parenthesized groups are skipped.
func splitCast(s string) (string, bool) {
	depth := 0
	last := -1
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\'', '"':
			end := closingQuote(s, i)
			if end < 0 {
				return "", false
			}
			i = end
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return "", false
			}
		case ':':
			if depth == 0 && i+1 < len(s) && s[i+1] == ':' {
				last = i
				i++
			}
		}
	}
	if depth != 0 || last <= 0 {
		return "", false
	}
	base := strings.TrimSpace(s[:last])
	if base == "" || !isTypeName(strings.TrimSpace(s[last+2:])) {
		return "", false
	}
	return base, true
}

// unwrapParens returns the inside of s when a single pair of parentheses
// encloses all of it.
func unwrapParens(s string) (string, bool) {
	if len(s) < 2 || s[0] != '(' || s[len(s)-1] != ')' {
		return "", false
	}
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\'', '"':
			end := closingQuote(s, i)
			if end < 0 {
				return "", false
			}
			i = end
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 && i != len(s)-1 {
				return "", false
			}
		}
	}
	if depth != 0 {
		return "", false
	}
	inner := strings.TrimSpace(s[1 : len(s)-1])
	return inner, inner != ""
}

// closingQuote returns the index of the quote closing the one at start,
// honouring doubled quotes. It returns -1 if the quote is never closed.
func closingQuote(s string, start int) int {
	q := s[start]
	for i := start + 1; i < len(s); i++ {
		if s[i] != q {
			continue
		}
		if i+1 < len(s) && s[i+1] == q {
			i++
			continue
		}
		return i
	}
	return -1
}

// isTypeName accepts names such as integer, character varying,
// public.my_enum, "Weird Type", numeric(10,2) and text[].
func isTypeName(s string) bool {
	if s == "" {
		return false
	}
	i := 0
	words := 0
	for i < len(s) {
		switch c := s[i]; {
		case c == '"':
			end := closingQuote(s, i)
			if end < 0 {
				return false
			}
			i = end + 1
			words++
		case isIdentByte(c):
			for i < len(s) && isIdentByte(s[i]) {
				i++
			}
			words++
		case c == ' ' || c == '.':
			i++
		case c == '(':
			if words == 0 {
				return false
			}
			end := strings.IndexByte(s[i:], ')')
			if end < 0 || !isTypeModifier(s[i+1:i+end]) {
				return false
			}
			i += end + 1
		case c == '[':
			if words == 0 || i+1 >= len(s) || s[i+1] != ']' {
				return false
			}
			i += 2
		default:
			return false
		}
	}
	return words > 0
}

func isTypeModifier(s string) bool {
	if strings.TrimSpace(s) == "" {
		return false
	}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			return false
		}
		for i := 0; i < len(part); i++ {
			if part[i] < '0' || part[i] > '9' {
				return false
			}
		}
	}
	return true
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '$' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// decodeStringLiteral decodes s when it is exactly one SQL string literal.
func decodeStringLiteral(s string) (string, bool) {
	if len(s) < 2 || s[0] != '\'' || closingQuote(s, 0) != len(s)-1 {
		return "", false
	}
	return strings.ReplaceAll(s[1:len(s)-1], "''", "'"), true
}
