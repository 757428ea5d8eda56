package compiler

import (
	"strings"

	"github.com/sqlmongo/compiler/atom"
	"github.com/sqlmongo/compiler/compileerr"
	"github.com/sqlmongo/compiler/logical"
)

// regexSpecial is the set of characters LIKE's pattern compiler must
// backslash-escape once translated into a regex, per §4.D "LIKE lowering".
const regexSpecial = `\^$.|?*+()[{`

// compileLike lowers LIKE(expr, pattern, escape) into Search(expr, regex)
// per §4.D: both pattern and escape must be string literals; "_" becomes
// ".", "%" becomes ".*", regex metacharacters are escaped, and the regex
// is anchored with ^...$. An escape character only escapes a literal "%"
// or "_" that immediately follows it; elsewhere it is a plain character.
func (s *State) compileLike(expr logical.Plan, patternLit logical.Plan, escapeLit *logical.Plan) (logical.Plan, error) {
	if patternLit.Tag() != logical.TagConstant || patternLit.ConstantValue().Kind() != atom.KindStr {
		return logical.Plan{}, compileerr.NewExpectedLiteral("LIKE pattern")
	}
	escape := ""
	if escapeLit != nil {
		if escapeLit.Tag() != logical.TagConstant || escapeLit.ConstantValue().Kind() != atom.KindStr {
			return logical.Plan{}, compileerr.NewExpectedLiteral("LIKE escape")
		}
		escape = escapeLit.ConstantValue().Str()
		if len(escape) > 1 {
			return logical.Plan{}, compileerr.Genericf("LIKE escape string longer than one character: %q", escape)
		}
	}

	pattern := patternLit.ConstantValue().Str()
	regex := regexForLikePattern(pattern, escape)

	search, _ := s.registry.Lookup("Search")
	return logical.Invoke(search, expr, logical.Constant(atom.Str(regex))), nil
}

// regexForLikePattern implements Testable Property 6's round trip.
func regexForLikePattern(pattern, escape string) string {
	var out strings.Builder
	out.WriteByte('^')

	runes := []rune(pattern)
	var escByte rune
	hasEscape := escape != ""
	if hasEscape {
		escByte = []rune(escape)[0]
	}

	for i := 0; i < len(runes); i++ {
		c := runes[i]
		if hasEscape && c == escByte && i+1 < len(runes) && (runes[i+1] == '%' || runes[i+1] == '_') {
			out.WriteString(escapeRegexRune(runes[i+1]))
			i++
			continue
		}
		switch c {
		case '_':
			out.WriteByte('.')
		case '%':
			out.WriteString(".*")
		default:
			out.WriteString(escapeRegexRune(c))
		}
	}

	out.WriteByte('$')
	return out.String()
}

func escapeRegexRune(c rune) string {
	if strings.ContainsRune(regexSpecial, c) {
		return `\` + string(c)
	}
	return string(c)
}
