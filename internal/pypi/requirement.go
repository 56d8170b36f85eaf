package pypi

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/pkg/errors"

	"github.com/teamchong/metal0-sub013/internal/rangeset"
	"github.com/teamchong/metal0-sub013/internal/version"
)

// Requirement is one parsed PEP 508 dependency specifier: a package name,
// its requested extras, the version constraint expressed as a Range, and
// — if present — the raw marker clause text (already split off by
// SplitMarker, not yet evaluated).
type Requirement struct {
	Name   string
	Extras []string
	Range  rangeset.Range
	Marker string
}

// ParseDependency parses a single Requires-Dist value (one line of PEP 508
// syntax) into a Requirement. The overall decomposition — name, optional
// "[extras]", optional version spec, optional ";marker" — follows
// github.com/AlexanderEkdahl/rope/version's ParseDependency structure
// (skipWhitespace / expect-by-predicate / a dedicated extras() and
// versionRequirements() sub-parser); the version-constraint algebra itself
// is reimplemented directly against this module's own internal/version and
// internal/rangeset types; rope's own Requirement.Version field could not
// be resolved to a concrete type from the single retrieved source file, so
// rather than risk importing an incompatible shape this package owns the
// constraint parsing end to end.
func ParseDependency(raw string) (Requirement, error) {
	depPart, marker, _ := SplitMarker(raw)

	p := &reqParser{s: depPart}
	p.skipSpace()
	name := p.takeWhile(isIdentRune)
	if name == "" {
		return Requirement{}, errors.Errorf("pypi: requirement %q: expected distribution name", raw)
	}

	var extras []string
	p.skipSpace()
	if p.peek() == '[' {
		var err error
		extras, err = p.parseExtras()
		if err != nil {
			return Requirement{}, errors.Wrapf(err, "pypi: requirement %q", raw)
		}
	}

	p.skipSpace()
	r := rangeset.Full()
	if p.pos < len(p.s) {
		parsed, err := p.parseVersionSpec()
		if err != nil {
			return Requirement{}, errors.Wrapf(err, "pypi: requirement %q", raw)
		}
		r = parsed
	}

	return Requirement{
		Name:   CanonPackageName(name),
		Extras: extras,
		Range:  r,
		Marker: marker,
	}, nil
}

type reqParser struct {
	s   string
	pos int
}

func isIdentRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' || r == '.'
}

func isVersionRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' || r == '.' || r == '*' || r == '+' || r == '!'
}

func (p *reqParser) skipSpace() {
	for p.pos < len(p.s) && unicode.IsSpace(rune(p.s[p.pos])) {
		p.pos++
	}
}

func (p *reqParser) peek() byte {
	if p.pos >= len(p.s) {
		return 0
	}
	return p.s[p.pos]
}

func (p *reqParser) takeWhile(pred func(rune) bool) string {
	start := p.pos
	for p.pos < len(p.s) && pred(rune(p.s[p.pos])) {
		p.pos++
	}
	return p.s[start:p.pos]
}

func (p *reqParser) parseExtras() ([]string, error) {
	p.pos++ // consume '['
	var extras []string
	for {
		p.skipSpace()
		name := p.takeWhile(isIdentRune)
		if name == "" {
			return nil, errors.New("expected extras identifier")
		}
		extras = append(extras, name)
		p.skipSpace()
		switch p.peek() {
		case ']':
			p.pos++
			return extras, nil
		case ',':
			p.pos++
		default:
			return nil, errors.Errorf("expected ',' or ']' in extras list, got %q", p.s[p.pos:])
		}
	}
}

var versionCmpOps = []string{"<=", "<", "!=", "===", "==", ">=", ">", "~="}

func (p *reqParser) parseVersionSpec() (rangeset.Range, error) {
	paren := false
	p.skipSpace()
	if p.peek() == '(' {
		paren = true
		p.pos++
	}

	result := rangeset.Full()
	first := true
	for {
		p.skipSpace()
		if p.pos >= len(p.s) {
			break
		}
		if paren && p.peek() == ')' {
			p.pos++
			break
		}
		if !first {
			if p.peek() == ',' {
				p.pos++
				p.skipSpace()
			}
		}

		op := ""
		for _, candidate := range versionCmpOps {
			if strings.HasPrefix(p.s[p.pos:], candidate) {
				op = candidate
				break
			}
		}
		if op == "" {
			if first {
				return rangeset.Full(), errors.Errorf("expected comparison operator, got %q", p.s[p.pos:])
			}
			break
		}
		p.pos += len(op)
		p.skipSpace()
		verStr := p.takeWhile(isVersionRune)
		if verStr == "" {
			return rangeset.Full(), errors.New("expected version after comparison operator")
		}

		clauseRange, err := rangeForOp(op, verStr)
		if err != nil {
			return rangeset.Full(), err
		}
		result = result.Intersection(clauseRange)
		first = false
	}

	return result, nil
}

func rangeForOp(op, verStr string) (rangeset.Range, error) {
	if op == "==" && strings.HasSuffix(verStr, ".*") {
		base := strings.TrimSuffix(verStr, ".*")
		lower, err := version.Parse(base)
		if err != nil {
			return rangeset.Full(), err
		}
		upper, err := bumpFinalComponent(base)
		if err != nil {
			return rangeset.Full(), err
		}
		return rangeset.Between(rangeset.Included(lower), rangeset.Excluded(upper)), nil
	}

	if op == "~=" {
		lower, err := version.Parse(verStr)
		if err != nil {
			return rangeset.Full(), err
		}
		upper, err := bumpFinalComponent(trimLastComponent(verStr))
		if err != nil {
			return rangeset.Full(), err
		}
		return rangeset.Between(rangeset.Included(lower), rangeset.Excluded(upper)), nil
	}

	v, err := version.Parse(verStr)
	if err != nil {
		return rangeset.Full(), err
	}

	switch op {
	case "==", "===":
		return rangeset.Singleton(v), nil
	case "!=":
		return rangeset.Singleton(v).Complement(), nil
	case "<":
		return rangeset.LT(v), nil
	case "<=":
		return rangeset.LE(v), nil
	case ">":
		return rangeset.GT(v), nil
	case ">=":
		return rangeset.GE(v), nil
	default:
		return rangeset.Full(), errors.Errorf("unsupported comparison operator %q", op)
	}
}

// trimLastComponent drops the final dotted release segment, e.g. "2.2.1"
// -> "2.2", the PEP 440 rule for ~= 's implied upper bound.
func trimLastComponent(v string) string {
	idx := strings.LastIndexByte(v, '.')
	if idx < 0 {
		return v
	}
	return v[:idx]
}

// bumpFinalComponent increments the last numeric dotted release segment of
// v by one, e.g. "2.2" -> "2.3", "2" -> "3". Used to build the exclusive
// upper bound for "~=" and wildcard "==" constraints.
func bumpFinalComponent(v string) (version.Version, error) {
	parts := strings.Split(v, ".")
	last := parts[len(parts)-1]
	n, err := strconv.Atoi(last)
	if err != nil {
		return version.Version{}, errors.Wrapf(err, "pypi: cannot bump non-numeric release segment %q", last)
	}
	parts[len(parts)-1] = strconv.Itoa(n + 1)
	return version.Parse(strings.Join(parts, "."))
}
