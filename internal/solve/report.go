package solve

import (
	"fmt"
	"strings"

	"github.com/teamchong/metal0-sub013/internal/incompat"
)

// Report renders a NoSolutionError's incompatibility tree as a
// human-readable explanation, walking Derived causes back to the root
// incompatibilities that produced them. Grounded on
// contriboss-pubgrub-go's DefaultReporter.
func Report(inc *incompat.Incompatibility) string {
	if inc == nil {
		return "no solution found"
	}
	var lines []string
	reportOne(inc, &lines, 0, make(map[*incompat.Incompatibility]bool))
	return strings.Join(lines, "\n")
}

func reportOne(inc *incompat.Incompatibility, lines *[]string, depth int, visited map[*incompat.Incompatibility]bool) {
	if visited[inc] {
		return
	}
	visited[inc] = true
	indent := strings.Repeat("  ", depth)

	switch inc.Cause.Kind {
	case incompat.NoVersions:
		*lines = append(*lines, fmt.Sprintf("%sno versions of %s satisfy the constraint", indent, inc))

	case incompat.FromDependency:
		*lines = append(*lines, fmt.Sprintf("%sbecause %s %s depends on %s",
			indent, inc.Cause.DependerPackage, inc.Cause.DependerVersion, inc.Cause.DependeePackage))

	case incompat.Custom:
		*lines = append(*lines, fmt.Sprintf("%s%s: %s", indent, inc, inc.Cause.Message))

	case incompat.Derived:
		if inc.Cause.First != nil && inc.Cause.Second != nil {
			*lines = append(*lines, fmt.Sprintf("%sbecause:", indent))
			reportOne(inc.Cause.First, lines, depth+1, visited)
			*lines = append(*lines, fmt.Sprintf("%sand:", indent))
			reportOne(inc.Cause.Second, lines, depth+1, visited)
		}
		switch len(inc.Terms) {
		case 0:
			*lines = append(*lines, fmt.Sprintf("%sversion solving has failed", indent))
		default:
			*lines = append(*lines, fmt.Sprintf("%s%s is forbidden", indent, inc))
		}

	default:
		*lines = append(*lines, fmt.Sprintf("%s%s", indent, inc))
	}
}
