package tikz

import (
	"fmt"
	"strings"

	"github.com/okrause/tikzcanvas/pkg/canvas"
	"github.com/okrause/tikzcanvas/pkg/diagram"
)

// Rewrite writes the graph's current node positions back into the source
// text, replacing only coordinate substrings. Every byte outside a replaced
// coordinate pair is preserved, including comments, style definitions and any
// declaration the parser does not recognize.
//
// A declaration whose coordinates already match the node's position (at the
// 2-decimal precision of the source grammar) is left untouched, so rewriting
// an unmodified parse is the identity. Nodes whose declaration cannot be
// located in the text are skipped.
func Rewrite(source string, g *diagram.Graph) string {
	for _, n := range g.Nodes() {
		source = rewriteNode(source, n)
	}
	return source
}

// rewriteNode updates a single node's declaration, if it can be found.
func rewriteNode(source string, n *diagram.Node) string {
	declStart, segStart, segEnd, ok := findDecl(source, n.Name)
	if !ok {
		return source
	}
	segment := source[segStart:segEnd]

	if loc := atRe.FindStringSubmatchIndex(segment); loc != nil {
		oldInner := segment[loc[2]:loc[3]]
		if old, ok := parseCoords(oldInner); ok && sameRounded(old, n.Pos) {
			return source
		}
		newSegment := segment[:loc[2]] + formatCoords(n.Pos, strings.Contains(oldInner, "cm")) + segment[loc[3]:]
		// A declaration should carry one position; drop any duplicates left
		// over from earlier hand edits.
		newSegment = dropExtraPositions(newSegment)
		return source[:segStart] + newSegment + source[segEnd:]
	}

	// No absolute coordinate in the declaration (relative placement). Only
	// touch it if the node actually moved from where the declaration resolved.
	if sameRounded(n.DeclaredPos, n.Pos) {
		return source
	}
	bracketStart := declStart + len(`\node[`)
	bracketEnd := strings.IndexByte(source[bracketStart:], ']') + bracketStart
	newBracket := stripPlacement(source[bracketStart:bracketEnd])
	newSegment := " at (" + formatCoords(n.Pos, true) + ") " + strings.TrimSpace(stripPlacement(segment))
	newSegment = strings.TrimRight(newSegment, " ") + " "
	return source[:bracketStart] + newBracket + source[bracketEnd:segStart] + newSegment + source[segEnd:]
}

// findDecl locates the declaration of the named node. It returns the index
// of the \node token, and the bounds of the placement segment between the
// name's closing paren and the label's opening brace.
func findDecl(source, name string) (declStart, segStart, segEnd int, ok bool) {
	i := 0
	for {
		start := strings.Index(source[i:], `\node[`)
		if start < 0 {
			return 0, 0, 0, false
		}
		start += i

		bracketEnd := strings.IndexByte(source[start:], ']')
		if bracketEnd < 0 {
			return 0, 0, 0, false
		}
		bracketEnd += start

		nameStart := strings.IndexByte(source[bracketEnd:], '(')
		if nameStart < 0 {
			i = bracketEnd + 1
			continue
		}
		nameStart += bracketEnd
		nameEnd := strings.IndexByte(source[nameStart:], ')')
		if nameEnd < 0 {
			i = nameStart + 1
			continue
		}
		nameEnd += nameStart

		braceStart := strings.IndexByte(source[nameEnd:], '{')
		if braceStart < 0 {
			i = nameEnd + 1
			continue
		}
		braceStart += nameEnd

		if strings.TrimSpace(source[nameStart+1:nameEnd]) == name {
			return start, nameEnd + 1, braceStart, true
		}

		if _, end, matched := matchBraces(source, braceStart); matched {
			i = end
		} else {
			i = braceStart + 1
		}
	}
}

// dropExtraPositions removes every "at (...)" after the first.
func dropExtraPositions(segment string) string {
	locs := atRe.FindAllStringIndex(segment, -1)
	for k := len(locs) - 1; k >= 1; k-- {
		start, end := locs[k][0], locs[k][1]
		// Eat one leading space so the segment does not accumulate gaps.
		if start > 0 && segment[start-1] == ' ' {
			start--
		}
		segment = segment[:start] + segment[end:]
	}
	return segment
}

// stripPlacement removes relative-placement keys from a comma-separated
// attribute list, keeping everything else in order.
func stripPlacement(attrs string) string {
	parts := strings.Split(attrs, ",")
	kept := parts[:0]
	for _, p := range parts {
		if t := strings.TrimSpace(p); t == "" || isPlacement(t) {
			continue
		}
		kept = append(kept, p)
	}
	return strings.TrimSpace(strings.Join(kept, ","))
}

// formatCoords renders a position at the source grammar's 2-decimal
// precision, with the cm unit suffix when the original declaration used one.
func formatCoords(p diagram.Point, cm bool) string {
	suffix := ""
	if cm {
		suffix = "cm"
	}
	return fmt.Sprintf("%.2f%s,%.2f%s", canvas.RoundUnit(p.X), suffix, canvas.RoundUnit(p.Y), suffix)
}

// sameRounded reports whether two positions are equal at 2-decimal precision.
func sameRounded(a, b diagram.Point) bool {
	return canvas.RoundUnit(a.X) == canvas.RoundUnit(b.X) &&
		canvas.RoundUnit(a.Y) == canvas.RoundUnit(b.Y)
}
