package tikz

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/okrause/tikzcanvas/pkg/diagram"
)

// Default offsets, in document units, for relative placement without an
// explicit shift. Below/left/right get a wider gap than above so labels do
// not collide with the reference node.
const (
	defaultAboveGap = 1.5
	defaultBelowGap = 2.0
	defaultSideGap  = 2.0
)

// Fallback grid for declarations with no recoverable position: four columns
// centered under the diagram, rows stepping downward.
const (
	fallbackCols = 4
	fallbackColW = 3.0
	fallbackRowH = 2.0
	fallbackTopY = -4.0
)

var (
	atRe     = regexp.MustCompile(`at\s*\(([^)]+)\)`)
	relRe    = regexp.MustCompile(`(above|below|left|right)=of\s+([\w-]+)`)
	xshiftRe = regexp.MustCompile(`xshift=(-?[\d.]+)cm`)
	yshiftRe = regexp.MustCompile(`yshift=(-?[\d.]+)cm`)
	drawRe   = regexp.MustCompile(`\\draw\[([^\]]*)\]\s*\(([^)]+)\)\s*--\s*\(([^)]+)\)`)
)

// decl is one scanned node declaration before position resolution.
type decl struct {
	name   string
	styles []string
	label  string

	pos    *diagram.Point // absolute position, if declared
	relTo  string         // reference node for relative placement
	dx, dy float64        // offset from the reference, document units
}

// Parse extracts a diagram graph from TikZ source text.
//
// Parse never fails: declarations that do not match the recognized patterns
// are skipped, duplicate node names keep their first declaration, and
// connections whose endpoints are missing are dropped. Node scanning
// completes before connection scanning so forward references resolve.
func Parse(source string) *diagram.Graph {
	g := diagram.New()

	decls := scanNodes(source)
	resolve(g, decls)

	for _, m := range drawRe.FindAllStringSubmatch(source, -1) {
		g.AddConnection(diagram.Connection{
			From:   strings.TrimSpace(m[2]),
			To:     strings.TrimSpace(m[3]),
			Dashed: strings.Contains(m[1], "dashed"),
		})
	}

	return g
}

// scanNodes walks the source extracting node declarations. Substring scanning
// against explicit delimiters, not a grammar: the label body is matched by
// brace counting so nested braces (\textbf{...}) survive, but everything else
// uses the first closing delimiter.
func scanNodes(source string) []decl {
	var decls []decl
	seen := make(map[string]bool)

	i := 0
	for {
		start := strings.Index(source[i:], `\node[`)
		if start < 0 {
			break
		}
		start += i

		bracketEnd := strings.IndexByte(source[start:], ']')
		if bracketEnd < 0 {
			break
		}
		bracketEnd += start
		bracket := source[start+len(`\node[`) : bracketEnd]

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
		name := strings.TrimSpace(source[nameStart+1 : nameEnd])

		braceStart := strings.IndexByte(source[nameEnd:], '{')
		if braceStart < 0 {
			i = nameEnd + 1
			continue
		}
		braceStart += nameEnd
		segment := source[nameEnd+1 : braceStart]

		label, end, ok := matchBraces(source, braceStart)
		if !ok {
			i = braceStart + 1
			continue
		}
		i = end

		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		d := decl{
			name:   name,
			styles: styleTags(bracket),
			label:  normalizeLabel(label),
		}
		// Placement may live in the style brackets or between the name and
		// the label body; scan both.
		parsePlacement(&d, bracket+","+segment)
		decls = append(decls, d)
	}

	return decls
}

// matchBraces returns the content of the brace-delimited body starting at
// open (which must index a '{'), and the index just past the closing brace.
func matchBraces(s string, open int) (string, int, bool) {
	depth := 1
	for j := open + 1; j < len(s); j++ {
		switch s[j] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[open+1 : j], j + 1, true
			}
		}
	}
	return "", 0, false
}

// styleTags splits the bracket content into style tags, dropping placement
// keys that are not styles.
func styleTags(bracket string) []string {
	var tags []string
	for _, part := range strings.Split(bracket, ",") {
		part = strings.TrimSpace(part)
		if part == "" || isPlacement(part) {
			continue
		}
		tags = append(tags, part)
	}
	return tags
}

func isPlacement(s string) bool {
	return strings.HasPrefix(s, "above=") ||
		strings.HasPrefix(s, "below=") ||
		strings.HasPrefix(s, "left=") ||
		strings.HasPrefix(s, "right=") ||
		strings.HasPrefix(s, "xshift=") ||
		strings.HasPrefix(s, "yshift=")
}

// parsePlacement extracts absolute and relative position from the combined
// placement text. Explicit shifts override the relative-placement defaults.
func parsePlacement(d *decl, text string) {
	if m := atRe.FindStringSubmatch(text); m != nil {
		if p, ok := parseCoords(m[1]); ok {
			d.pos = &p
		}
	}

	if m := xshiftRe.FindStringSubmatch(text); m != nil {
		d.dx, _ = strconv.ParseFloat(m[1], 64)
	}
	if m := yshiftRe.FindStringSubmatch(text); m != nil {
		d.dy, _ = strconv.ParseFloat(m[1], 64)
	}

	if m := relRe.FindStringSubmatch(text); m != nil {
		d.relTo = m[2]
		switch m[1] {
		case "above":
			if d.dy == 0 {
				d.dy = defaultAboveGap
			}
		case "below":
			if d.dy == 0 {
				d.dy = -defaultBelowGap
			}
		case "left":
			if d.dx == 0 {
				d.dx = -defaultSideGap
			}
		case "right":
			if d.dx == 0 {
				d.dx = defaultSideGap
			}
		}
	}
}

// parseCoords parses "x,y" with optional cm suffixes into a document-unit
// point.
func parseCoords(s string) (diagram.Point, bool) {
	parts := strings.Split(strings.ReplaceAll(s, "cm", ""), ",")
	if len(parts) != 2 {
		return diagram.Point{}, false
	}
	x, errX := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	y, errY := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if errX != nil || errY != nil {
		return diagram.Point{}, false
	}
	return diagram.Point{X: x, Y: y}, true
}

// resolve turns declarations into graph nodes. Absolute declarations land
// first, then relative ones are resolved iteratively (references can point
// forward or at other relative nodes), and whatever remains is placed on the
// fallback grid.
func resolve(g *diagram.Graph, decls []decl) {
	add := func(d decl, p diagram.Point) {
		g.AddNode(diagram.Node{
			Name:        d.name,
			Styles:      d.styles,
			Pos:         p,
			Label:       d.label,
			DeclaredPos: p,
		})
	}

	var pending []decl
	for _, d := range decls {
		if d.pos != nil && d.relTo == "" {
			add(d, *d.pos)
		} else {
			pending = append(pending, d)
		}
	}

	for len(pending) > 0 {
		progress := false
		var next []decl
		for _, d := range pending {
			switch {
			case d.relTo != "" && g.Node(d.relTo) != nil:
				ref := g.Node(d.relTo).Pos
				add(d, diagram.Point{X: ref.X + d.dx, Y: ref.Y + d.dy})
				progress = true
			case d.relTo == "" && d.pos != nil:
				add(d, *d.pos)
				progress = true
			default:
				next = append(next, d)
			}
		}
		pending = next
		if !progress {
			break
		}
	}

	for idx, d := range pending {
		col := idx % fallbackCols
		row := idx / fallbackCols
		add(d, diagram.Point{
			X: (float64(col) - fallbackCols/2) * fallbackColW,
			Y: fallbackTopY - float64(row)*fallbackRowH,
		})
	}
}
