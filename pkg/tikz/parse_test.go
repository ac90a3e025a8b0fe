package tikz

import (
	"math"
	"testing"

	"github.com/okrause/tikzcanvas/pkg/diagram"
)

const sampleDoc = `\begin{tikzpicture}[
    node distance=1.5cm and 2cm,
    cloud/.style={ellipse, draw, fill=blue!20},
    service/.style={rectangle, draw, fill=orange!20},
    arrow/.style={->, >=stealth, thick}
]
    % cloud providers
    \node[cloud] (a) at (-6,3) {\textbf{AWS}};
    \node[cloud] (b) at (-1.3,3) {\textbf{GCP}};
    \draw[arrow] (a) -- (b);
\end{tikzpicture}
`

func TestParseSample(t *testing.T) {
	g := Parse(sampleDoc)

	if g.Len() != 2 {
		t.Fatalf("nodes = %d, want 2", g.Len())
	}
	if len(g.Connections()) != 1 {
		t.Fatalf("connections = %d, want 1", len(g.Connections()))
	}

	a := g.Node("a")
	if a == nil {
		t.Fatal("node a missing")
	}
	if a.Pos.X != -6 || a.Pos.Y != 3 {
		t.Errorf("a.Pos = %+v, want (-6,3)", a.Pos)
	}
	if a.Label != "AWS" {
		t.Errorf("a.Label = %q, want AWS", a.Label)
	}
	if a.Shape != diagram.ShapeEllipse {
		t.Errorf("a.Shape = %q, want ellipse", a.Shape)
	}

	b := g.Node("b")
	if b.Pos.X != -1.3 || b.Pos.Y != 3 {
		t.Errorf("b.Pos = %+v, want (-1.3,3)", b.Pos)
	}

	c := g.Connections()[0]
	if c.From != "a" || c.To != "b" || c.Dashed {
		t.Errorf("connection = %+v", c)
	}
}

func TestParseNodeVariants(t *testing.T) {
	tests := []struct {
		name   string
		source string
		check  func(t *testing.T, g *diagram.Graph)
	}{
		{
			name:   "UnitSuffix",
			source: `\node[service] (s) at (1.50cm,-2.25cm) {S};`,
			check: func(t *testing.T, g *diagram.Graph) {
				if p := g.Node("s").Pos; p.X != 1.5 || p.Y != -2.25 {
					t.Errorf("pos = %+v", p)
				}
			},
		},
		{
			name:   "DuplicateFirstWins",
			source: `\node[service] (n) at (0,0) {first}; \node[service] (n) at (5,5) {second};`,
			check: func(t *testing.T, g *diagram.Graph) {
				if g.Len() != 1 {
					t.Fatalf("nodes = %d, want 1", g.Len())
				}
				n := g.Node("n")
				if n.Pos.X != 0 || n.Pos.Y != 0 || n.Label != "first" {
					t.Errorf("node = %+v, want first declaration", n)
				}
			},
		},
		{
			name:   "NestedLabelBraces",
			source: `\node[cloud] (k) at (0,0) {\textbf{Kubernetes}\\small Multi-Cloud};`,
			check: func(t *testing.T, g *diagram.Graph) {
				if got := g.Node("k").Label; got != "Kubernetes\nMulti-Cloud" {
					t.Errorf("label = %q", got)
				}
			},
		},
		{
			name:   "MalformedCoordinatesSkipped",
			source: `\node[service] (bad) at (oops,3) {B}; \node[service] (good) at (1,1) {G};`,
			check: func(t *testing.T, g *diagram.Graph) {
				// "bad" has no usable position; it falls back to the grid
				// rather than being dropped.
				if g.Len() != 2 {
					t.Fatalf("nodes = %d, want 2", g.Len())
				}
				if p := g.Node("good").Pos; p.X != 1 || p.Y != 1 {
					t.Errorf("good.Pos = %+v", p)
				}
				if p := g.Node("bad").Pos; p.X != -6 || p.Y != -4 {
					t.Errorf("bad.Pos = %+v, want fallback grid (-6,-4)", p)
				}
			},
		},
		{
			name:   "UnterminatedDeclarationIgnored",
			source: `\node[service] (x) at (1,1) {never closed`,
			check: func(t *testing.T, g *diagram.Graph) {
				if g.Len() != 0 {
					t.Errorf("nodes = %d, want 0", g.Len())
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, Parse(tt.source))
		})
	}
}

func TestParseRelativePlacement(t *testing.T) {
	source := `
\node[cloud] (gcp) at (0,0) {GCP};
\node[cloud, above=of gcp, yshift=0.5cm] (openai) {OpenAI};
\node[cloud, right=of openai, xshift=1cm] (anthropic) {Anthropic};
\node[service, below=of gcp] (svc) {Svc};
`
	g := Parse(source)
	if g.Len() != 4 {
		t.Fatalf("nodes = %d, want 4", g.Len())
	}

	tests := []struct {
		name string
		x, y float64
	}{
		{"openai", 0, 0.5},   // explicit yshift overrides the above default
		{"anthropic", 1, 0.5}, // explicit xshift; chained off a relative node
		{"svc", 0, -2},       // below default gap
	}
	for _, tt := range tests {
		p := g.Node(tt.name).Pos
		if math.Abs(p.X-tt.x) > 1e-9 || math.Abs(p.Y-tt.y) > 1e-9 {
			t.Errorf("%s = %+v, want (%v,%v)", tt.name, p, tt.x, tt.y)
		}
	}

	// Relative styles are placement, not style tags.
	if styles := g.Node("openai").Styles; len(styles) != 1 || styles[0] != "cloud" {
		t.Errorf("openai styles = %v, want [cloud]", styles)
	}
}

func TestParseUnresolvableReference(t *testing.T) {
	g := Parse(`\node[service, below=of ghost] (lost) {Lost};`)
	if g.Len() != 1 {
		t.Fatalf("nodes = %d, want 1", g.Len())
	}
	// Falls back to the grid instead of being dropped.
	if p := g.Node("lost").Pos; p.X != -6 || p.Y != -4 {
		t.Errorf("lost.Pos = %+v, want (-6,-4)", p)
	}
}

func TestParseConnections(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		want     int
		dashed   bool
	}{
		{
			name:   "Dangling",
			source: `\node[service] (x) at (0,0) {X}; \draw[arrow] (x) -- (y);`,
			want:   0,
		},
		{
			name:   "ForwardReference",
			source: `\draw[arrow] (x) -- (y); \node[a] (x) at (0,0) {X}; \node[a] (y) at (1,1) {Y};`,
			want:   1,
		},
		{
			name:   "Dashed",
			source: `\node[a] (x) at (0,0) {X}; \node[a] (y) at (1,1) {Y}; \draw[arrow, dashed] (x) -- (y);`,
			want:   1,
			dashed: true,
		},
		{
			name: "ParallelKept",
			source: `\node[a] (x) at (0,0) {X}; \node[a] (y) at (1,1) {Y};
\draw[arrow] (x) -- (y);
\draw[arrow, dashed] (x) -- (y);`,
			want: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Parse(tt.source)
			if got := len(g.Connections()); got != tt.want {
				t.Fatalf("connections = %d, want %d", got, tt.want)
			}
			if tt.want == 1 && g.Connections()[0].Dashed != tt.dashed {
				t.Errorf("dashed = %v, want %v", g.Connections()[0].Dashed, tt.dashed)
			}
		})
	}
}

func TestNormalizeLabel(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"Plain", "AWS", "AWS"},
		{"Bold", `\textbf{AWS}`, "AWS"},
		{"BoldSmall", `\textbf{AWS}\\small EC2 GPU`, "AWS\nEC2 GPU"},
		{"LineBreak", `OpenAI\\GPT-4`, "OpenAI\nGPT-4"},
		{"UnknownCommand", `\emph{DB} store`, "DB store"},
		{"StrayBackslash", `a\b c`, "ac"},
		{"Whitespace", `  padded  `, "padded"},
		{"Unicode", `\textbf{阿里云}\\small Alibaba`, "阿里云\nAlibaba"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeLabel(tt.in); got != tt.want {
				t.Errorf("normalizeLabel(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
