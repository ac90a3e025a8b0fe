// Package tikz extracts a diagram graph from TikZ source text and writes
// position edits back into it.
//
// The package is deliberately not a TikZ grammar. It performs a sequence of
// independent best-effort scans over the text: node declarations of the form
//
//	\node[<styles>] (<name>) at (<x>,<y>) {<label>};
//
// and connection declarations of the form
//
//	\draw[<styles>] (<from>) -- (<to>);
//
// Anything that does not match is left alone — unrecognized syntax is never
// an error, it is simply absent from the graph and preserved verbatim by
// [Rewrite]. Both [Parse] and [Rewrite] are total functions: any input string
// produces a result.
//
// Node declarations may position themselves relative to another node
// (above=of, below=of, left=of, right=of, with optional xshift/yshift).
// These are resolved to absolute document-unit positions during parsing;
// declarations whose position cannot be determined at all are placed on a
// fallback grid below the diagram.
//
// [Rewrite] is the inverse direction: it replaces only the coordinate
// substrings of declarations whose node moved, byte-for-byte preserving
// everything else. Regenerating the whole document from the graph would
// discard syntax the scanner does not understand, so that is only available
// as the explicit [Generate] fallback.
package tikz
