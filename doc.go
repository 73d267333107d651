// Package reggie parses Python-flavored regular expressions into a typed
// syntax tree and answers structural questions about them.
//
// reggie features:
//   - Exact round-trip from pattern text to tree and back
//   - Character classes as disjoint code point ranges
//   - Capture group numbering and name lookup
//   - Static analysis: minimum match length, finiteness, group count
//   - Matching through coregex (RE2) or regexp2 (backtracking)
//
// # Quick Start
//
// Parse a pattern and inspect it:
//
//	p, err := reggie.Parse(`(?P<year>\d{4})-(?P<month>\d{2})`, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(p.GroupsCount(), p.MinMatchLen(), p.IsFinite()) // 2 7 true
//
// Match with it:
//
//	ok, err := p.MatchString("2024-06")
//
// # Packages
//
// The facade wires the lower layers together, which can also be used on
// their own:
//   - [github.com/kolkov/reggie/cst]: the parse tree the builder consumes
//   - [github.com/kolkov/reggie/builder]: parse tree to AST
//   - [github.com/kolkov/reggie/ast]: the tree, rendering and analysis
//   - [github.com/kolkov/reggie/charset]: the interval set
//   - [github.com/kolkov/reggie/semantic]: group index and reference checks
//   - [github.com/kolkov/reggie/engine]: backend translation and matching
//
// # Error Handling
//
// Errors are returned as specific types for detailed handling:
//   - [ParseError]: syntax errors in the pattern text
//   - [BuildError]: parse trees the builder rejects, e.g. reversed ranges
//   - [CheckError]: bad group references and incompatible flags
//
// # Thread Safety
//
// A parsed [Pattern] is immutable and safe for concurrent use.
package reggie
