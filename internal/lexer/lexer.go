// Package lexer tokenizes Python-style regular-expression patterns.
//
// Tokenizing is context sensitive: a character set, a comment, a group
// name and a conditional reference each switch the lexer into its own
// state. The states are declared as a participle stateful lexer.
package lexer

import (
	"fmt"
	"unicode/utf8"

	plexer "github.com/alecthomas/participle/v2/lexer"

	"github.com/kolkov/reggie/token"
)

// Type is the type of a lexical token.
type Type uint8

const (
	// Special tokens
	ILLEGAL Type = iota // <illegal>
	EOF                 // EOF

	// Atoms
	CHAR   // any unescaped character
	ESCAPE // \x, \d, \1, \A ...
	DOT    // .
	CARET  // ^
	DOLLAR // $

	// Operators
	PIPE  // |
	QUANT // ? * +
	BRACE // {n} {m,n} {m,} {,n} {,}

	// Group heads
	LPAREN          // (
	RPAREN          // )
	COMMENT_OPEN    // (?#
	COMMENT_TEXT    // comment body
	FLAGS_OPEN      // (?flags) (?flags: (?on-off:
	EXT_OPEN        // (?: (?> (?= (?!
	LOOKBEHIND_OPEN // (?<= (?<!
	NAMED_OPEN      // (?P<
	NAME            // group name or reference
	NAME_CLOSE      // >
	BACKREF_OPEN    // (?P=
	COND_OPEN       // (?(
	COND_CLOSE      // ) closing a conditional reference

	// Character sets
	SET_OPEN   // [ [^ []  [^]
	SET_CLOSE  // ]
	SET_HYPHEN // -
)

var typeNames = [...]string{
	ILLEGAL:         "illegal",
	EOF:             "end of pattern",
	CHAR:            "character",
	ESCAPE:          "escape",
	DOT:             ".",
	CARET:           "^",
	DOLLAR:          "$",
	PIPE:            "|",
	QUANT:           "quantifier",
	BRACE:           "brace quantifier",
	LPAREN:          "(",
	RPAREN:          ")",
	COMMENT_OPEN:    "(?#",
	COMMENT_TEXT:    "comment",
	FLAGS_OPEN:      "inline flags",
	EXT_OPEN:        "group extension",
	LOOKBEHIND_OPEN: "lookbehind",
	NAMED_OPEN:      "(?P<",
	NAME:            "group name",
	NAME_CLOSE:      ">",
	BACKREF_OPEN:    "(?P=",
	COND_OPEN:       "(?(",
	COND_CLOSE:      ")",
	SET_OPEN:        "[",
	SET_CLOSE:       "]",
	SET_HYPHEN:      "-",
}

// String returns a human-readable name for the token type.
func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "unknown"
}

// escapePattern matches one escape: fixed-width hex and unicode escapes,
// octal escapes, group references, and any other escaped character.
// Three octal digits always form an octal escape.
const escapePattern = `\\(?:x[0-9a-fA-F]{2}|u[0-9a-fA-F]{4}|U[0-9a-fA-F]{8}|0[0-7]{0,2}|[0-7]{3}|[1-9][0-9]?|[\s\S])`

var definition = plexer.MustStateful(plexer.Rules{
	"Root": {
		{Name: "CommentOpen", Pattern: `\(\?#`, Action: plexer.Push("Comment")},
		{Name: "CondOpen", Pattern: `\(\?\(`, Action: plexer.Push("Cond")},
		{Name: "NamedOpen", Pattern: `\(\?P<`, Action: plexer.Push("Name")},
		{Name: "BackrefOpen", Pattern: `\(\?P=`, Action: plexer.Push("Backref")},
		{Name: "LookbehindOpen", Pattern: `\(\?<[=!]`},
		{Name: "ExtOpen", Pattern: `\(\?[:>=!]`},
		{Name: "FlagsOpen", Pattern: `\(\?[A-Za-z]*(?:-[A-Za-z]*)?[:)]`},
		{Name: "LParen", Pattern: `\(`},
		{Name: "RParen", Pattern: `\)`},
		{Name: "SetOpen", Pattern: `\[\^?\]?`, Action: plexer.Push("Set")},
		{Name: "Brace", Pattern: `\{(?:\d+|\d*,\d*)\}`},
		{Name: "Quant", Pattern: `[?*+]`},
		{Name: "Pipe", Pattern: `\|`},
		{Name: "Dot", Pattern: `\.`},
		{Name: "Caret", Pattern: `\^`},
		{Name: "Dollar", Pattern: `\$`},
		{Name: "Escape", Pattern: escapePattern},
		{Name: "Char", Pattern: `[^\\]`},
	},
	"Set": {
		{Name: "SetClose", Pattern: `\]`, Action: plexer.Pop()},
		{Name: "SetHyphen", Pattern: `-`},
		{Name: "Escape", Pattern: escapePattern},
		{Name: "Char", Pattern: `[^\\]`},
	},
	"Comment": {
		{Name: "CommentText", Pattern: `[^)]+`},
		{Name: "RParen", Pattern: `\)`, Action: plexer.Pop()},
	},
	"Name": {
		{Name: "Name", Pattern: `[^>)]+`},
		{Name: "NameClose", Pattern: `>`, Action: plexer.Pop()},
	},
	"Backref": {
		{Name: "RefName", Pattern: `[^)]+`},
		{Name: "RParen", Pattern: `\)`, Action: plexer.Pop()},
	},
	"Cond": {
		{Name: "CondRef", Pattern: `[^)]+`},
		{Name: "CondClose", Pattern: `\)`, Action: plexer.Pop()},
	},
})

var ruleTypes = map[string]Type{
	"Char":           CHAR,
	"Escape":         ESCAPE,
	"Dot":            DOT,
	"Caret":          CARET,
	"Dollar":         DOLLAR,
	"Pipe":           PIPE,
	"Quant":          QUANT,
	"Brace":          BRACE,
	"LParen":         LPAREN,
	"RParen":         RPAREN,
	"CommentOpen":    COMMENT_OPEN,
	"CommentText":    COMMENT_TEXT,
	"FlagsOpen":      FLAGS_OPEN,
	"ExtOpen":        EXT_OPEN,
	"LookbehindOpen": LOOKBEHIND_OPEN,
	"NamedOpen":      NAMED_OPEN,
	"Name":           NAME,
	"RefName":        NAME,
	"CondRef":        NAME,
	"NameClose":      NAME_CLOSE,
	"BackrefOpen":    BACKREF_OPEN,
	"CondOpen":       COND_OPEN,
	"CondClose":      COND_CLOSE,
	"SetOpen":        SET_OPEN,
	"SetClose":       SET_CLOSE,
	"SetHyphen":      SET_HYPHEN,
}

// types maps participle symbols to token types.
var types = func() map[plexer.TokenType]Type {
	m := make(map[plexer.TokenType]Type, len(ruleTypes)+1)
	for name, sym := range definition.Symbols() {
		if t, ok := ruleTypes[name]; ok {
			m[sym] = t
		}
	}
	m[plexer.EOF] = EOF
	return m
}()

// Token represents a scanned token with its position and value.
type Token struct {
	Type  Type
	Pos   token.Position
	Value string
}

// End returns the position immediately after the token.
func (t Token) End() token.Position {
	return t.Pos.Advance(t.Value)
}

// Lexer hands out the tokens of one pattern. The pattern is tokenized
// eagerly so the parser can look ahead freely.
type Lexer struct {
	toks []Token
	i    int
}

// New tokenizes src. A lexing failure ends the stream with an ILLEGAL
// token whose Value describes the failure, followed by EOF.
func New(filename, src string) *Lexer {
	l := &Lexer{}
	pos := token.Start(filename)
	lex, err := definition.LexString(filename, src)
	if err != nil {
		l.fail(pos, src, err)
		return l
	}
	for {
		t, err := lex.Next()
		if err != nil {
			l.fail(pos, src, err)
			return l
		}
		tok := Token{
			Type:  types[t.Type],
			Pos:   pos,
			Value: t.Value,
		}
		if t.Type == plexer.EOF {
			tok.Value = ""
			l.toks = append(l.toks, tok)
			return l
		}
		l.toks = append(l.toks, tok)
		pos = pos.Advance(t.Value)
	}
}

// fail records an ILLEGAL token at pos, the first position the lexer
// could not consume.
func (l *Lexer) fail(pos token.Position, src string, err error) {
	msg := err.Error()
	if pos.Offset < len(src) {
		r, _ := utf8.DecodeRuneInString(src[pos.Offset:])
		msg = fmt.Sprintf("unexpected %q", r)
		if r == '\\' {
			msg = "bad escape (end of pattern)"
		}
	}
	l.toks = append(l.toks,
		Token{Type: ILLEGAL, Pos: pos, Value: msg},
		Token{Type: EOF, Pos: pos},
	)
}

// Scan returns the next token. After the end it keeps returning EOF.
func (l *Lexer) Scan() Token {
	t := l.Peek(0)
	if l.i < len(l.toks)-1 {
		l.i++
	}
	return t
}

// Peek returns the token n positions ahead without consuming anything.
func (l *Lexer) Peek(n int) Token {
	if i := l.i + n; i < len(l.toks) {
		return l.toks[i]
	}
	return l.toks[len(l.toks)-1]
}

// Tokens returns every token, ending with EOF.
func (l *Lexer) Tokens() []Token {
	return l.toks
}
