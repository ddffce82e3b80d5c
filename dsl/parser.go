// Package dsl reads notation definition files:
//
//	// 电路风格
//	notation circuit extends engineering {
//	  label: "Circuit"
//	  base: 10
//	  and " & " 4
//	}
//
// Every operator line gives the operator name, its symbol and its level.
// Without extends all six operators must be listed.
package dsl

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	dslLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "HashComment", Pattern: `#[^\n]*`},
		{Name: "Number", Pattern: `\d+`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Symbol", Pattern: `[:;]`},
		{Name: "LBrace", Pattern: `{`},
		{Name: "RBrace", Pattern: `}`},
	})

	fileParser = participle.MustBuild[File](
		participle.Lexer(dslLexer),
		participle.Elide("Whitespace", "LineComment", "BlockComment", "HashComment"),
		participle.UseLookahead(2),
	)
)

// File is the root AST node of a notation file.
type File struct {
	Decls []*NotationDecl `parser:"Newline* ( @@ Newline* )*"`
}

// NotationDecl declares one notation.
type NotationDecl struct {
	Pos     lexer.Position `parser:"" json:"-"`
	Name    string         `parser:"'notation' @Ident"`
	Extends string         `parser:"( 'extends' @Ident )?"`
	Entries []*Entry       `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// Entry is either a setting or an operator line.
type Entry struct {
	Setting  *Setting  `parser:"  @@"`
	Operator *Operator `parser:"| @@"`
}

// Setting uses colon syntax (key: value).
type Setting struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Key   string         `parser:"@Ident ':'"`
	Value *Value         `parser:"@@"`
}

// Value is a string, number or boolean.
type Value struct {
	String *StringLiteral `parser:"  @String"`
	Number *int           `parser:"| @Number"`
	Bool   *Boolean       `parser:"| @( 'true' | 'false' )"`
}

func (v *Value) text() string {
	switch {
	case v == nil:
		return "<nil>"
	case v.String != nil:
		return strconv.Quote(string(*v.String))
	case v.Number != nil:
		return strconv.Itoa(*v.Number)
	case v.Bool != nil:
		return strconv.FormatBool(bool(*v.Bool))
	}
	return "<empty>"
}

// Operator assigns a symbol and a level to an operator.
type Operator struct {
	Pos    lexer.Position `parser:"" json:"-"`
	Name   string         `parser:"@Ident"`
	Symbol StringLiteral  `parser:"@String"`
	Level  int            `parser:"@Number"`
}

// StringLiteral unquotes Go-style strings on capture.
type StringLiteral string

// Capture implements participle.Capture.
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("string literal capture requires value")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}

// Boolean captures true or false.
type Boolean bool

// Capture implements participle.Capture.
func (b *Boolean) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("boolean capture requires value")
	}
	*b = values[0] == "true"
	return nil
}

// Parse parses a notation file from an io.Reader.
func Parse(r io.Reader) (*File, error) {
	return fileParser.Parse("", r)
}

// ParseString parses a notation file from a string.
func ParseString(input string) (*File, error) {
	return fileParser.ParseString("", input)
}

// ParseFile reads and parses the file at path.
func ParseFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("读取记法文件 %s 失败: %w", path, err)
	}
	defer f.Close()
	file, err := fileParser.Parse(path, f)
	if err != nil {
		return nil, fmt.Errorf("解析记法文件 %s 失败: %w", path, err)
	}
	return file, nil
}
