// Package dsl 解析 typeloop 场景文件：一个场景包含 meta、settings、data、export 四类区块。
package dsl

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	sceneLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "Color", Pattern: `#(?:[0-9A-Fa-f]{8}|[0-9A-Fa-f]{6}|[0-9A-Fa-f]{3})\b`},
		{Name: "Number", Pattern: `-?(?:\d+\.\d+|\d+|\.\d+)(?:px|pt|mm|cm|in|%|x|s)?`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Symbol", Pattern: `[][(),.=:;]`},
		{Name: "LBrace", Pattern: `{`},
		{Name: "RBrace", Pattern: `}`},
	})

	tokenNames   = invertSymbols(sceneLexer.Symbols())
	newlineToken = mustTokenType("Newline")
	lbraceToken  = mustTokenType("LBrace")
	rbraceToken  = mustTokenType("RBrace")
	symbolToken  = mustTokenType("Symbol")
	stringToken  = mustTokenType("String")

	fileParser = participle.MustBuild[File](
		participle.Lexer(sceneLexer),
		participle.Elide("Whitespace", "LineComment", "BlockComment"),
	)
)

// File 是场景文件的根节点。
type File struct {
	Pos      lexer.Position `parser:"" json:"-"`
	Name     string         `parser:"Newline* 'scene' @Ident"`
	Sections []*Section     `parser:"'{' Newline* ( @@ Newline* )* '}' Newline*"`
}

// Section 是场景内的一个区块。
type Section struct {
	Meta     *Block `parser:"  'meta' @@"`
	Settings *Block `parser:"| 'settings' @@"`
	Data     *Block `parser:"| 'data' @@"`
	Export   *Block `parser:"| 'export' @@"`
}

// Kind 返回区块名。
func (s *Section) Kind() string {
	switch {
	case s == nil:
		return "unknown"
	case s.Meta != nil:
		return "meta"
	case s.Settings != nil:
		return "settings"
	case s.Data != nil:
		return "data"
	case s.Export != nil:
		return "export"
	default:
		return "unknown"
	}
}

// Block 是花括号包围的语句列表。
type Block struct {
	Statements []*Statement `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// Statement 是赋值、命令或裸字符串之一。
type Statement struct {
	Assignment *Assignment  `parser:"  @@"`
	Command    *Command     `parser:"| @@"`
	Text       *TextLiteral `parser:"| @@"`
}

// Assignment 使用冒号语法（key: value）。
type Assignment struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Key   string         `parser:"@Ident"`
	Value *Value         `parser:"':' Newline* @@"`
}

// Command 是以空白分隔参数的语句，例如 `size 1080px 1080px` 或 `preset neon-pulse`。
type Command struct {
	Pos  lexer.Position `parser:"" json:"-"`
	Name string         `parser:"@Ident"`
	Args []*Lexeme      `parser:"@@*"`
}

// TextLiteral 是区块中的裸字符串。
type TextLiteral struct {
	Value StringLiteral `parser:"@String"`
}

// Value 是属性值。
type Value struct {
	String *StringLiteral `parser:"  @String"`
	Number *string        `parser:"| @Number"`
	Color  *string        `parser:"| @Color"`
	Ident  *string        `parser:"| @Ident"`
	Array  *ArrayValue    `parser:"| @@"`
	Object *InlineObject  `parser:"| @@"`
}

// ArrayValue 对应 `[ ... ]`。
type ArrayValue struct {
	Values []*Value `parser:"'[' Newline* ( @@ ( (',' | ';' | Newline+) Newline* @@ )* )? Newline* ']'"`
}

// InlineObject 对应 `{ key: value }`。
type InlineObject struct {
	Entries []*Assignment `parser:"'{' Newline* ( @@ Newline* ( (',' | ';' | Newline+) Newline* @@ Newline* )* )? Newline* '}'"`
}

// Interface 把值转换为普通 Go 值：字符串、float64、bool、[]any、map[string]any。
// 带单位的数字保留原文（如 "24px"），由调用方按单位解析。
func (v *Value) Interface() any {
	switch {
	case v == nil:
		return nil
	case v.String != nil:
		return string(*v.String)
	case v.Number != nil:
		if f, err := strconv.ParseFloat(*v.Number, 64); err == nil {
			return f
		}
		return *v.Number
	case v.Color != nil:
		return *v.Color
	case v.Ident != nil:
		switch strings.ToLower(*v.Ident) {
		case "true", "yes", "on":
			return true
		case "false", "no", "off":
			return false
		}
		return *v.Ident
	case v.Array != nil:
		out := make([]any, 0, len(v.Array.Values))
		for _, item := range v.Array.Values {
			out = append(out, item.Interface())
		}
		return out
	case v.Object != nil:
		out := make(map[string]any, len(v.Object.Entries))
		for _, e := range v.Object.Entries {
			out[e.Key] = e.Value.Interface()
		}
		return out
	}
	return nil
}

// Raw 返回值的文本形式；数组与对象没有单一文本形式，返回空串。
func (v *Value) Raw() string {
	switch {
	case v == nil:
		return ""
	case v.String != nil:
		return string(*v.String)
	case v.Number != nil:
		return *v.Number
	case v.Color != nil:
		return *v.Color
	case v.Ident != nil:
		return *v.Ident
	}
	return ""
}

// Map 把区块中的赋值收集为 map，用作数据绑定的根对象。命令与裸字符串被忽略。
func (b *Block) Map() map[string]any {
	out := map[string]any{}
	if b == nil {
		return out
	}
	for _, st := range b.Statements {
		if st.Assignment != nil {
			out[st.Assignment.Key] = st.Assignment.Value.Interface()
		}
	}
	return out
}

// Lexeme 是命令参数中的单个词法单元。
type Lexeme struct {
	Type  string         `json:"type"`
	Value string         `json:"value"`
	Pos   lexer.Position `json:"-"`
}

// Parse implements participle.Parseable.
func (l *Lexeme) Parse(lex *lexer.PeekingLexer) error {
	tok := lex.Peek()
	if endOfArgs(tok) {
		return participle.NextMatch
	}
	tok = lex.Next()
	name, ok := tokenNames[tok.Type]
	if !ok {
		name = fmt.Sprintf("#%d", tok.Type)
	}
	val := tok.Value
	if tok.Type == stringToken {
		unquoted, err := strconv.Unquote(tok.Value)
		if err != nil {
			return err
		}
		val = unquoted
	}
	*l = Lexeme{Type: name, Value: val, Pos: tok.Pos}
	return nil
}

// endOfArgs 在换行、分号或花括号处结束命令参数。
// 冒号也会结束参数，使 `key: value` 回落到 Assignment 分支。
func endOfArgs(tok *lexer.Token) bool {
	if tok == nil || tok.EOF() {
		return true
	}
	switch tok.Type {
	case newlineToken, rbraceToken, lbraceToken:
		return true
	case symbolToken:
		return tok.Value == ";" || tok.Value == ":"
	}
	return false
}

// StringLiteral 在捕获时去掉引号并处理转义。
type StringLiteral string

// Capture implements participle.Capture.
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("字符串字面量缺少取值")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}

// Parse 从 io.Reader 解析场景文件。
func Parse(r io.Reader) (*File, error) {
	return fileParser.Parse("", r)
}

// ParseString 解析场景文本。
func ParseString(input string) (*File, error) {
	return fileParser.ParseString("", input)
}

// Section 返回第一个指定类型的区块，没有时返回 nil。
func (f *File) Section(kind string) *Block {
	for _, s := range f.Sections {
		if s.Kind() != kind {
			continue
		}
		switch kind {
		case "meta":
			return s.Meta
		case "settings":
			return s.Settings
		case "data":
			return s.Data
		case "export":
			return s.Export
		}
	}
	return nil
}

func invertSymbols(symbols map[string]lexer.TokenType) map[lexer.TokenType]string {
	out := make(map[lexer.TokenType]string, len(symbols))
	for name, tt := range symbols {
		out[tt] = name
	}
	return out
}

func mustTokenType(name string) lexer.TokenType {
	tt, ok := sceneLexer.Symbols()[name]
	if !ok {
		panic(fmt.Sprintf("token %s not defined", name))
	}
	return tt
}
