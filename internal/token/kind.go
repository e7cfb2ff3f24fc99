package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier, including contextual words such as
	// `async`, `let`, `of`, `from`, `as`, `static`, `get` and `set`.
	Ident
	// PrivateName represents a class private name (`#foo`).
	PrivateName

	// NumberLit represents a numeric literal (decimal, hex, octal, binary, bigint).
	NumberLit
	// StringLit represents a single- or double-quoted string literal.
	StringLit
	// RegexLit represents a regular expression literal including flags.
	RegexLit
	// NoSubstTemplate represents a template literal without substitutions (`a`).
	NoSubstTemplate
	// TemplateHead represents the opening chunk of a template literal (`a${).
	TemplateHead
	// TemplateMiddle represents a chunk between two substitutions (}b${).
	TemplateMiddle
	// TemplateTail represents the closing chunk of a template literal (}c`).
	TemplateTail

	// KwBreak represents the 'break' keyword.
	KwBreak // break
	// KwCase represents the 'case' keyword.
	KwCase // case
	// KwCatch represents the 'catch' keyword.
	KwCatch // catch
	// KwClass represents the 'class' keyword.
	KwClass // class
	// KwConst represents the 'const' keyword.
	KwConst // const
	// KwContinue represents the 'continue' keyword.
	KwContinue // continue
	// KwDebugger represents the 'debugger' keyword.
	KwDebugger // debugger
	// KwDefault represents the 'default' keyword.
	KwDefault // default
	// KwDelete represents the 'delete' keyword.
	KwDelete // delete
	// KwDo represents the 'do' keyword.
	KwDo // do
	// KwElse represents the 'else' keyword.
	KwElse // else
	// KwEnum represents the 'enum' keyword.
	KwEnum // enum
	// KwExport represents the 'export' keyword.
	KwExport // export
	// KwExtends represents the 'extends' keyword.
	KwExtends // extends
	// KwFalse represents the 'false' literal keyword.
	KwFalse // false
	// KwFinally represents the 'finally' keyword.
	KwFinally // finally
	// KwFor represents the 'for' keyword.
	KwFor // for
	// KwFunction represents the 'function' keyword.
	KwFunction // function
	// KwIf represents the 'if' keyword.
	KwIf // if
	// KwImport represents the 'import' keyword.
	KwImport // import
	// KwIn represents the 'in' keyword.
	KwIn // in
	// KwInstanceof represents the 'instanceof' keyword.
	KwInstanceof // instanceof
	// KwNew represents the 'new' keyword.
	KwNew // new
	// KwNull represents the 'null' literal keyword.
	KwNull // null
	// KwReturn represents the 'return' keyword.
	KwReturn // return
	// KwSuper represents the 'super' keyword.
	KwSuper // super
	// KwSwitch represents the 'switch' keyword.
	KwSwitch // switch
	// KwThis represents the 'this' keyword.
	KwThis // this
	// KwThrow represents the 'throw' keyword.
	KwThrow // throw
	// KwTrue represents the 'true' literal keyword.
	KwTrue // true
	// KwTry represents the 'try' keyword.
	KwTry // try
	// KwTypeof represents the 'typeof' keyword.
	KwTypeof // typeof
	// KwVar represents the 'var' keyword.
	KwVar // var
	// KwVoid represents the 'void' keyword.
	KwVoid // void
	// KwWhile represents the 'while' keyword.
	KwWhile // while
	// KwWith represents the 'with' keyword.
	KwWith // with

	// LParen represents '('.
	LParen // (
	// RParen represents ')'.
	RParen // )
	// LBrace represents '{'.
	LBrace // {
	// RBrace represents '}'.
	RBrace // }
	// LBracket represents '['.
	LBracket // [
	// RBracket represents ']'.
	RBracket // ]
	// Semicolon represents ';'.
	Semicolon // ;
	// Comma represents ','.
	Comma // ,
	// Dot represents '.'.
	Dot // .
	// DotDotDot represents the spread/rest operator '...'.
	DotDotDot // ...
	// QuestionDot represents optional chaining '?.'.
	QuestionDot // ?.
	// Question represents '?'.
	Question // ?
	// Colon represents ':'.
	Colon // :
	// Arrow represents '=>'.
	Arrow // =>
	// Lt represents '<'. Never merged with a following byte.
	Lt // <
	// Gt represents '>'. Never merged with a following byte, so `>>` is two tokens.
	Gt // >
	// Slash represents the division operator '/'.
	Slash // /
	// Assign represents '='.
	Assign // =
	// At represents '@' (decorators).
	At // @
	// Bang represents '!'.
	Bang // !
	// Op represents every remaining operator (`+`, `&&=`, `===`, `++`, ...).
	// The exact spelling is in Token.Text.
	Op

	// Word is a maximal run of alphanumerics produced in template body mode.
	Word
	// Char is any other single byte produced in template body mode.
	Char
)

var kindNames = [...]string{
	Invalid:         "Invalid",
	EOF:             "EOF",
	Ident:           "Ident",
	PrivateName:     "PrivateName",
	NumberLit:       "NumberLit",
	StringLit:       "StringLit",
	RegexLit:        "RegexLit",
	NoSubstTemplate: "NoSubstTemplate",
	TemplateHead:    "TemplateHead",
	TemplateMiddle:  "TemplateMiddle",
	TemplateTail:    "TemplateTail",
	LParen:          "LParen",
	RParen:          "RParen",
	LBrace:          "LBrace",
	RBrace:          "RBrace",
	LBracket:        "LBracket",
	RBracket:        "RBracket",
	Semicolon:       "Semicolon",
	Comma:           "Comma",
	Dot:             "Dot",
	DotDotDot:       "DotDotDot",
	QuestionDot:     "QuestionDot",
	Question:        "Question",
	Colon:           "Colon",
	Arrow:           "Arrow",
	Lt:              "Lt",
	Gt:              "Gt",
	Slash:           "Slash",
	Assign:          "Assign",
	At:              "At",
	Bang:            "Bang",
	Op:              "Op",
	Word:            "Word",
	Char:            "Char",
}

func (k Kind) String() string {
	if k.IsKeyword() {
		return "Kw(" + keywordSpelling[k] + ")"
	}
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(?)"
}

// IsKeyword reports whether k is a reserved word.
func (k Kind) IsKeyword() bool {
	return k >= KwBreak && k <= KwWith
}
