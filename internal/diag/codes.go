package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка - на первое время
	UnknownCode Code = 0
	// Лексические
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004
	LexUnterminatedTemplate     Code = 1005
	LexUnterminatedRegex        Code = 1006

	// Парсерные
	SynInfo              Code = 2000
	SynUnexpectedToken   Code = 2001
	SynUnclosedDelimiter Code = 2002
	SynUnclosedParen     Code = 2006
	SynUnclosedBrace     Code = 2007
	SynUnclosedBracket   Code = 2008
	SynExpectIdentifier  Code = 2102
	SynExpectModulePath  Code = 2103
	SynExpectFrom        Code = 2104
	SynExpectExpression  Code = 2203
	SynExpectColon       Code = 2204

	// embedded template regions
	SynTemplateInfo        Code = 2300
	SynUnclosedTemplate    Code = 2301
	SynUnclosedTemplateTag Code = 2302

	// ввод-вывод
	IOInfo        Code = 4000
	IOReadFailed  Code = 4001
	IOWriteFailed Code = 4002

	// конфигурация
	CfgInfo                Code = 5000
	CfgUnsupportedProperty Code = 5001
	CfgInvalidOption       Code = 5002
	CfgInvalidFile         Code = 5003

	// Observability
	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:                 "Unknown error",
		LexInfo:                     "Lexical information",
		LexUnknownChar:              "Unknown character",
		LexUnterminatedString:       "Unterminated string literal",
		LexUnterminatedBlockComment: "Unterminated block comment",
		LexBadNumber:                "Bad number literal",
		LexUnterminatedTemplate:     "Unterminated template literal",
		LexUnterminatedRegex:        "Unterminated regular expression",
		SynInfo:                     "Syntax information",
		SynUnexpectedToken:          "Unexpected token",
		SynUnclosedDelimiter:        "Unclosed delimiter",
		SynUnclosedParen:            "Unclosed parenthesis",
		SynUnclosedBrace:            "Unclosed brace",
		SynUnclosedBracket:          "Unclosed bracket",
		SynExpectIdentifier:         "Expect identifier",
		SynExpectModulePath:         "Expect module path",
		SynExpectFrom:               "Expect 'from'",
		SynExpectExpression:         "Expect expression",
		SynExpectColon:              "Expect colon",
		SynTemplateInfo:             "Embedded template information",
		SynUnclosedTemplate:         "Unclosed embedded template",
		SynUnclosedTemplateTag:      "Unclosed opening tag of embedded template",
		IOInfo:                      "I/O information",
		IOReadFailed:                "Failed to read file",
		IOWriteFailed:               "Failed to write file",
		CfgInfo:                     "Configuration information",
		CfgUnsupportedProperty:      "Unsupported template property",
		CfgInvalidOption:            "Invalid option",
		CfgInvalidFile:              "Invalid configuration file",
		ObsInfo:                     "Observability information",
		ObsTimings:                  "Pipeline timings",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("CFG%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
