package parser

import (
	"contenttag/internal/ast"
	"contenttag/internal/diag"
	"contenttag/internal/lexer"
	"contenttag/internal/source"
	"contenttag/internal/token"
)

type Options struct {
	// Reporter получает диагностику, на которой разбор остановился (может быть nil).
	Reporter diag.Reporter
	// Extension перехватывает три точки грамматики до основного правила.
	Extension Extension
}

// Result is the outcome of a successful parse.
type Result struct {
	Program *ast.Program
	Scopes  *ast.Scopes
	// Idents — все идентификаторы, встреченные в режиме host (для выбора
	// свободного имени импорта).
	Idents map[string]struct{}
}

// HasIdent reports whether name occurs as an identifier token in the file.
func (r *Result) HasIdent(name string) bool {
	_, ok := r.Idents[name]
	return ok
}

// Parser — состояние парсера на один файл
type Parser struct {
	file    *source.File
	lx      *lexer.Lexer
	opts    Options
	lexDiag *lexSink

	tok     token.Token // текущий, ещё не съеденный токен
	prevEnd uint32      // конец последнего съеденного токена

	scopes   *ast.Scopes
	scope    ast.ScopeID
	idents   map[string]struct{}
	identLog []string // порядок появления idents, для отката

	spec int  // глубина спекулятивного разбора
	noIn bool // заголовок for: `in` не бинарный оператор
}

// bailout — паника, которой разбор прерывается на первой ошибке.
type bailout struct {
	d diag.Diagnostic
}

// ParseFile разбирает один файл. Первая ошибка прерывает разбор целиком:
// восстановления нет, частичный результат не возвращается.
func ParseFile(file *source.File, opts Options) (res *Result, err error) {
	sink := &lexSink{}
	p := &Parser{
		file:    file,
		lx:      lexer.New(file, lexer.Options{Reporter: sink}),
		opts:    opts,
		lexDiag: sink,
		scopes:  ast.NewScopes(16),
		idents:  make(map[string]struct{}),
	}

	defer func() {
		if r := recover(); r != nil {
			b, ok := r.(bailout)
			if !ok {
				panic(r)
			}
			if opts.Reporter != nil {
				opts.Reporter.Report(b.d)
			}
			res, err = nil, newSyntaxError(file, b.d)
		}
	}()

	prog := p.parseProgram()
	return &Result{Program: prog, Scopes: p.scopes, Idents: p.idents}, nil
}

func (p *Parser) parseProgram() *ast.Program {
	whole := source.Span{File: p.file.ID, Start: 0, End: uint32(len(p.file.Content))}
	p.scope = p.scopes.New(ast.ScopeModule, ast.NoScopeID, whole)
	prog := ast.NewProgram(whole, p.scope)

	p.tok = p.lx.Next()
	p.checkInvalid()
	for !p.at(token.EOF) {
		prog.Body = append(prog.Body, p.parseStatement())
	}
	// незакрытый комментарий в хвосте файла не даёт токена Invalid
	if d, ok := p.lexDiag.after(p.prevEnd); ok {
		panic(bailout{d: d})
	}
	return prog
}
