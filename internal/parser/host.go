package parser

import (
	"contenttag/internal/ast"
	"contenttag/internal/diag"
	"contenttag/internal/lexer"
	"contenttag/internal/source"
	"contenttag/internal/token"
)

// Host is the capability surface an Extension sees. It shares the token
// stream and scope state of the running parse.
type Host interface {
	File() *source.File
	Input() []byte
	// Tok returns the current (not yet consumed) token.
	Tok() token.Token
	// Next consumes the current token and returns it.
	Next() token.Token
	// StartAt returns the start offset of the current token.
	StartAt() uint32
	// SpanFrom returns [start, end of the last consumed token).
	SpanFrom(start uint32) source.Span
	// SetBodyMode switches tokenization and restarts scanning at off.
	// The current token becomes the first token scanned in the new mode.
	SetBodyMode(on bool, off uint32)
	// Scope returns the innermost lexical scope at the current position.
	Scope() ast.ScopeID
	// Fail aborts the parse with a syntax error. It does not return.
	Fail(code diag.Code, sp source.Span, msg string)
}

// Extension intercepts three grammar entry points. Each hook is tried before
// the built-in rule and returns nil to decline; a declining hook must not
// consume tokens.
type Extension interface {
	ParseStatement(h Host) ast.Stmt
	ParseMaybeAssign(h Host) ast.Expr
	ParseClassMember(h Host) ast.ClassMember
}

// Chain layers extensions: for every hook the first one that accepts wins.
func Chain(exts ...Extension) Extension {
	flat := make(chain, 0, len(exts))
	for _, e := range exts {
		switch e := e.(type) {
		case nil:
		case chain:
			flat = append(flat, e...)
		default:
			flat = append(flat, e)
		}
	}
	return flat
}

type chain []Extension

func (c chain) ParseStatement(h Host) ast.Stmt {
	for _, e := range c {
		if s := e.ParseStatement(h); s != nil {
			return s
		}
	}
	return nil
}

func (c chain) ParseMaybeAssign(h Host) ast.Expr {
	for _, e := range c {
		if x := e.ParseMaybeAssign(h); x != nil {
			return x
		}
	}
	return nil
}

func (c chain) ParseClassMember(h Host) ast.ClassMember {
	for _, e := range c {
		if m := e.ParseClassMember(h); m != nil {
			return m
		}
	}
	return nil
}

// Parser реализует Host.
var _ Host = (*Parser)(nil)

func (p *Parser) File() *source.File  { return p.file }
func (p *Parser) Input() []byte       { return p.file.Content }
func (p *Parser) Tok() token.Token    { return p.tok }
func (p *Parser) Next() token.Token   { return p.next() }
func (p *Parser) StartAt() uint32     { return p.tok.Span.Start }
func (p *Parser) Scope() ast.ScopeID  { return p.scope }
func (p *Parser) Scopes() *ast.Scopes { return p.scopes }

func (p *Parser) SpanFrom(start uint32) source.Span {
	end := p.prevEnd
	if end < start {
		end = start
	}
	return source.Span{File: p.file.ID, Start: start, End: end}
}

func (p *Parser) SetBodyMode(on bool, off uint32) {
	mode := lexer.ModeHost
	if on {
		mode = lexer.ModeBody
	}
	p.lx.SetMode(mode, off)
	p.tok = p.lx.Next()
	p.checkInvalid()
}

func (p *Parser) Fail(code diag.Code, sp source.Span, msg string) {
	if p.spec > 0 {
		panic(speculationFailed{})
	}
	panic(bailout{d: diag.NewError(code, sp, msg)})
}
