// Package token defines lexical token kinds for JavaScript and TypeScript host files.
// Invariants:
//   - Token.Text is a slice of the original source (no copies).
//   - Token.Span matches Text exactly (Start..End).
//   - Contextual words (async, let, static, of, from, as, type, ...) are Ident;
//     the parser recognises them by spelling.
//   - '<' and '>' are always single-byte tokens so that TypeScript type
//     arguments and embedded template tags can be recognised structurally.
//   - Word and Char only appear while the lexer is in template body mode.
package token
