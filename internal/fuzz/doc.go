// Package fuzztests houses Go fuzz harnesses for the host lexer, the parser
// and both rewrite modes. They guard against panics, hangs and broken span
// invariants on arbitrary input.
//
// Назначение: загружать байты в FileSet и прогонять их через лексер, парсер
// и публичный Rewrite.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests
