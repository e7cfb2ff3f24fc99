// Package format writes host source back out: verbatim copies of the
// original bytes interleaved with generated fragments, with position
// mappings for source maps.
//
// Назначение: сборка выходного файла полной перегенерации.
// Не делает: форматирования исходного кода вне правок, IO.
// Зависимости: internal/source, internal/parser (проверка round-trip).
package format
