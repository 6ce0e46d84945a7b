// Package textutil normaliza texto para búsqueda por substring: minúsculas y
// sin marcas diacríticas ("Jose" encuentra "José").
package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold devuelve el texto en minúsculas y sin diacríticos.
func Fold(s string) string {
	out, _, err := transform.String(foldTransformer, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

// ContainsFold indica si s contiene la query ya normalizada con Fold.
func ContainsFold(s, foldedQuery string) bool {
	if foldedQuery == "" {
		return true
	}
	return strings.Contains(Fold(s), foldedQuery)
}
