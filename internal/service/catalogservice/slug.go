package catalogservice

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// collapseSpaces remove espaços nas pontas e colapsa espaços internos.
func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// titleCase normaliza um rótulo para "Título Em Português".
func titleCase(s string) string {
	return cases.Title(language.BrazilianPortuguese).String(collapseSpaces(s))
}

// slugify gera um identificador seguro para URL: sem acentos, minúsculo,
// com hífen no lugar de qualquer sequência de caracteres não alfanuméricos.
func slugify(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(t, s)
	if err != nil {
		plain = s
	}

	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(plain) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// uniqueSlug gera o slug de name, acrescentando -2, -3... enquanto taken(id) for verdadeiro.
func uniqueSlug(name string, taken func(string) bool) string {
	base := slugify(name)
	if base == "" {
		base = "produto"
	}
	if !taken(base) {
		return base
	}
	for n := 2; ; n++ {
		candidate := base + "-" + strconv.Itoa(n)
		if !taken(candidate) {
			return candidate
		}
	}
}
