package service

import (
	"net/url"
	"strings"
)

// termTranslations maps Russian technical word stems to the English terms
// catalogs index their parts under. Order decides which stem wins.
var termTranslations = []struct {
	stem string
	term string
}{
	{"фильтр", "filter"},
	{"масл", "oil"},
	{"воздуш", "air"},
	{"топлив", "fuel"},
	{"салон", "cabin"},
	{"помп", "water pump"},
	{"насос", "pump"},
	{"датчик", "sensor"},
	{"свеч", "spark plug"},
	{"колодк", "brake pad"},
	{"тормоз", "brake"},
	{"диск", "disc"},
	{"ремен", "belt"},
	{"ремн", "belt"},
	{"радиатор", "radiator"},
	{"амортизатор", "shock absorber"},
	{"подшипник", "bearing"},
	{"сцеплен", "clutch"},
	{"стартер", "starter"},
	{"генератор", "alternator"},
	{"прокладк", "gasket"},
	{"термостат", "thermostat"},
	{"рычаг", "control arm"},
	{"шаров", "ball joint"},
	{"стойк", "strut"},
	{"ламп", "bulb"},
	{"сальник", "oil seal"},
	{"форсунк", "injector"},
}

// QueryVariants expands a text query into the spellings tried in order:
// raw, percent-encoded, lower case, upper case, then the English translation
// as is, upper and lower. Duplicates are dropped.
func QueryVariants(query string) []string {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	var variants []string
	seen := make(map[string]bool)
	add := func(v string) {
		if v == "" || seen[v] {
			return
		}
		seen[v] = true
		variants = append(variants, v)
	}

	add(query)
	add(strings.ReplaceAll(url.QueryEscape(query), "+", "%20"))
	add(strings.ToLower(query))
	add(strings.ToUpper(query))

	for _, translated := range translations(query) {
		add(translated)
		add(strings.ToUpper(translated))
		add(strings.ToLower(translated))
	}

	return variants
}

// translations returns the query with every known word replaced, followed by
// the individual terms when more than one word was translated.
func translations(query string) []string {
	words := strings.Fields(strings.ToLower(query))

	var terms []string
	translated := false
	for i, w := range words {
		if term, ok := translateWord(w); ok {
			words[i] = term
			terms = append(terms, term)
			translated = true
		}
	}
	if !translated {
		return nil
	}

	out := []string{strings.Join(words, " ")}
	if len(terms) > 1 {
		out = append(out, terms...)
	}
	return out
}

func translateWord(word string) (string, bool) {
	for _, t := range termTranslations {
		if strings.HasPrefix(word, t.stem) {
			return t.term, true
		}
	}
	return "", false
}
