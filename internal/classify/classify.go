// Package classify maps rejection reasons to a closed set of categories.
// The same function runs on the publishing side (to tag outgoing events)
// and on the notification side (to pick message copy), so it must be
// deterministic and depend on nothing but its input.
package classify

import "strings"

// Category is the closed classification of why a request was rejected.
type Category string

const (
	CategoryTopaz     Category = "TOPAZ"
	CategoryAntifraud Category = "ANTIFRAUDE"
	CategoryPix       Category = "PIX"
	CategorySerasa    Category = "SERASA"
	CategoryLifeProof Category = "PROVA_VIDA"
	CategoryOther     Category = "OUTROS"
)

// categoryInfo carries the customer-facing copy attached to a category.
type categoryInfo struct {
	title   string
	message string
}

var categoryDetails = map[Category]categoryInfo{
	CategoryTopaz: {
		title:   "Problemas com dispositivo",
		message: "Identificamos problemas relacionados ao seu dispositivo durante a análise de segurança.",
	},
	CategoryAntifraud: {
		title:   "Análise antifraude",
		message: "Sua solicitação não passou na análise antifraude.",
	},
	CategoryPix: {
		title:   "Análise PIX",
		message: "Identificamos pendências relacionadas ao PIX durante a análise.",
	},
	CategorySerasa: {
		title:   "Pendências no Serasa",
		message: "Identificamos pendências no Serasa que precisam ser regularizadas antes de abrir sua conta.",
	},
	CategoryLifeProof: {
		title:   "Análise de documentos e selfie",
		message: "A análise de documentos e selfie não foi aprovada. Por favor, tente novamente com documentos válidos e selfie nítida.",
	},
	CategoryOther: {
		title:   "Análise não aprovada",
		message: "Sua solicitação não foi aprovada na análise.",
	},
}

// keywordGroups is checked in order; the first group with a matching
// keyword wins. Keywords keep the vocabulary used by the upstream
// decision providers, so rejection reasons classify the same way on
// every side of the bus.
var keywordGroups = []struct {
	category Category
	keywords []string
}{
	{CategoryTopaz, []string{"TOPAZ", "DISPOSITIVO", "DEVICE"}},
	{CategoryAntifraud, []string{"ANTIFRAUDE", "FRAUDE"}},
	{CategoryPix, []string{"PIX"}},
	{CategorySerasa, []string{"SERASA", "SCORE", "PENDENCIA"}},
	{CategoryLifeProof, []string{"PROVA_VIDA", "PROVA DE VIDA", "SELFIE", "DOCUMENTO", "BIOMETRIA", "SIMILARIDADE"}},
}

// Title returns the human-readable title for the category.
func (c Category) Title() string { return categoryDetails[c].title }

// Message returns the default customer message for the category.
func (c Category) Message() string { return categoryDetails[c].message }

// Known reports whether the category is a specific rejection (not OUTROS).
func (c Category) Known() bool { return c != CategoryOther }

// Parse resolves an explicit category code. ok is false when the code is
// empty or unknown; callers then fall back to Classify on the free text.
func Parse(code string) (Category, bool) {
	c := Category(strings.ToUpper(strings.TrimSpace(code)))
	if _, found := categoryDetails[c]; found {
		return c, true
	}
	return CategoryOther, false
}

// Classify maps a free-text rejection reason to a category by
// case-insensitive substring matching against ordered keyword groups.
// Unmatched or blank reasons resolve to CategoryOther.
func Classify(reason string) Category {
	if strings.TrimSpace(reason) == "" {
		return CategoryOther
	}
	upper := normalize(reason)
	for _, group := range keywordGroups {
		for _, kw := range group.keywords {
			if strings.Contains(upper, kw) {
				return group.category
			}
		}
	}
	return CategoryOther
}

// normalize upper-cases and strips the accents that appear in reason
// text produced by the validation stages, so "pendências" matches the
// PENDENCIA keyword.
func normalize(s string) string {
	upper := strings.ToUpper(s)
	replacer := strings.NewReplacer(
		"Á", "A", "À", "A", "Â", "A", "Ã", "A",
		"É", "E", "Ê", "E",
		"Í", "I",
		"Ó", "O", "Ô", "O", "Õ", "O",
		"Ú", "U",
		"Ç", "C",
	)
	return replacer.Replace(upper)
}

// ResolveEvent derives the category for a rejection event: the explicit
// code wins when it parses, otherwise the free-text reason is classified.
// Both sides of the bus use this so they agree even when the explicit
// field is dropped in transit.
func ResolveEvent(explicitCode, reason string) Category {
	if c, ok := Parse(explicitCode); ok {
		return c
	}
	return Classify(reason)
}
