package utils

// Fixed UI strings. Upstream content is translated separately by the batch translator.

var translations = map[string]map[string]string{
	"es": {
		"health.ok":          "ok",
		"title.home":         "Principal",
		"title.exercises":    "Ejercicios",
		"title.nutrition":    "Nutrición",
		"quote.error":        "No se pudo obtener una frase.",
		"quote.error.author": "Error",
		"exercises.empty":    "No se encontraron ejercicios.",
		"exercises.all":      "Todos",
		"nutrition.prompt":   "Escribe un alimento (en inglés)",
		"nutrition.submit":   "Buscar",
		"nutrition.none":     "No hay datos nutricionales para este alimento.",
		"form.invalid":       "El formulario caducó. Vuelve a intentarlo.",
	},
	"en": {
		"health.ok":          "ok",
		"title.home":         "Home",
		"title.exercises":    "Exercises",
		"title.nutrition":    "Nutrition",
		"quote.error":        "Could not fetch a quote.",
		"quote.error.author": "Error",
		"exercises.empty":    "No exercises found.",
		"exercises.all":      "All",
		"nutrition.prompt":   "Type a food",
		"nutrition.submit":   "Search",
		"nutrition.none":     "No nutrition data for this food.",
		"form.invalid":       "The form expired. Please try again.",
	},
}

// T returns the string for key in locale, falling back to Spanish and then the key.
func T(locale, key string) string {
	if m, ok := translations[locale]; ok {
		if v, ok := m[key]; ok {
			return v
		}
	}
	if v, ok := translations["es"][key]; ok {
		return v
	}
	return key
}
