package lingo

// languageNames maps short language codes to human-readable names. Engines
// that prompt a general-purpose model use these instead of bare codes.
var languageNames = map[string]string{
	"ar": "Arabic",
	"bn": "Bengali",
	"de": "German",
	"en": "English",
	"es": "Spanish",
	"fr": "French",
	"hi": "Hindi",
	"it": "Italian",
	"ja": "Japanese",
	"ko": "Korean",
	"nl": "Dutch",
	"pl": "Polish",
	"pt": "Portuguese",
	"ru": "Russian",
	"tr": "Turkish",
	"ur": "Urdu",
	"vi": "Vietnamese",
	"zh": "Chinese",
}

// GetLanguageName returns the human-readable name for a language code,
// falling back to the code itself if unknown.
func GetLanguageName(code string) string {
	if name, ok := languageNames[code]; ok {
		return name
	}
	return code
}
