package glotmark

import "strings"

// LanguageNames maps target-language codes to human-readable names used when
// building backend prompts. Plain names (e.g. "Vietnamese") pass through
// unchanged, so the table only needs the code forms.
var LanguageNames = map[string]string{
	"en":    "English",
	"de":    "German",
	"es":    "Spanish",
	"fr":    "French",
	"it":    "Italian",
	"ja":    "Japanese",
	"ko":    "Korean",
	"nl":    "Dutch",
	"pl":    "Polish",
	"pt":    "Portuguese",
	"ru":    "Russian",
	"th":    "Thai",
	"tr":    "Turkish",
	"uk":    "Ukrainian",
	"vi":    "Vietnamese",
	"zh":    "Chinese (Simplified)",
	"zh-tw": "Chinese (Traditional)",
	"ar":    "Arabic",
	"he":    "Hebrew",
	"hi":    "Hindi",
	"id":    "Indonesian",
	"cs":    "Czech",
	"sv":    "Swedish",
	"fi":    "Finnish",
	"da":    "Danish",
	"el":    "Greek",
	"hu":    "Hungarian",
	"ro":    "Romanian",
	"bg":    "Bulgarian",
	"fa":    "Persian",
	"ms":    "Malay",
	"sw":    "Swahili",
}

// LanguageName resolves a target-language identifier to a name suitable for
// a prompt. Locale forms ("ja_JP", "pt-BR") fall back to their base code;
// anything unrecognized is returned as-is, which covers plain names.
func LanguageName(lang string) string {
	normalized := strings.ToLower(strings.ReplaceAll(lang, "_", "-"))
	if name, ok := LanguageNames[normalized]; ok {
		return name
	}
	if base, _, found := strings.Cut(normalized, "-"); found {
		if name, ok := LanguageNames[base]; ok {
			return name
		}
	}
	return lang
}
