package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed locales/*.json
var localesFS embed.FS

var printer *message.Printer

// defaultLang is used when language detection fails or finds nothing.
var defaultLang = language.English

// Init initializes the message catalog. It detects the active language
// with the following priority:
//  1. BASHTOOL_LANG (settable from .env, highest priority)
//  2. the system's LC_ALL, then LANG
//  3. defaultLang (English)
func Init() {
	langStr := os.Getenv("BASHTOOL_LANG")
	if langStr == "" {
		langStr = os.Getenv("LC_ALL")
		if langStr == "" {
			langStr = os.Getenv("LANG")
		}
	}

	// normalize "pt_BR.UTF-8" to "pt-BR"
	if idx := strings.Index(langStr, "."); idx != -1 {
		langStr = langStr[:idx]
	}
	langStr = strings.Replace(langStr, "_", "-", 1)

	userLang, err := language.Parse(langStr)
	if err != nil {
		userLang = defaultLang
	}

	// load and register every embedded locale file.
	files, err := localesFS.ReadDir("locales")
	if err != nil {
		printer = message.NewPrinter(defaultLang)
		return
	}

	registeredTags := []language.Tag{defaultLang}

	for _, file := range files {
		fileName := file.Name()
		if !strings.HasSuffix(fileName, ".json") {
			continue
		}

		tagStr := strings.TrimSuffix(fileName, ".json")
		tag, err := language.Parse(tagStr)
		if err != nil {
			continue
		}

		registeredTags = append(registeredTags, tag)

		content, err := localesFS.ReadFile("locales/" + fileName)
		if err != nil {
			continue
		}

		var translations map[string]string
		if err := json.Unmarshal(content, &translations); err != nil {
			continue
		}

		for key, value := range translations {
			if err := message.SetString(tag, key, value); err != nil {
				fmt.Printf("i18n: failed to set string for key %q: %v\n", key, err)
			}
		}
	}

	// pick the best registered language for the detected one.
	matcher := language.NewMatcher(registeredTags)
	bestTag, _, _ := matcher.Match(userLang)

	printer = message.NewPrinter(bestTag)
}

// T is the lookup entry point: it formats the message registered under key
// with args using the active printer. If Init was never called (or failed),
// it falls back to returning key itself so the caller still sees something
// meaningful instead of a panic.
func T(key string, args ...interface{}) string {
	if printer == nil {
		if len(args) > 0 {
			return key + " " + fmt.Sprint(args...)
		}
		return key
	}
	return printer.Sprintf(key, args...)
}
