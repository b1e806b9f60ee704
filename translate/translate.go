// Package translate renders every user visible esil message through the
// locale selected by the environment.
package translate

import (
	"log"

	"github.com/jeandeaual/go-locale"

	"golang.org/x/text/message"
)

var printer *message.Printer

func init() {
	locales, err := locale.GetLocales()
	if err != nil {
		log.Printf("esil: locale: %v", err)
	}

	SetLanguage(locales...)
}

// SetLanguage selects the message language from BCP 47 locales, most
// preferred first. An empty list selects en-US. It must not race with From.
func SetLanguage(locales ...string) {
	if len(locales) == 0 {
		locales = []string{"en-US"}
	}

	printer = message.NewPrinter(message.MatchLanguage(locales...))
}

// From an en-US Sprintf() format, translate to string.
func From(key message.Reference, args ...any) string {
	return printer.Sprintf(key, args...)
}
