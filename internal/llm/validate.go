package llm

import (
	"regexp"
	"strings"
)

// genericPatterns match provider outputs that add nothing over the rule
// engine: bare greetings, filler acknowledgements, raw JSON, and error text.
var genericPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(bonjour|salut|coucou|bienvenue|hello|hi)[\s!.,]*$`),
	regexp.MustCompile(`(?i)^(je comprends|je vois|ok|d'accord|entendu)[\s!.,]*$`),
	regexp.MustCompile(`(?i)^(comment puis-je|de quoi ai-je besoin|en quoi puis-je)[\s!.,]*$`),
	regexp.MustCompile(`(?i)^(je suis là|je suis prêt|je suis disponible)[\s!.,]*$`),
	regexp.MustCompile(`(?s)^\{.*\}$`),
	regexp.MustCompile(`(?i)^(error|erreur|fail|échec)`),
}

var usefulContent = regexp.MustCompile(`[a-zA-ZÀ-ÿ]{3,}`)

// ValidReply reports whether a provider reply is worth sending to the user.
// Replies that fail here are discarded and the rule engine answers instead.
func ValidReply(reply string) bool {
	clean := strings.TrimSpace(reply)
	if len(clean) < 10 {
		return false
	}

	for _, pattern := range genericPatterns {
		if pattern.MatchString(clean) {
			return false
		}
	}

	// Require at least one real word and more than two tokens.
	return usefulContent.MatchString(clean) && len(strings.Fields(clean)) > 2
}
