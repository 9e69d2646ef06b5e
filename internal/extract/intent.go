package extract

import "strings"

// Fixed vocabularies for intent detection. Matching is a case-insensitive
// substring check with no negation handling: a message that lacks an
// affirmative token is simply treated as non-confirming.
var buyIntentVocabulary = []string{
	"buy",
	"purchase",
	"order",
	"pay",
	"checkout",
	"proceed to payment",
	"i want to buy",
	"i'll take",
	"i want this",
}

var confirmIntentVocabulary = []string{
	"yes",
	"confirm",
	"confirmed",
	"correct",
	"ok",
	"okay",
	"proceed",
	"go ahead",
	"that's right",
	"that's fine",
}

// BuyIntent reports whether text signals a wish to purchase.
func BuyIntent(text string) bool {
	return matchesVocabulary(text, buyIntentVocabulary)
}

// ConfirmIntent reports whether text affirms a previously stated order summary.
func ConfirmIntent(text string) bool {
	return matchesVocabulary(text, confirmIntentVocabulary)
}

func matchesVocabulary(text string, vocabulary []string) bool {
	lowered := strings.ToLower(text)
	for _, token := range vocabulary {
		if strings.Contains(lowered, token) {
			return true
		}
	}
	return false
}
