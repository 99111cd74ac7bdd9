package obf

import "strings"

// categoryKeywords maps substrings of Open Beauty Facts category strings to
// our product types. Checked in order; first hit wins.
var categoryKeywords = []struct {
	productType string
	words       []string
}{
	{"cleanser", []string{"cleanser", "cleansing", "face wash", "gel cleanser"}},
	{"toner", []string{"toner", "tonic"}},
	{"serum", []string{"serum"}},
	{"moisturizer", []string{"moisturizer", "moisturiser", "cream", "lotion", "face cream"}},
	{"sunscreen", []string{"sunscreen", "sun protection", "spf"}},
	{"exfoliant", []string{"exfoliant", "scrub", "peeling"}},
	{"mask", []string{"mask", "face mask"}},
	{"eye_cream", []string{"eye cream", "eye care"}},
	{"oil", []string{"oil", "face oil"}},
	{"essence", []string{"essence"}},
	{"spot_treatment", []string{"spot treatment", "acne treatment"}},
	{"retinol", []string{"retinol", "retinoid"}},
	{"vitamin_c", []string{"vitamin c", "vitamin-c"}},
}

// MapCategory maps an Open Beauty Facts categories string to a product type,
// falling back to "other".
func MapCategory(categories string) string {
	if categories == "" {
		return "other"
	}
	lower := strings.ToLower(categories)
	for _, entry := range categoryKeywords {
		for _, word := range entry.words {
			if strings.Contains(lower, word) {
				return entry.productType
			}
		}
	}
	return "other"
}
