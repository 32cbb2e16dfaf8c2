package domain

import "strings"

// FallbackCategory is assigned when no keyword matches a merchant.
const FallbackCategory = "Shopping"

type categoryKeywords struct {
	category string
	keywords []string
}

// Declaration order matters: the first category with a matching keyword wins,
// so a merchant hitting two lists always resolves to the earlier one.
var classifierTable = []categoryKeywords{
	{"Transport", []string{"grab", "mrt", "lrt", "petrol", "shell", "petronas", "parking", "toll"}},
	{"Eating Out", []string{"kfc", "mcd", "tealive", "starbucks", "restaurant", "cafe", "mamak"}},
	{"Groceries", []string{"lotus", "tesco", "aeon", "jaya grocer", "99 speedmart"}},
	{"Shopping", []string{"shopee", "lazada", "zalora", "uniqlo", "h&m"}},
	{"Entertainment", []string{"cinema", "gsc", "tgv", "netflix", "spotify"}},
	{"Bills", []string{"electricity", "water", "internet", "phone", "telco"}},
}

// Classify maps a lower-cased merchant string to a spending category by
// substring containment against the keyword table.
func Classify(merchant string) string {
	for _, ck := range classifierTable {
		for _, kw := range ck.keywords {
			if strings.Contains(merchant, kw) {
				return ck.category
			}
		}
	}
	return FallbackCategory
}
