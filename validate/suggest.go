package validate

// Suggestions for the structural keywords and semantic checks users
// hit most often. Unknown keywords get no suggestion.

func keywordSuggestion(keywordLocation string) string {
	switch keyword(keywordLocation) {
	case "required":
		return "add the missing required property"
	case "type":
		return "change the value to the expected type"
	case "enum":
		return "use one of the allowed values"
	case "pattern":
		return "flag names are snake_case: lower-case letters, digits, and underscores"
	case "minItems":
		return "the list must not be empty"
	}

	return ""
}

const (
	suggestUniqueFlagNames = "flag names must be unique; rename one of the duplicates"
	suggestAddVariations   = "add a non-empty variations list or change the flag type to boolean"
	suggestUniqueVariation = "variation names must be unique within a flag"
	suggestRulePayload     = "give the rule exactly one of serve, variations, or rollout"
	suggestWeightSum       = "reduce the weights so they sum to at most 100"
	suggestPercentageRange = "use a rollout percentage between 0 and 100"
)
