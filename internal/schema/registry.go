package schema

// Analysis is the contract for a product analysis response.
func Analysis() *Schema {
	return &Schema{
		Description: "Product analysis result",
		Type:        "object",
		Properties: map[string]*Schema{
			"productName": {Type: "string"},
			"ingredients": {Type: "array", Items: &Schema{Type: "string"}},
			"nutrition": {
				Type:     "object",
				Nullable: true,
				Properties: map[string]*Schema{
					"calories": {Type: "number", Nullable: true},
					"protein":  {Type: "string", Nullable: true},
					"carbs":    {Type: "string", Nullable: true},
					"fat":      {Type: "string", Nullable: true},
				},
			},
			"verdict":  {Type: "string", Enum: []string{"Good", "Caution", "Avoid"}},
			"headline": {Type: "string"},
			"keyFactors": {
				Type: "array",
				Items: &Schema{
					Type: "object",
					Properties: map[string]*Schema{
						"signal":      {Type: "string"},
						"explanation": {Type: "string"},
					},
					Required: []string{"signal", "explanation"},
				},
			},
			"tradeOffs":          {Type: "string", Nullable: true},
			"clarifyingQuestion": {Type: "string", Nullable: true},
		},
		Required: []string{"productName", "verdict", "headline", "keyFactors", "ingredients", "nutrition"},
	}
}

// Followup is the contract for a grounded follow-up answer.
func Followup() *Schema {
	return &Schema{
		Description: "Follow-up Q&A response",
		Type:        "object",
		Properties: map[string]*Schema{
			"answer": {Type: "string", Description: "The direct answer to the user's question"},
		},
		Required: []string{"answer"},
	}
}
