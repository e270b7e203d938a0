package analysis

// Verdict enum
type Verdict string

const (
	VerdictGood    Verdict = "Good"
	VerdictCaution Verdict = "Caution"
	VerdictAvoid   Verdict = "Avoid"
)

// Nutrition value object. Calories is numeric when present; the macro
// fields keep the unit the label prints ("10g"), so they stay strings.
type Nutrition struct {
	Calories *float64 `json:"calories"`
	Protein  *string  `json:"protein"`
	Carbs    *string  `json:"carbs"`
	Fat      *string  `json:"fat"`
}

// KeyFactor is one decision-relevant health signal from the analysis.
type KeyFactor struct {
	Signal      string `json:"signal"`
	Explanation string `json:"explanation"`
}

// Aggregate Root: Result of one product analysis. It is returned to the
// caller and never stored wholesale; only the derived product context is
// retained (see internal/domain/session).
type Result struct {
	ProductName        string      `json:"productName"`
	Ingredients        []string    `json:"ingredients"`
	Nutrition          Nutrition   `json:"nutrition"`
	Verdict            Verdict     `json:"verdict"`
	Headline           string      `json:"headline"`
	KeyFactors         []KeyFactor `json:"keyFactors"`
	TradeOffs          *string     `json:"tradeOffs"`
	ClarifyingQuestion *string     `json:"clarifyingQuestion"`
}
