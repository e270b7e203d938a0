package session

import (
	"github.com/nutricheck/nutricheck/internal/domain/analysis"
)

// ID identifies one product context for the lifetime of the process.
type ID string

// ProductContext is the canonical, frozen summary of an analyzed product.
// Once created for a session it is never mutated; every follow-up answer is
// grounded on it. A new analysis always produces a new session and context.
type ProductContext struct {
	ProductName string             `json:"product_name"`
	Ingredients []string           `json:"ingredients"`
	Nutrition   analysis.Nutrition `json:"nutrition"`
	RiskFlags   []string           `json:"risk_flags"`
}

// Derive builds the product context from an analysis result. Pure and
// deterministic: name, ingredients and nutrition are copied, and each key
// factor's signal becomes a risk flag in the same order.
func Derive(a analysis.Result) ProductContext {
	pc := ProductContext{
		ProductName: a.ProductName,
		Ingredients: append([]string(nil), a.Ingredients...),
		Nutrition:   cloneNutrition(a.Nutrition),
	}
	if len(a.KeyFactors) > 0 {
		pc.RiskFlags = make([]string, 0, len(a.KeyFactors))
		for _, kf := range a.KeyFactors {
			pc.RiskFlags = append(pc.RiskFlags, kf.Signal)
		}
	}
	return pc
}

// Clone returns a deep copy so a stored context can be handed out without
// sharing slices or pointers with the caller.
func (pc ProductContext) Clone() ProductContext {
	out := ProductContext{
		ProductName: pc.ProductName,
		Nutrition:   cloneNutrition(pc.Nutrition),
	}
	if pc.Ingredients != nil {
		out.Ingredients = append([]string(nil), pc.Ingredients...)
	}
	if pc.RiskFlags != nil {
		out.RiskFlags = append([]string(nil), pc.RiskFlags...)
	}
	return out
}

func cloneNutrition(n analysis.Nutrition) analysis.Nutrition {
	out := analysis.Nutrition{}
	if n.Calories != nil {
		v := *n.Calories
		out.Calories = &v
	}
	if n.Protein != nil {
		v := *n.Protein
		out.Protein = &v
	}
	if n.Carbs != nil {
		v := *n.Carbs
		out.Carbs = &v
	}
	if n.Fat != nil {
		v := *n.Fat
		out.Fat = &v
	}
	return out
}
