// Package suggest detects inefficient idioms in source text and proposes greener alternatives.
package suggest

import "github.com/huangsam/greenscore/schema"

// Rule is one idiom check. Applies inspects the raw source and the predicted
// metrics; Build renders the suggestion for that source.
type Rule struct {
	Name    string
	Applies func(code string, metrics schema.MetricSet) bool
	Build   func(code string) schema.Suggestion
}

// Engine evaluates the rule table of a language in order.
type Engine struct {
	rules   map[schema.Language][]Rule
	generic []Rule
}

// New creates an engine with the built-in rule tables.
func New() *Engine {
	return &Engine{
		rules: map[schema.Language][]Rule{
			schema.Python:     pythonRules,
			schema.JavaScript: javaScriptRules,
			schema.TypeScript: javaScriptRules,
			schema.Java:       javaRules,
			schema.Cpp:        cppRules,
			schema.C:          cRules,
		},
		generic: genericRules,
	}
}

// Rules returns the rules that run for a language, in evaluation order.
func (e *Engine) Rules(language schema.Language) []Rule {
	own := e.rules[language]
	out := make([]Rule, 0, len(own)+len(e.generic))
	out = append(out, own...)
	return append(out, e.generic...)
}

// Suggest returns every suggestion whose rule applies to code. The result is
// never nil, and its order follows the rule table.
func (e *Engine) Suggest(code string, language schema.Language, metrics schema.MetricSet) []schema.Suggestion {
	suggestions := []schema.Suggestion{}
	for _, rule := range e.Rules(language) {
		if rule.Applies(code, metrics) {
			suggestions = append(suggestions, rule.Build(code))
		}
	}
	return suggestions
}

// codeOnly adapts a source-only predicate to the Applies signature.
func codeOnly(pred func(string) bool) func(string, schema.MetricSet) bool {
	return func(code string, _ schema.MetricSet) bool { return pred(code) }
}

// fixed builds the same suggestion regardless of the source.
func fixed(s schema.Suggestion) func(string) schema.Suggestion {
	return func(string) schema.Suggestion { return s }
}

func improvement(score, energy float64) schema.Improvement {
	return schema.Improvement{GreenScore: score, EnergyWh: energy}
}
