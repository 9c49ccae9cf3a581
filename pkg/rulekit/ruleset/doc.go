// Package ruleset evaluates named collections of rules.
//
// A ruleset file lists rules and, optionally, constants shared by all of
// them. YAML, JSON and TOML are accepted:
//
//	name: pricing
//	constants:
//	  threshold: 100
//	rules:
//	  - name: big_order
//	    expression: total >= threshold
//	  - name: vip
//	    expression: tier = "gold" or total > threshold * 10
//
// Every rule is compiled once when the set is built. Evaluate runs all
// rules against an environment layered over the set's constants, and one
// failing rule does not stop the others:
//
//	rs, err := ruleset.Load("pricing.yaml")
//	for _, r := range rs.Evaluate(ctx, rulekit.Vars{"total": 250}) {
//	    fmt.Println(r.Rule.Name, r.Value, r.Err)
//	}
//
// A rule may carry a message rendered when it matches. Placeholders are
// filled from the same environment, and ${value} holds the rule's result:
//
//	  - name: discount
//	    expression: 'total >= threshold ? total / 10 : 0'
//	    message: ${value} off an order of ${total}
//
// Rulesets can also be read from and written to a store.Store.
package ruleset
