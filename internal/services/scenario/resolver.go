// Package scenario maps a customer-supplied test identifier to a
// deterministic simulated payment outcome. Resolution is a pure function:
// an ordered rule table (exact mapping, then suffix rules, then default)
// evaluated with no side effects, so tests can assert exact outputs.
package scenario

import "paygate/internal/models"

// Outcome is the simulated result of a payment attempt.
type Outcome struct {
	Scenario    string
	Status      models.PaymentStatus
	StatusCode  string
	DisplayName string
	Description string
}

// Completed reports whether the outcome is a successful payment.
func (o Outcome) Completed() bool {
	return o.Status == models.PaymentStatusCompleted
}

type rule struct {
	match   func(identifier string) bool
	outcome func(identifier string) Outcome
}

type Resolver struct {
	exact map[string]Outcome
	rules []rule
}

// NewResolver builds a resolver from the seeded scenario mappings.
// Suffix rules and the success default are built in.
func NewResolver(mappings []models.ScenarioMapping) *Resolver {
	exact := make(map[string]Outcome, len(mappings))
	for _, m := range mappings {
		exact[m.Identifier] = Outcome{
			Scenario:    m.Name,
			Status:      m.Status,
			StatusCode:  m.StatusCode,
			DisplayName: displayName(m.Identifier),
			Description: m.Description,
		}
	}
	return &Resolver{
		exact: exact,
		rules: []rule{
			{
				match: hasSuffix("0003"),
				outcome: func(id string) Outcome {
					return Outcome{
						Scenario:    "validation_failure",
						Status:      models.PaymentStatusFailed,
						StatusCode:  "VALIDATION_FAILED",
						DisplayName: displayName(id),
						Description: "account failed validation",
					}
				},
			},
			{
				match: hasSuffix("0005"),
				outcome: func(id string) Outcome {
					return Outcome{
						Scenario:    "blocked_account",
						Status:      models.PaymentStatusFailed,
						StatusCode:  "ACCOUNT_BLOCKED",
						DisplayName: displayName(id),
						Description: "account is blocked",
					}
				},
			},
		},
	}
}

// Resolve returns the outcome for an identifier. Exact mappings win over
// suffix rules; anything unmatched resolves to a success outcome with a
// synthesized display name.
func (r *Resolver) Resolve(identifier string) Outcome {
	if out, ok := r.exact[identifier]; ok {
		return out
	}
	for _, rl := range r.rules {
		if rl.match(identifier) {
			return rl.outcome(identifier)
		}
	}
	return Outcome{
		Scenario:    "default_success",
		Status:      models.PaymentStatusCompleted,
		StatusCode:  "SUCCESS",
		DisplayName: displayName(identifier),
		Description: "payment completed",
	}
}

func hasSuffix(suffix string) func(string) bool {
	return func(id string) bool {
		return len(id) >= len(suffix) && id[len(id)-len(suffix):] == suffix
	}
}

func displayName(identifier string) string {
	if len(identifier) < 4 {
		return "Test Account"
	}
	return "Test Account " + identifier[len(identifier)-4:]
}
