// Package access holds the static tool access policy. Which subscription
// plans unlock which tools is configuration, not session state; the session
// manager stays ignorant of it.
package access

// Subscription plan identifiers
const (
	PlanBasic        = "basic"
	PlanProfessional = "professional"
	PlanEnterprise   = "enterprise"
)

// RoleAdmin grants universal tool access regardless of plan.
const RoleAdmin = "admin"

// ToolPlans maps a tool slug to the plans that unlock it.
var ToolPlans = map[string][]string{
	// Basic tools (all plans)
	"crm":       {PlanBasic, PlanProfessional, PlanEnterprise},
	"marketing": {PlanBasic, PlanProfessional, PlanEnterprise},
	"analytics": {PlanBasic, PlanProfessional, PlanEnterprise},
	"finance":   {PlanBasic, PlanProfessional, PlanEnterprise},

	// Professional tools
	"hr":             {PlanProfessional, PlanEnterprise},
	"reviews":        {PlanProfessional, PlanEnterprise},
	"social-media":   {PlanProfessional, PlanEnterprise},
	"chat-support":   {PlanProfessional, PlanEnterprise},
	"sales-forecast": {PlanProfessional, PlanEnterprise},

	// Enterprise tools
	"legal-crm":    {PlanEnterprise},
	"supply-chain": {PlanEnterprise},
	"contracts":    {PlanEnterprise},
	"inventory":    {PlanEnterprise},
}

// HasToolAccess reports whether a principal with the given role and plan may
// use the named tool. Admins always may; unknown tools are closed.
func HasToolAccess(role, subscriptionPlan, tool string) bool {
	if role == RoleAdmin {
		return true
	}

	plans, ok := ToolPlans[tool]
	if !ok {
		return false
	}
	if subscriptionPlan == "" {
		return false
	}
	for _, p := range plans {
		if p == subscriptionPlan {
			return true
		}
	}
	return false
}

// Tools returns the slugs of every known tool.
func Tools() []string {
	out := make([]string, 0, len(ToolPlans))
	for tool := range ToolPlans {
		out = append(out, tool)
	}
	return out
}
