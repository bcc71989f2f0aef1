package plans

import "fmt"

// Plan is a subscription tier determining the case quota.
type Plan string

const (
	Basic        Plan = "basic"
	Professional Plan = "professional"
	Enterprise   Plan = "enterprise"
)

// limits maps each plan to the maximum number of cases a user may own.
var limits = map[Plan]int{
	Basic:        5,
	Professional: 25,
	Enterprise:   100,
}

// Valid reports whether p is a known plan.
func Valid(p Plan) bool {
	_, ok := limits[p]
	return ok
}

// Limit returns the case quota for a plan. Unknown plans fall back to the
// basic limit so a bad value can never grant unlimited cases.
func Limit(p Plan) int {
	if limit, ok := limits[p]; ok {
		return limit
	}
	return limits[Basic]
}

// All returns every plan in ascending order of quota.
func All() []Plan {
	return []Plan{Basic, Professional, Enterprise}
}

// LimitError is returned when a user attempts to create a case beyond
// their plan quota. Handlers surface Current/Limit/Plan to the client.
type LimitError struct {
	Current int
	Limit   int
	Plan    Plan
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("plan limit reached: %d/%d cases on plan %q", e.Current, e.Limit, e.Plan)
}
