package decisions

import "time"

// Route identifiers, in fixed slot order [balance, power, portability].
const (
	RouteBalance     = "route_balance"
	RoutePower       = "route_power"
	RoutePortability = "route_portability"
)

// Badge labels attached to recommendations for UI display.
const (
	BadgeConservative = "Conservadora"
	BadgeBalance      = "Balance"
	BadgeHighRisk     = "Riesgo alto"
	BadgeExploratory  = "Exploratoria"
	BadgePrecise      = "Precisa"
	BadgeEfficient    = "Eficiente"
)

// Recommendation is a single decision-route suggestion.
type Recommendation struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Summary     string   `json:"summary"`
	Bullets     []string `json:"bullets"`
	Badge       string   `json:"badge"`
	Recommended bool     `json:"recommended"`
}

// RouteSet is the engine output for one prompt: the three routes plus the
// raw signals that shaped them.
type RouteSet struct {
	Recommendations []Recommendation
	Signals         []string
	Budget          int
	HasBudget       bool
}

// DecisionRoute is a vault record of one generated decision.
type DecisionRoute struct {
	ID              string
	Prompt          string
	RobotMessage    string
	Recommendations []Recommendation
	Metadata        map[string]any
	RecordType      string
	CreatedAt       time.Time
}
