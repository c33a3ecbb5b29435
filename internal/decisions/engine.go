package decisions

import (
	"regexp"
	"strconv"
	"strings"
)

// Priority signal names detected in the prompt. Only portability and
// performance influence the recommended flags; reliability and noise are
// detected and recorded with the vault metadata.
const (
	SignalPortability = "portabilidad"
	SignalPerformance = "rendimiento"
	SignalReliability = "confianza"
	SignalNoise       = "ruido"
)

// budgetPattern captures a 2-3 digit figure followed by a unit token.
// Alternative order matters: matching is leftmost-first, so "25k mxn"
// resolves to unit "k".
var budgetPattern = regexp.MustCompile(`(\d{2,3})\s?(k|mil|000|k\s?mxn|mxn)`)

var signalGroups = []struct {
	name     string
	keywords []string
}{
	{SignalPortability, []string{"peso", "liger", "portátil", "portatil"}},
	{SignalPerformance, []string{"render", "3d", "lumion", "blender", "revit", "potencia", "gpu"}},
	{SignalReliability, []string{"durabil", "garant", "soporte", "confi"}},
	{SignalNoise, []string{"silenc", "ruido"}},
}

// GenerateRoutes maps a prompt to the three fixed decision routes. It is a
// lightweight heuristic over trade-offs and priorities, not a product
// catalog. Total over all inputs; calling it twice with the same prompt
// yields identical content.
func GenerateRoutes(prompt string) RouteSet {
	text := strings.ToLower(prompt)

	budget, hasBudget := extractBudget(text)
	signals := detectSignals(text)

	budgetClause := "."
	if hasBudget {
		budgetClause = " (≤ " + formatThousands(budget) + " MXN)"
	}

	recs := []Recommendation{
		{
			ID:      RouteBalance,
			Title:   "Ruta A – Equilibrio rendimiento / precio",
			Summary: "Balancea potencia suficiente con cuidado del presupuesto.",
			Bullets: []string{
				"Prioriza GPU y RAM sobre detalles cosméticos.",
				"Mantiene el presupuesto bajo control" + budgetClause,
				"Acepta un peso medio para no sacrificar demasiada potencia.",
				"Propone marcas con buen soporte técnico para minimizar riesgos.",
			},
			Badge:       BadgeBalance,
			Recommended: true,
		},
		{
			ID:      RoutePower,
			Title:   "Ruta B – Máxima potencia para cargas pesadas",
			Summary: "Prioriza rendimiento sostenido para 3D y render, asumiendo trade-offs.",
			Bullets: []string{
				"Maximiza GPU/CPU y memoria para proyectos exigentes.",
				"Puede exceder un poco el presupuesto si el beneficio es claro.",
				"Acepta mayor peso y menor batería para ganar velocidad.",
				"Sugiere sistemas de enfriamiento más robustos (algo más de ruido).",
			},
			Badge:       BadgeHighRisk,
			Recommended: false,
		},
		{
			ID:      RoutePortability,
			Title:   "Ruta C – Ultra ligera, consciente del sacrificio",
			Summary: "Optimiza portabilidad y ergonomía, sacrificando potencia tope.",
			Bullets: []string{
				"Elige chasis delgados y materiales ligeros.",
				"Rinde bien en tareas de diseño medio; renderizados más lentos.",
				"Se enfoca en autonomía y menor ruido cuando es posible.",
				"Se asegura de que el peso total sea cómodo para transporte diario.",
			},
			Badge:       BadgeConservative,
			Recommended: false,
		},
	}

	// Re-point the primary flag from detected priorities. The overrides are
	// sequential, not exclusive: a prompt carrying both signals leaves the
	// portability flag set and hands the balance slot to the power route.
	if hasSignal(signals, SignalPortability) {
		recs[0].Recommended = false
		recs[2].Recommended = true
	}
	if hasSignal(signals, SignalPerformance) {
		recs[0].Recommended = false
		recs[1].Recommended = true
	}

	return RouteSet{
		Recommendations: recs,
		Signals:         signals,
		Budget:          budget,
		HasBudget:       hasBudget,
	}
}

// extractBudget pulls an optional budget figure out of the lowered text.
// Units k, mil and mxn scale by 1000; the literal "000" unit takes the
// figure at face value, so "250000" yields 250. Never fails.
func extractBudget(text string) (int, bool) {
	m := budgetPattern.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	num, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	if m[2] == "000" {
		return num, true
	}
	return num * 1000, true
}

func detectSignals(text string) []string {
	var signals []string
	for _, group := range signalGroups {
		for _, kw := range group.keywords {
			if strings.Contains(text, kw) {
				signals = append(signals, group.name)
				break
			}
		}
	}
	return signals
}

func hasSignal(signals []string, name string) bool {
	for _, s := range signals {
		if s == name {
			return true
		}
	}
	return false
}

func formatThousands(n int) string {
	s := strconv.Itoa(n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
