package bot

import (
	"fmt"
	"strings"

	"github.com/ferranmt/saludbot/internal/core/domain"
)

// adamDeficit applies the ADAM positivity rule: "yes" on question 1,
// on question 7, or on any three questions.
func adamDeficit(answers []bool) bool {
	yes := 0
	for _, a := range answers {
		if a {
			yes++
		}
	}
	q1 := len(answers) > 0 && answers[0]
	q7 := len(answers) > 6 && answers[6]
	return q1 || q7 || yes >= 3
}

// amsInterpretation maps a total AMS score to its severity band.
func amsInterpretation(score int) string {
	switch {
	case score <= 26:
		return "No significativo"
	case score <= 36:
		return "Leve"
	case score <= 49:
		return "Moderado"
	default:
		return "Severo"
	}
}

// lifestyleFactors lists habits that work against hormonal health.
// Missing answers fall back to neutral defaults.
func lifestyleFactors(answers map[string]any) []string {
	var factors []string
	if asFloat(answers["body_fat"], 15) > 20 {
		factors = append(factors, "Grasa corporal elevada")
	}
	if asInt(answers["sleep_quality"], 3) <= 2 {
		factors = append(factors, "Mala calidad del sueño")
	}
	if asInt(answers["stress_level"], 3) >= 4 {
		factors = append(factors, "Alto nivel de estrés")
	}
	if asInt(answers["exercise_frequency"], 2) < 2 {
		factors = append(factors, "Poco ejercicio de fuerza")
	}
	if asBool(answers["alcohol_tobacco"]) {
		factors = append(factors, "Consumo regular de alcohol/tabaco")
	}
	return factors
}

// finalResults renders the closing evaluation for a finished session.
func finalResults(s *domain.Session) string {
	adamResult := "🟢 No se detecta un posible déficit."
	if adamDeficit(s.AdamAnswers) {
		adamResult = "🔴 Posible déficit."
	}

	amsResult := fmt.Sprintf("%d puntos → %s.", s.AMSScore, amsInterpretation(s.AMSScore))

	factors := lifestyleFactors(s.Lifestyle)
	lifestyleSummary := "Tus hábitos de estilo de vida parecen adecuados."
	if len(factors) > 0 {
		lifestyleSummary = "Factores a mejorar: " + strings.Join(factors, ", ") + "."
	}

	return header +
		"📝 **RESULTADOS DE TU EVALUACIÓN**\n" +
		"━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n" +
		fmt.Sprintf("✅ **Resultado ADAM:** %s\n", adamResult) +
		fmt.Sprintf("📊 **Escala AMS:** %s\n", amsResult) +
		fmt.Sprintf("🏃‍♂️ **Estilo de Vida:** %s\n\n", lifestyleSummary) +
		"👉 **Recomendación:**\n" +
		"Recuerda que esto es solo una estimación. Si tus resultados indican un posible déficit o síntomas moderados/severos, considera consultar a un médico especialista (urólogo o endocrinólogo) para un diagnóstico preciso a través de un análisis de sangre.\n\n" +
		"Para volver a empezar, escribe /start."
}

// Snapshot answers survive restarts as JSON, so numbers come back as
// float64. The coercions below accept both live and reloaded values.

func asInt(v any, def int) int {
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	}
	return def
}

func asFloat(v any, def float64) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	}
	return def
}

func asBool(v any) bool {
	b, ok := v.(bool)
	return ok && b
}
