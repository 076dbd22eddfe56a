// Package questionnaire supplies the ordered prompts per section. The
// session store consumes question counts read-only; the conversation
// flow consumes prompts and per-question kinds.
package questionnaire

import "github.com/ferranmt/saludbot/internal/core/domain"

// Catalog exposes a section's prompts and size.
type Catalog interface {
	// Questions returns the ordered prompts for a section state.
	Questions(state domain.SessionState) []string

	// Count returns the number of questions in a section. Unknown
	// sections count zero.
	Count(state domain.SessionState) int

	// TotalQuestions returns the question count across all sections.
	TotalQuestions() int

	// SectionName returns the localized display name of a section.
	SectionName(state domain.SessionState) string

	// LifestyleKind returns the question kind for a lifestyle index.
	LifestyleKind(index int) domain.QuestionKind
}

var adamQuestions = []string{
	"1/10: ¿Ha disminuido su libido (deseo sexual)?",
	"2/10: ¿Siente una falta de energía?",
	"3/10: ¿Ha perdido fuerza o resistencia?",
	"4/10: ¿Ha perdido estatura?",
	"5/10: ¿Ha notado una disminución en su 'disfrute de la vida'?",
	"6/10: ¿Está triste o de mal humor?",
	"7/10: ¿Son sus erecciones menos fuertes?",
	"8/10: ¿Ha notado un deterioro reciente en su capacidad para practicar deportes?",
	"9/10: ¿Se queda dormido después de cenar?",
	"10/10: ¿Ha disminuido recientemente su rendimiento en el trabajo?",
}

var amsQuestions = []string{
	"1/17: Disminución del deseo/apetito sexual.",
	"2/17: Sensación de agotamiento físico/falta de vitalidad.",
	"3/17: Disminución de la fuerza muscular.",
	"4/17: Dificultad para conciliar el sueño.",
	"5/17: Necesidad de dormir más que antes.",
	"6/17: Aumento de la irritabilidad.",
	"7/17: Aumento del nerviosismo.",
	"8/17: Ansiedad (sentirse al límite).",
	"9/17: Episodios de sudoración.",
	"10/17: Pérdida de vello corporal.",
	"11/17: Disminución de la barba.",
	"12/17: Disminución de la potencia/frecuencia de las erecciones matutinas.",
	"13/17: Disminución de la capacidad para el rendimiento sexual.",
	"14/17: Dolores articulares y musculares.",
	"15/17: Sensación de que 'ya ha pasado lo mejor'.",
	"16/17: Sensación de estar 'quemado', de haber llegado al límite.",
	"17/17: Tristeza o desánimo.",
}

var lifestyleQuestions = []string{
	"1/6: ¿Cuál es tu edad?",
	"2/6: ¿Cuál es tu porcentaje de grasa corporal aproximado? (Si no lo sabes, introduce un estimado. Ej: 15)",
	"3/6: En una escala de 1 a 5, ¿cómo calificarías la calidad de tu sueño? (1=Muy mala, 5=Excelente)",
	"4/6: En una escala de 1 a 5, ¿cómo calificarías tu nivel de estrés diario? (1=Muy bajo, 5=Muy alto)",
	"5/6: ¿Cuántas veces por semana realizas ejercicio de fuerza (pesas, calistenia, etc.)?",
	"6/6: ¿Consumes alcohol o tabaco de forma regular?",
}

var lifestyleKinds = []domain.QuestionKind{
	domain.QuestionAge,
	domain.QuestionBodyFat,
	domain.QuestionSleepQuality,
	domain.QuestionStressLevel,
	domain.QuestionExerciseFreq,
	domain.QuestionAlcoholTobacco,
}

// LifestyleKeys are the answer-map keys, index-aligned with the
// lifestyle questions.
var LifestyleKeys = []string{
	"age", "body_fat", "sleep_quality", "stress_level", "exercise_frequency", "alcohol_tobacco",
}

// Builtin is the fixed Spanish questionnaire.
type Builtin struct{}

// NewBuiltin returns the built-in catalog.
func NewBuiltin() Builtin { return Builtin{} }

func (Builtin) Questions(state domain.SessionState) []string {
	switch state {
	case domain.StateAdam:
		return adamQuestions
	case domain.StateAMS:
		return amsQuestions
	case domain.StateLifestyle:
		return lifestyleQuestions
	default:
		return nil
	}
}

func (b Builtin) Count(state domain.SessionState) int {
	return len(b.Questions(state))
}

func (b Builtin) TotalQuestions() int {
	return len(adamQuestions) + len(amsQuestions) + len(lifestyleQuestions)
}

func (Builtin) SectionName(state domain.SessionState) string {
	switch state {
	case domain.StateAdam:
		return "Cuestionario ADAM"
	case domain.StateAMS:
		return "Cuestionario AMS"
	case domain.StateLifestyle:
		return "Preguntas de Estilo de Vida"
	default:
		return "Iniciando"
	}
}

func (Builtin) LifestyleKind(index int) domain.QuestionKind {
	if index < 0 || index >= len(lifestyleKinds) {
		return domain.QuestionAlcoholTobacco
	}
	return lifestyleKinds[index]
}
