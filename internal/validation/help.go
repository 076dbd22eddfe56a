package validation

import "github.com/ferranmt/saludbot/internal/core/domain"

// The help tables are deployment data: Spanish copy keyed by question
// kind, escalating from format reminders to maximally simplified
// instructions.

var examples = map[domain.QuestionKind][]string{
	domain.QuestionAdamYesNo:      {"Sí", "No", "Si", "S", "N"},
	domain.QuestionAMSScale:       {"1", "2", "3", "4", "5"},
	domain.QuestionAge:            {"25", "30", "45", "60"},
	domain.QuestionBodyFat:        {"15", "20", "25", "12.5"},
	domain.QuestionSleepQuality:   {"1", "2", "3", "4", "5"},
	domain.QuestionStressLevel:    {"1", "2", "3", "4", "5"},
	domain.QuestionExerciseFreq:   {"0", "2", "3", "5", "7"},
	domain.QuestionAlcoholTobacco: {"Sí", "No", "Si", "S", "N"},
}

// Examples returns literal valid inputs for a question kind.
func Examples(kind domain.QuestionKind) []string {
	if ex, ok := examples[kind]; ok {
		return ex
	}
	return []string{"Ejemplo no disponible"}
}

var baseHelpMessages = map[domain.QuestionKind]string{
	domain.QuestionAdamYesNo:      "Responde 'Sí' o 'No' a la pregunta.\nRespuestas válidas: Sí, Si, No, S, N",
	domain.QuestionAMSScale:       "Califica del 1 al 5 según la intensidad de los síntomas:\n1 = Ninguno\n2 = Leve\n3 = Moderado\n4 = Severo\n5 = Muy severo",
	domain.QuestionAge:            "Introduce tu edad como un número entero.\nDebe estar entre 18 y 120 años.",
	domain.QuestionBodyFat:        "Introduce tu porcentaje de grasa corporal estimado.\nDebe ser un número entre 0 y 50 (sin el símbolo %).",
	domain.QuestionSleepQuality:   "Califica la calidad de tu sueño del 1 al 5:\n1 = Muy mala\n2 = Mala\n3 = Regular\n4 = Buena\n5 = Excelente",
	domain.QuestionStressLevel:    "Califica tu nivel de estrés del 1 al 5:\n1 = Muy bajo\n2 = Bajo\n3 = Moderado\n4 = Alto\n5 = Muy alto",
	domain.QuestionExerciseFreq:   "Introduce el número de veces por semana que haces ejercicio de fuerza.\nDebe ser un número entre 0 y 7.",
	domain.QuestionAlcoholTobacco: "Responde 'Sí' o 'No' sobre si consumes alcohol o tabaco regularmente.\nRespuestas válidas: Sí, Si, No, S, N",
}

func baseHelp(kind domain.QuestionKind) string {
	if msg, ok := baseHelpMessages[kind]; ok {
		return msg
	}
	return "Introduce una respuesta válida."
}

var additionalHelpMessages = map[domain.QuestionKind]string{
	domain.QuestionAdamYesNo:      "💡 Consejo: Si no estás seguro, piensa en tu experiencia reciente. Las preguntas ADAM se refieren a cambios que hayas notado.",
	domain.QuestionAMSScale:       "💡 Consejo: Si no experimentas el síntoma, responde '1'. Si lo experimentas intensamente, responde '5'. Para síntomas moderados, usa '2', '3' o '4'.",
	domain.QuestionAge:            "💡 Consejo: Introduce solo números, sin letras ni símbolos. Por ejemplo: 30",
	domain.QuestionBodyFat:        "💡 Consejo: Si no conoces tu porcentaje exacto, puedes estimarlo:\n- Muy delgado: 8-12%\n- Delgado: 12-18%\n- Normal: 18-25%\n- Con sobrepeso: 25-35%",
	domain.QuestionSleepQuality:   "💡 Consejo: Piensa en qué tan descansado te sientes al despertar y qué tan fácil es para ti conciliar el sueño.",
	domain.QuestionStressLevel:    "💡 Consejo: Considera tu nivel de estrés promedio en los últimos meses, no solo el día de hoy.",
	domain.QuestionExerciseFreq:   "💡 Consejo: Cuenta solo ejercicios de fuerza como pesas, calistenia, o entrenamientos de resistencia. No incluyas cardio.",
	domain.QuestionAlcoholTobacco: "💡 Consejo: 'Regular' significa varias veces por semana. Si es ocasional (una vez al mes o menos), responde 'No'.",
}

func additionalHelp(kind domain.QuestionKind) string {
	return additionalHelpMessages[kind]
}

var progressiveHelpMessages = map[domain.QuestionKind]string{
	domain.QuestionAdamYesNo:      "🆘 Ayuda progresiva:\nParece que tienes dificultades con esta pregunta. Simplemente escribe la letra 'S' para Sí o 'N' para No.",
	domain.QuestionAMSScale:       "🆘 Ayuda progresiva:\nEscribe solo un número del 1 al 5. Si no tienes este síntoma, escribe '1'. Si lo tienes muy intenso, escribe '5'.",
	domain.QuestionAge:            "🆘 Ayuda progresiva:\nEscribe solo tu edad como número. Por ejemplo, si tienes treinta años, escribe: 30",
	domain.QuestionBodyFat:        "🆘 Ayuda progresiva:\nSi no estás seguro, puedes usar estos valores aproximados:\n- Muy delgado: 10\n- Delgado: 15\n- Normal: 20\n- Con sobrepeso: 30",
	domain.QuestionSleepQuality:   "🆘 Ayuda progresiva:\nEscribe un número del 1 al 5:\n1 = Duermo muy mal\n3 = Duermo regular\n5 = Duermo excelente",
	domain.QuestionStressLevel:    "🆘 Ayuda progresiva:\nEscribe un número del 1 al 5:\n1 = Muy poco estrés\n3 = Estrés normal\n5 = Mucho estrés",
	domain.QuestionExerciseFreq:   "🆘 Ayuda progresiva:\nEscribe un número del 0 al 7 (días por semana).\nSi no haces ejercicio de fuerza, escribe: 0",
	domain.QuestionAlcoholTobacco: "🆘 Ayuda progresiva:\nEscribe 'S' si consumes alcohol o tabaco varias veces por semana.\nEscribe 'N' si no consumes o es muy ocasional.",
}

func progressiveHelp(kind domain.QuestionKind) string {
	return progressiveHelpMessages[kind]
}
