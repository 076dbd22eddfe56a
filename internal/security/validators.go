package security

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ferranmt/saludbot/internal/core/domain"
)

// Result is the outcome of validating one input.
type Result struct {
	OK         bool
	ErrorMsg   string
	HelpMsg    string
	FormatHint string
}

func valid() Result { return Result{OK: true} }

func invalid(errMsg, helpMsg, hint string) Result {
	return Result{ErrorMsg: errMsg, HelpMsg: helpMsg, FormatHint: hint}
}

var yesTokens = map[string]bool{"sí": true, "si": true, "yes": true, "y": true, "s": true}
var noTokens = map[string]bool{"no": true, "n": true}

// validateKind dispatches a sanitized input to its type-specific
// validator. All validators are pure functions of the text.
func validateKind(text string, kind domain.InputKind) Result {
	switch kind {
	case domain.InputAge:
		return validateAge(text)
	case domain.InputBodyFat:
		return validateBodyFat(text)
	case domain.InputScale1to5:
		return validateScale(text)
	case domain.InputYesNo:
		return validateYesNo(text)
	case domain.InputFrequency:
		return validateFrequency(text)
	case domain.InputFreeText:
		return validateFreeText(text)
	default:
		return invalid("Tipo de entrada no reconocido.", "", "")
	}
}

func validateAge(text string) Result {
	age, err := strconv.Atoi(text)
	if err != nil {
		return invalid(
			"Por favor, introduce un número válido para la edad.",
			"La edad debe ser un número entero entre 18 y 120.",
			"Ejemplo: 30",
		)
	}
	if age < 18 || age > 120 {
		return invalid(
			"La edad debe estar entre 18 y 120 años.",
			"Introduce tu edad como un número entero (ej: 25).",
			"Ejemplo: 30",
		)
	}
	return valid()
}

func validateBodyFat(text string) Result {
	clean := strings.TrimSpace(strings.ReplaceAll(text, "%", ""))
	fat, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return invalid(
			"Por favor, introduce un número válido para el porcentaje de grasa corporal.",
			"Debe ser un número entre 0 y 50.",
			"Ejemplo: 15",
		)
	}
	if fat < 0 || fat > 50 {
		return invalid(
			"El porcentaje de grasa corporal debe estar entre 0% y 50%.",
			"Introduce un número entre 0 y 50 (sin el símbolo %).",
			"Ejemplo: 15",
		)
	}
	return valid()
}

func validateScale(text string) Result {
	score, err := strconv.Atoi(text)
	if err != nil {
		return invalid(
			"Por favor, introduce solo un número del 1 al 5.",
			"Debe ser un número entero entre 1 y 5.",
			"Ejemplo: 3",
		)
	}
	if score < 1 || score > 5 {
		return invalid(
			"Por favor, introduce un número entre 1 y 5.",
			"1=Muy bajo/Ninguno, 2=Leve, 3=Moderado, 4=Severo, 5=Muy severo",
			"Ejemplo: 3",
		)
	}
	return valid()
}

func validateYesNo(text string) Result {
	token := strings.ToLower(strings.TrimSpace(text))
	if yesTokens[token] || noTokens[token] {
		return valid()
	}
	return invalid(
		"Por favor, responde 'Sí' o 'No'.",
		"Respuestas válidas: Sí, Si, No, S, N",
		"Ejemplo: Sí",
	)
}

func validateFrequency(text string) Result {
	freq, err := strconv.Atoi(text)
	if err != nil {
		return invalid(
			"Por favor, introduce un número válido para la frecuencia de ejercicio.",
			"Debe ser un número entre 0 y 7.",
			"Ejemplo: 3",
		)
	}
	if freq < 0 || freq > 7 {
		return invalid(
			"La frecuencia de ejercicio debe estar entre 0 y 7 veces por semana.",
			"Introduce el número de veces que haces ejercicio por semana.",
			"Ejemplo: 3",
		)
	}
	return valid()
}

func validateFreeText(text string) Result {
	if utf8.RuneCountInString(text) > 100 {
		return invalid(
			"El texto es demasiado largo. Máximo 100 caracteres.",
			"Por favor, acorta tu respuesta.",
			"Máximo 100 caracteres",
		)
	}
	if strings.TrimSpace(text) == "" {
		return invalid(
			"Por favor, introduce algún texto.",
			"La respuesta no puede estar vacía.",
			"",
		)
	}
	return valid()
}

// IsYes reports whether a sanitized yes/no answer is affirmative.
func IsYes(text string) bool {
	return yesTokens[strings.ToLower(strings.TrimSpace(text))]
}
