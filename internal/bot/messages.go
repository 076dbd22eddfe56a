package bot

import (
	"fmt"
	"strings"

	"github.com/ferranmt/saludbot/internal/validation"
)

const header = "🧬 **BOT DE TESTOSTERONA** 🧬\n━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n"

const welcomeMessage = header +
	"Hola 👋 Soy tu asistente médico digital.\n\n" +
	"Te haré una serie de preguntas basadas en cuestionarios médicos (ADAM + AMS) y sobre tu estilo de vida para darte una estimación de tu nivel de testosterona.\n\n" +
	"⚠️ **Importante:** Esto NO reemplaza un análisis de sangre ni una consulta médica. Es solo una herramienta orientativa.\n\n" +
	"¿Quieres comenzar?"

const declinedMessage = "Entendido. Si cambias de opinión, simplemente escribe /start. ¡Hasta luego!"

const cancelledMessage = "Cuestionario cancelado. Si quieres volver a empezar, escribe /start."

const privateOnlyMessage = "Para proteger tu privacidad, solo respondo en chats privados. Por favor, envíame /start en un chat conmigo."

const noActiveSessionMessage = "No tienes ningún cuestionario en progreso. Escribe /start para comenzar."

const expiredSessionMessage = "Tu sesión ha expirado. Escribe /start para comenzar de nuevo."

const alreadyCompletedMessage = "Ya has completado el cuestionario. Escribe /start para hacer uno nuevo."

const useButtonsMessage = "Por favor, usa los botones para responder a esta pregunta."

const continuingMessage = "Continuando desde donde lo dejaste..."

const inactivityReminderMessage = "⏰ ¡Hola! Veo que has estado inactivo por un tiempo.\n\n" +
	"Tienes un cuestionario en progreso. ¿Te gustaría continuar donde lo dejaste?\n\n" +
	"Usa /status para ver tu progreso actual o /start para continuar."

const amsIntroMessage = "Ahora, por favor, responde a las siguientes preguntas puntuando de 1 a 5, donde:\n" +
	"1 = Ninguno\n2 = Leve\n3 = Moderado\n4 = Severo\n5 = Muy severo"

func recoveryMessage(progress string) string {
	return fmt.Sprintf("👋 ¡Bienvenido de vuelta!\n\nTienes un cuestionario en progreso:\n%s\n\n¿Te gustaría continuar donde lo dejaste?", progress)
}

func adamCompletedMessage(yesCount int) string {
	return fmt.Sprintf("✅ **Cuestionario ADAM completado**\nRespuestas 'Sí': %d/10\n\n%s", yesCount, amsIntroMessage)
}

func amsCompletedMessage(score int) string {
	return fmt.Sprintf("✅ **Cuestionario AMS completado**\nPuntuación total: %d puntos\n\nÚltima sección: preguntas sobre tu estilo de vida.", score)
}

// progressBar renders ten blocks, filled proportionally to percent.
func progressBar(percent int) string {
	filled := percent / 10
	if filled > 10 {
		filled = 10
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", 10-filled)
}

// questionPrompt frames a question with the overall progress header.
// scoreLine is optional and rendered between the header and the text.
func questionPrompt(answered, total int, section string, qNum, qTotal int, scoreLine, question string) string {
	percent := 0
	if total > 0 {
		percent = answered * 100 / total
	}
	var b strings.Builder
	fmt.Fprintf(&b, "📊 **Progreso General:** %d%% [%s]\n", percent, progressBar(percent))
	fmt.Fprintf(&b, "📋 **Sección:** %s - Pregunta %d de %d\n", section, qNum, qTotal)
	if scoreLine != "" {
		b.WriteString(scoreLine)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(question)
	return b.String()
}

// failureReply collects the validation error, format hint, help, and
// examples into one reply.
func failureReply(res validation.Result) string {
	var b strings.Builder
	b.WriteString("❌ ")
	b.WriteString(res.ErrorMsg)
	if res.FormatHint != "" {
		b.WriteString("\n")
		b.WriteString(res.FormatHint)
	}
	if res.HelpMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(res.HelpMsg)
	}
	if len(res.Examples) > 0 {
		b.WriteString("\n\n📝 Ejemplos válidos: ")
		b.WriteString(strings.Join(res.Examples, ", "))
	}
	if res.ProgressiveHelpSet {
		b.WriteString("\n\n")
		b.WriteString(res.ProgressiveHelp)
	}
	return b.String()
}
