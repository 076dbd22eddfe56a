package resilience

// UserMessage is the localized text shown for a failure kind. Raw error
// strings never reach the end user.
type UserMessage struct {
	Message string
	Help    string
}

var userMessages = map[ErrorKind]UserMessage{
	KindNetwork: {
		Message: "🌐 Problema de conexión. Reintentando...",
		Help:    "Si el problema persiste, verifica tu conexión a internet.",
	},
	KindTimeout: {
		Message: "⏱️ La operación tardó demasiado. Reintentando...",
		Help:    "Por favor, espera un momento mientras procesamos tu solicitud.",
	},
	KindRateLimit: {
		Message: "🚦 Demasiadas solicitudes. Por favor, espera un momento.",
		Help:    "Intenta de nuevo en unos minutos.",
	},
	KindValidation: {
		Message: "❌ Entrada no válida.",
		Help:    "Por favor, revisa tu respuesta y vuelve a intentarlo.",
	},
	KindSecurity: {
		Message: "🔒 Entrada no permitida por razones de seguridad.",
		Help:    "Por favor, introduce solo texto normal sin caracteres especiales.",
	},
	KindTransportAPI: {
		Message: "📱 Error de comunicación con Telegram.",
		Help:    "Reintentando automáticamente...",
	},
	KindSystem: {
		Message: "⚠️ Error interno del sistema.",
		Help:    "El problema ha sido reportado. Por favor, intenta más tarde.",
	},
}

// MessageFor returns the localized message for a failure kind.
func MessageFor(kind ErrorKind) UserMessage {
	if m, ok := userMessages[kind]; ok {
		return m
	}
	return userMessages[KindSystem]
}
