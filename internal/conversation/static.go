package conversation

import (
	"context"
	"strings"
)

// StaticClassifier is a keyword fallback used when no Gemini key is
// configured. It covers the high-traffic intents well enough to keep
// the booking flow usable without the model.
type StaticClassifier struct{}

// NewStaticClassifier creates the keyword fallback classifier.
func NewStaticClassifier() *StaticClassifier {
	return &StaticClassifier{}
}

// Classify matches the message against known Spanish keywords.
func (c *StaticClassifier) Classify(ctx context.Context, history []ChatMessage, message, imageBase64 string) (IntentResult, error) {
	text := strings.ToLower(message)

	switch {
	case containsAny(text, "reprogramar", "cambiar", "mover", "modificar"):
		return IntentResult{
			Message: "Claro, para gestionar tu cita (consultar, cancelar o modificar), por favor ingresa tu documento en el formulario.",
			Intent:  IntentReschedule,
		}, nil
	case containsAny(text, "cancelar", "anular"):
		return IntentResult{
			Message: "Claro, para gestionar tu cita (consultar, cancelar o modificar), por favor ingresa tu documento en el formulario.",
			Intent:  IntentCancellation,
		}, nil
	case containsAny(text, "consultar", "mi cita", "mis citas"):
		return IntentResult{
			Message: "Claro, para gestionar tu cita (consultar, cancelar o modificar), por favor ingresa tu documento en el formulario.",
			Intent:  IntentCheckAppointment,
		}, nil
	case containsAny(text, "cita", "agendar", "dolor", "precio", "horario", "disponib"):
		return IntentResult{
			Message:             "¡Con gusto! Estos son los servicios con los que la mayoría de pacientes comienzan. ¿Cuál te interesa?",
			Intent:              IntentBookingRequest,
			SuggestedServiceIDs: []int{1, 2},
		}, nil
	case containsAny(text, "servicios", "catálogo", "catalogo"):
		return IntentResult{
			Message: "Estos son todos nuestros servicios disponibles.",
			Intent:  IntentShowAllServices,
		}, nil
	case containsAny(text, "hola", "buenos días", "buenas tardes", "buenas noches", "buenas"):
		return IntentResult{
			Message: "¡Hola! Soy Gon, el asistente del consultorio de Ana María López. ¿En qué puedo ayudarte hoy?",
			Intent:  IntentGreeting,
		}, nil
	case containsAny(text, "reporte", "ingresos", "ventas"):
		return IntentResult{Intent: IntentRevenueReport}, nil
	}

	return IntentResult{
		Message: "¿Podrías contarme un poco más? Puedo ayudarte a agendar, consultar o modificar una cita.",
		Intent:  IntentGeneral,
	}, nil
}

func containsAny(text string, keywords ...string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
