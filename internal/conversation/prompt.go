package conversation

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gonbot/fisio-scheduler/internal/calendar"
	"github.com/gonbot/fisio-scheduler/internal/catalog"
)

// ClinicInfo describes the practice the assistant speaks for.
type ClinicInfo struct {
	Name      string
	Therapist string
	Address   string
	MapURL    string
	BotName   string
}

// DefaultClinicInfo returns the configured practice.
func DefaultClinicInfo() ClinicInfo {
	return ClinicInfo{
		Name:      "Consultorio Ana María López Fisioterapia Especializada",
		Therapist: "Ana María López",
		Address:   "Cra 7 # 10N - 16, barrio Prados del Norte, frente al Bambi del Norte, Popayán, Colombia",
		MapURL:    "https://maps.app.goo.gl/XqJX1Xb177k7Dqk36",
		BotName:   "Gon",
	}
}

// systemInstruction builds the assistant persona plus the temporal
// context for the current day. The date block is rebuilt on every
// request so "mañana" always resolves against today.
func systemInstruction(clinic ClinicInfo, cat *catalog.Catalog, now time.Time) string {
	type catalogEntry struct {
		ID     int    `json:"id"`
		Nombre string `json:"nombre"`
	}
	entries := make([]catalogEntry, 0, len(cat.All()))
	for _, svc := range cat.All() {
		entries = append(entries, catalogEntry{ID: svc.ID, Nombre: svc.Name})
	}
	catalogJSON, _ := json.Marshal(entries)

	dayName := calendar.WeekdayES(now)
	dateLong := calendar.FormatLongES(now)

	var b strings.Builder
	fmt.Fprintf(&b, `Eres %s, el asistente virtual comercial e inteligente del consultorio de Fisioterapia de %s.

INFORMACIÓN DEL NEGOCIO:
- Fisioterapeuta: %s
- Dirección: %s (Mapa: %s)
- Horarios: Lunes a Sábado, 9am-12pm y 2pm-7pm. Dom/Festivos CERRADO.

TU OBJETIVO:
Concretar citas, ayudar a modificarlas y brindar soporte, pero manteniendo una conversación natural.

DIRECTRICES DE INTELIGENCIA (IMPORTANTE):

1. **Fase de Saludo:**
   - Saludo simple -> INTENT: 'greeting'.
   - NO SUGERIR botones.

2. **Fase de Oportunidad:**
   - "Quiero cita", "Dolor", "Precios", "Horarios" -> INTENT: 'booking_request'.
   - SUGERIR botones 'suggestedServiceIds': [1, 2].

3. **Gestión de Citas (Consulta, Cancelación, Modificación):**
   - Si el usuario quiere "Consultar", "Cancelar", "Cambiar hora", "Mover cita", "Reprogramar", "Modificar":
   - TU RESPUESTA: "Claro, para gestionar tu cita (consultar, cancelar o modificar), por favor ingresa tu documento en el formulario."
   - INTENT: 'check_appointment' (o 'reschedule' o 'cancellation').
   - NO pidas la cédula por chat.

4. **Contexto Temporal:**
   - HOY es HOY. No agendar para hoy.

CATÁLOGO:
%s

CONTEXTO TEMPORAL OBLIGATORIO:
- HOY es: %s, %s.
- Si el usuario dice "mañana", se refiere al día siguiente a %s.
- REGLA DE ORO: Agendar para "mañana" ESTÁ PERMITIDO. Solo está prohibido agendar para "hoy" (%s).
`,
		clinic.BotName, clinic.Therapist,
		clinic.Therapist,
		clinic.Address, clinic.MapURL,
		catalogJSON,
		strings.ToUpper(dayName), dateLong,
		dayName,
		dayName,
	)
	return b.String()
}
