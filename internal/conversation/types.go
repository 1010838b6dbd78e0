package conversation

// ChatRole identifies who produced a chat message.
type ChatRole string

const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
	ChatRoleSystem    ChatRole = "system"
)

// ChatMessage is one turn in a patient conversation.
type ChatMessage struct {
	Role    ChatRole `json:"role"`
	Content string   `json:"content"`
}

// Intent is the classified purpose of a patient message.
type Intent string

const (
	IntentGreeting         Intent = "greeting"
	IntentSymptomAnalysis  Intent = "symptom_analysis"
	IntentShowAllServices  Intent = "show_all_services"
	IntentBookingRequest   Intent = "booking_request"
	IntentCancellation     Intent = "cancellation"
	IntentPriceInquiry     Intent = "price_inquiry"
	IntentGeneral          Intent = "general"
	IntentInvoiceAnalysis  Intent = "invoice_analysis"
	IntentCheckAppointment Intent = "check_appointment"
	IntentRevenueReport    Intent = "revenue_report"
	IntentReschedule       Intent = "reschedule"
)

// InvoiceData is the amount and date extracted from an invoice photo.
type InvoiceData struct {
	Amount float64 `json:"amount"`
	Date   string  `json:"date"`
}

// IntentResult is the structured assistant reply.
type IntentResult struct {
	Message             string       `json:"message"`
	Intent              Intent       `json:"intent"`
	SuggestedServiceIDs []int        `json:"suggestedServiceIds,omitempty"`
	Invoice             *InvoiceData `json:"extractedInvoiceData,omitempty"`
}
