package conversation

import (
	"context"

	"go.opentelemetry.io/otel"

	"github.com/gonbot/fisio-scheduler/pkg/logging"
)

var conversationTracer = otel.Tracer("fisio.internal.conversation")

const fallbackMessage = "Lo siento, tuve un problema técnico momentáneo. ¿Podrías intentarlo de nuevo?"

// ReportRenderer produces the revenue summary shown when the owner
// asks for it in chat.
type ReportRenderer interface {
	RenderRevenue(ctx context.Context) (string, error)
}

// Service runs the chat loop: load history, classify, enrich
// server-side intents, persist the new turns.
type Service struct {
	classifier IntentClassifier
	history    *HistoryStore
	reports    ReportRenderer
	logger     *logging.Logger
}

// NewService creates the conversation service. reports may be nil when
// the revenue intent is disabled.
func NewService(classifier IntentClassifier, history *HistoryStore, reports ReportRenderer, logger *logging.Logger) *Service {
	if classifier == nil {
		panic("conversation: classifier required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{classifier: classifier, history: history, reports: reports, logger: logger}
}

// HandleMessage processes one inbound patient message and returns the
// structured assistant reply. A classifier failure degrades to a retry
// prompt instead of an error so the chat never hard-fails.
func (s *Service) HandleMessage(ctx context.Context, patientID, message, imageBase64 string) (IntentResult, error) {
	ctx, span := conversationTracer.Start(ctx, "conversation.handle_message")
	defer span.End()

	var history []ChatMessage
	if s.history != nil && patientID != "" {
		var err error
		history, err = s.history.Load(ctx, patientID)
		if err != nil {
			s.logger.Error("failed to load chat history", "patient_id", patientID, "error", err)
			history = nil
		}
	}

	result, err := s.classifier.Classify(ctx, history, message, imageBase64)
	if err != nil {
		span.RecordError(err)
		s.logger.Error("intent classification failed", "error", err)
		result = IntentResult{Message: fallbackMessage, Intent: IntentGeneral}
	}

	if result.Intent == IntentRevenueReport && s.reports != nil {
		summary, err := s.reports.RenderRevenue(ctx)
		if err != nil {
			s.logger.Error("revenue report failed", "error", err)
			summary = "No pude generar el reporte en este momento. Intenta de nuevo más tarde."
		}
		result.Message = summary
	}

	s.logger.Info("message classified", "intent", string(result.Intent), "patient_id", patientID)

	if s.history != nil && patientID != "" {
		history = append(history,
			ChatMessage{Role: ChatRoleUser, Content: message},
			ChatMessage{Role: ChatRoleAssistant, Content: result.Message},
		)
		if err := s.history.Save(ctx, patientID, history); err != nil {
			s.logger.Error("failed to save chat history", "patient_id", patientID, "error", err)
		}
	}

	return result, nil
}
