package conversation

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/gonbot/fisio-scheduler/internal/catalog"
)

// IntentClassifier turns a patient message plus its conversation
// history into a structured reply.
type IntentClassifier interface {
	Classify(ctx context.Context, history []ChatMessage, message, imageBase64 string) (IntentResult, error)
}

// GeminiClassifier classifies messages with Gemini, constrained to a
// JSON response schema so the reply always parses.
type GeminiClassifier struct {
	client  *genai.Client
	modelID string
	clinic  ClinicInfo
	catalog *catalog.Catalog
	now     func() time.Time
}

var intentSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"message": {Type: genai.TypeString},
		"intent": {
			Type: genai.TypeString,
			Enum: []string{
				"greeting", "symptom_analysis", "show_all_services",
				"booking_request", "cancellation", "price_inquiry",
				"general", "invoice_analysis", "check_appointment",
				"revenue_report", "reschedule",
			},
		},
		"suggestedServiceIds": {
			Type:  genai.TypeArray,
			Items: &genai.Schema{Type: genai.TypeInteger},
		},
		"extractedInvoiceData": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"amount": {Type: genai.TypeNumber},
				"date":   {Type: genai.TypeString},
			},
		},
	},
	Required: []string{"message", "intent"},
}

// NewGeminiClassifier creates a Gemini-backed classifier.
func NewGeminiClassifier(ctx context.Context, apiKey, modelID string, clinic ClinicInfo, cat *catalog.Catalog) (*GeminiClassifier, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("conversation: gemini api key is required")
	}
	if strings.TrimSpace(modelID) == "" {
		modelID = "gemini-2.5-flash"
	}
	if cat == nil {
		cat = catalog.Default()
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("conversation: create gemini client: %w", err)
	}

	return &GeminiClassifier{
		client:  client,
		modelID: modelID,
		clinic:  clinic,
		catalog: cat,
		now:     time.Now,
	}, nil
}

// Classify sends the message through Gemini and decodes the structured
// reply.
func (c *GeminiClassifier) Classify(ctx context.Context, history []ChatMessage, message, imageBase64 string) (IntentResult, error) {
	model := c.client.GenerativeModel(c.modelID)
	model.SetTemperature(0.2)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = intentSchema
	model.SystemInstruction = genai.NewUserContent(genai.Text(systemInstruction(c.clinic, c.catalog, c.now())))

	cs := model.StartChat()
	for _, msg := range history {
		content := strings.TrimSpace(msg.Content)
		if content == "" || msg.Role == ChatRoleSystem {
			continue
		}
		role := "user"
		if msg.Role == ChatRoleAssistant {
			role = "model"
		}
		cs.History = append(cs.History, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(content)},
		})
	}

	var parts []genai.Part
	if imageBase64 != "" {
		data, err := decodeImage(imageBase64)
		if err != nil {
			return IntentResult{}, err
		}
		parts = append(parts,
			genai.Blob{MIMEType: "image/jpeg", Data: data},
			genai.Text("Analiza esta imagen. Si es una factura médica, extrae el monto total y la fecha."),
		)
	}
	if message != "" {
		parts = append(parts, genai.Text(message))
	}
	if len(parts) == 0 {
		return IntentResult{}, errors.New("conversation: empty message")
	}

	resp, err := cs.SendMessage(ctx, parts...)
	if err != nil {
		return IntentResult{}, fmt.Errorf("conversation: gemini request failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return IntentResult{}, errors.New("conversation: gemini returned no candidates")
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text.WriteString(string(t))
		}
	}

	var result IntentResult
	if err := json.Unmarshal([]byte(text.String()), &result); err != nil {
		return IntentResult{}, fmt.Errorf("conversation: decode gemini reply: %w", err)
	}
	if result.Intent == "" {
		result.Intent = IntentGeneral
	}
	return result, nil
}

// Close releases the underlying client.
func (c *GeminiClassifier) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

func decodeImage(imageBase64 string) ([]byte, error) {
	// Data URLs carry a "data:image/jpeg;base64," prefix.
	if i := strings.Index(imageBase64, ","); i >= 0 {
		imageBase64 = imageBase64[i+1:]
	}
	data, err := base64.StdEncoding.DecodeString(imageBase64)
	if err != nil {
		return nil, fmt.Errorf("conversation: decode image: %w", err)
	}
	return data, nil
}
