package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"google.golang.org/genai"
)

const (
	// AdviceUnavailable is returned when the model answers with nothing.
	AdviceUnavailable = "No pude generar un consejo en este momento."
	// AdviceFailed is returned when the model cannot be reached.
	AdviceFailed = "Lo siento, hubo un error conectando con tu coach financiero virtual."

	defaultAdviceModel = "gemini-2.5-flash"
)

const adviceSystemInstruction = `Actúa como un experto financiero de clase mundial que combina las filosofías de "Los Secretos de la Mente Millonaria" (T. Harv Eker) y "Padre Rico, Padre Pobre" (Robert Kiyosaki).

Tus principios clave son:
1. El sistema de los 6 jarrones: 55% Necesidades, 10% Libertad Financiera (FFA), 10% Ahorro Largo Plazo, 10% Educación, 10% Juego, 5% Dar.
2. La diferencia entre Activos (ponen dinero en tu bolsillo) y Pasivos (sacan dinero de tu bolsillo).
3. El objetivo final es salir de la "Carrera de la Rata" aumentando el Flujo de Caja de los Activos para superar los Gastos Totales.
4. La mentalidad es clave. Habla con autoridad pero motivación.

Analiza los datos financieros proporcionados y da consejos breves, directos y accionables. Usa formato Markdown.`

// AdviceContext is the read-only snapshot the coach sees. Amounts are in
// Currency.
type AdviceContext struct {
	UserName         string
	Currency         string
	FreedomBalance   decimal.Decimal
	TotalAssets      decimal.Decimal
	PassiveCashflow  decimal.Decimal
	TotalLiabilities decimal.Decimal
	DebtPayments     decimal.Decimal
}

// String renders the context block sent with every prompt.
func (c AdviceContext) String() string {
	var b strings.Builder
	b.WriteString("Estado Financiero Actual:\n")
	fmt.Fprintf(&b, "- Usuario: %s\n", c.UserName)
	fmt.Fprintf(&b, "- Total en Jarra Libertad Financiera: $%s %s\n", c.FreedomBalance.StringFixed(2), c.Currency)
	fmt.Fprintf(&b, "- Total Activos: $%s %s\n", c.TotalAssets.StringFixed(2), c.Currency)
	fmt.Fprintf(&b, "- Flujo de Caja Mensual (Pasivo): $%s %s\n", c.PassiveCashflow.StringFixed(2), c.Currency)
	fmt.Fprintf(&b, "- Total Pasivos (Deuda): $%s %s\n", c.TotalLiabilities.StringFixed(2), c.Currency)
	fmt.Fprintf(&b, "- Pago Mensual de Deuda: $%s %s\n", c.DebtPayments.StringFixed(2), c.Currency)
	return b.String()
}

// BuildAdvicePrompt combines the context with the user's question, or asks for
// three general tips when there is none.
func BuildAdvicePrompt(c AdviceContext, question string) string {
	question = strings.TrimSpace(question)
	if question != "" {
		return fmt.Sprintf("Pregunta del usuario: %q.\nContexto: %s", question, c)
	}
	return fmt.Sprintf("Analiza mi situación actual basada en el contexto y dame 3 consejos clave para mejorar mi riqueza hoy mismo.\nContexto: %s", c)
}

// AdviceService asks a Gemini model for coaching through the genai SDK.
type AdviceService struct {
	client *genai.Client
	model  string
	config *genai.GenerateContentConfig
}

// NewAdviceService builds a Gemini API client. baseURL overrides the SDK's
// default endpoint and may be empty.
func NewAdviceService(ctx context.Context, baseURL, apiKey, model string) (*AdviceService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("advice API key is required")
	}
	if model == "" {
		model = defaultAdviceModel
	}

	cc := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cc.HTTPOptions.BaseURL = baseURL
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &AdviceService{
		client: client,
		model:  model,
		config: &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(adviceSystemInstruction, genai.RoleUser),
			Temperature:       genai.Ptr[float32](0.7),
		},
	}, nil
}

// GetAdvice asks the model for coaching. It never fails: any error becomes
// AdviceFailed and an empty answer becomes AdviceUnavailable.
func (s *AdviceService) GetAdvice(ctx context.Context, c AdviceContext, question string) string {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	resp, err := s.client.Models.GenerateContent(ctx, s.model, genai.Text(BuildAdvicePrompt(c, question)), s.config)
	if err != nil {
		slog.Error("failed to fetch financial advice", "model", s.model, "error", err)
		return AdviceFailed
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		slog.Warn("advice model returned no text", "model", s.model)
		return AdviceUnavailable
	}
	return text
}
