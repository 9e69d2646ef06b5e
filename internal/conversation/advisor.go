package conversation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/glowcart/sales-agent/internal/order"
	"github.com/glowcart/sales-agent/pkg/logging"
)

const defaultSystemPrompt = "You are a friendly sales representative for Body Na MeatPie Skincare Store. " +
	"Answer product questions about skincare items such as serums, creams, soaps, and oils. " +
	"Recommend products for the customer's skin concerns, state prices in naira, and keep replies short and warm. " +
	"When a customer wants to buy, quote the total amount clearly, for example: Your total comes to ₦15,000. " +
	"Never invent medical claims and never ask for payment card details in chat."

var advisorTracer = otel.Tracer("salesagent.internal.conversation.advisor")

// Advisor produces product-advice replies from the configured LLM provider,
// feeding it the order transcript as conversation history.
type Advisor struct {
	client  LLMClient
	timeout time.Duration
	logger  *logging.Logger
}

// NewAdvisor creates an advisor over the given LLM client.
func NewAdvisor(client LLMClient, timeout time.Duration, logger *logging.Logger) *Advisor {
	if client == nil {
		panic("conversation: llm client required")
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Advisor{client: client, timeout: timeout, logger: logger}
}

// Advise generates a reply to the customer's latest message given the prior
// transcript. The transcript must not yet include the latest message.
func (a *Advisor) Advise(ctx context.Context, o *order.Order, message string) (string, error) {
	ctx, span := advisorTracer.Start(ctx, "conversation.advise")
	defer span.End()
	span.SetAttributes(attribute.String("salesagent.customer_id", o.CustomerID))

	messages := make([]ChatMessage, 0, len(o.Transcript)+1)
	for _, turn := range o.Transcript {
		role := ChatRoleUser
		if turn.Speaker == order.SpeakerAgent {
			role = ChatRoleAssistant
		}
		messages = append(messages, ChatMessage{Role: role, Content: turn.Text})
	}
	messages = append(messages, ChatMessage{Role: ChatRoleUser, Content: message})

	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	resp, err := a.client.Complete(callCtx, LLMRequest{
		System:      []string{defaultSystemPrompt},
		Messages:    messages,
		Temperature: 0.7,
	})
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("conversation: advisory generation failed: %w", err)
	}
	return strings.TrimSpace(resp.Text), nil
}
