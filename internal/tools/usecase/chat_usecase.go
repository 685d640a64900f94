package usecase

import (
	"strings"

	apperrors "corpsuite/internal/shared/errors"
)

// ChatUsecase generates support replies for the chat tool. Replies are
// produced as word chunks so transports can stream them incrementally.
type ChatUsecase struct {
	chunkSize int
}

// NewChatUsecase creates a chat usecase.
func NewChatUsecase() *ChatUsecase {
	return &ChatUsecase{chunkSize: 4}
}

var chatTopics = []struct {
	keywords []string
	reply    string
}{
	{
		keywords: []string{"invoice", "billing", "payment", "charge"},
		reply:    "Billing questions are handled under the Finance tool. You can review invoices and payment history there, or reach out to billing support for disputed charges.",
	},
	{
		keywords: []string{"password", "login", "sign in", "account"},
		reply:    "If you cannot sign in, reset your password from the login page. For accounts created through Google or GitHub, use the matching sign-in button instead of a password.",
	},
	{
		keywords: []string{"plan", "subscription", "upgrade", "tier"},
		reply:    "Your subscription plan controls which tools you can access. Basic covers CRM, marketing, analytics and finance; professional and enterprise unlock the rest. You can upgrade from your profile page.",
	},
	{
		keywords: []string{"lead", "crm", "contact", "pipeline"},
		reply:    "Leads live in the CRM tool. Create a lead with a name and email, then move it through new, contacted, qualified and closed as the deal progresses.",
	},
	{
		keywords: []string{"forecast", "sales", "projection"},
		reply:    "The sales forecast tool projects revenue for a product over a monthly, quarterly or yearly horizon. Forecasts require a professional plan or higher.",
	},
}

const chatFallback = "I can help with billing, account access, subscription plans, CRM leads and sales forecasts. Could you tell me a bit more about what you need?"

// Reply answers a support query. An empty query returns an error.
func (uc *ChatUsecase) Reply(query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", apperrors.NewValidationError("query is required")
	}

	lowered := strings.ToLower(query)
	for _, topic := range chatTopics {
		for _, kw := range topic.keywords {
			if strings.Contains(lowered, kw) {
				return topic.reply, nil
			}
		}
	}
	return chatFallback, nil
}

// ReplyChunks answers a query and splits the reply for streaming.
func (uc *ChatUsecase) ReplyChunks(query string) ([]string, error) {
	reply, err := uc.Reply(query)
	if err != nil {
		return nil, err
	}

	words := strings.Fields(reply)
	chunks := make([]string, 0, len(words)/uc.chunkSize+1)
	for i := 0; i < len(words); i += uc.chunkSize {
		end := i + uc.chunkSize
		if end > len(words) {
			end = len(words)
		}
		chunk := strings.Join(words[i:end], " ")
		if end < len(words) {
			chunk += " "
		}
		chunks = append(chunks, chunk)
	}
	return chunks, nil
}
