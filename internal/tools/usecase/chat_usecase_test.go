package usecase

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatReply_MatchesTopics(t *testing.T) {
	uc := NewChatUsecase()

	cases := []struct {
		query    string
		contains string
	}{
		{"How do I pay my invoice?", "Billing"},
		{"I forgot my password", "reset your password"},
		{"Can I upgrade my plan?", "subscription plan"},
		{"How do I add a lead to the pipeline?", "CRM tool"},
		{"Show me the sales forecast", "sales forecast tool"},
	}

	for _, tc := range cases {
		reply, err := uc.Reply(tc.query)
		require.NoError(t, err, tc.query)
		assert.Contains(t, reply, tc.contains, tc.query)
	}
}

func TestChatReply_FallbackAndValidation(t *testing.T) {
	uc := NewChatUsecase()

	reply, err := uc.Reply("what is the weather like")
	require.NoError(t, err)
	assert.Equal(t, chatFallback, reply)

	_, err = uc.Reply("   ")
	assert.Error(t, err)
}

func TestChatReplyChunks_ReassembleToFullReply(t *testing.T) {
	uc := NewChatUsecase()

	reply, err := uc.Reply("question about billing")
	require.NoError(t, err)

	chunks, err := uc.ReplyChunks("question about billing")
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	assert.Equal(t, reply, strings.Join(chunks, ""))
	for _, chunk := range chunks[:len(chunks)-1] {
		assert.True(t, strings.HasSuffix(chunk, " "))
	}
}
