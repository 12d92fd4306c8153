package chat_test

import (
	"context"
	"strings"
	"testing"

	"github.com/Ryan-gomezzz/Hush-gentle/providers/chat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStubProvider_KeywordRules(t *testing.T) {
	p := chat.NewStubProvider()

	cases := []struct {
		message string
		prefix  string
	}{
		{"My HEELS are cracked", "For cracked heels"},
		{"anything for tired feet?", "For cracked heels"},
		{"I get a rash easily", "If your skin is sensitive"},
		{"is this irritating?", "If your skin is sensitive"},
		{"what ingredients do you use", "We keep ingredients simple"},
		{"cruelty free?", "We keep ingredients simple"},
		{"need a deodorant", "For everyday underarm comfort"},
		// the foot rule is checked before the sensitive rule
		{"sensitive foot skin", "For cracked heels"},
	}
	for _, tc := range cases {
		reply, err := p.Reply(context.Background(), chat.ReplyInput{Message: tc.message})
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(reply, tc.prefix), "%q -> %q", tc.message, reply)
	}
}

func TestStubProvider_GenericReply(t *testing.T) {
	p := chat.NewStubProvider()

	reply, err := p.Reply(context.Background(), chat.ReplyInput{Message: "hello"})
	require.NoError(t, err)
	assert.Contains(t, reply, "hands / feet / face / body")

	products := []chat.ProductHint{
		{Name: "Foot Butter"}, {Name: "Hand Cream"}, {Name: "Body Oil"},
		{Name: "Lip Balm"}, {Name: "Face Mist"},
	}
	reply, err = p.Reply(context.Background(), chat.ReplyInput{Message: "hello", Products: products})
	require.NoError(t, err)
	assert.Contains(t, reply, "A few popular gentle picks are: Foot Butter, Hand Cream, Body Oil, Lip Balm.")
	assert.NotContains(t, reply, "Face Mist")
	assert.True(t, strings.HasPrefix(reply, "I’m here to help you choose calmly and confidently. "))
}

func TestNew_DefaultsToStub(t *testing.T) {
	assert.Equal(t, "stub", chat.New("").Name())
	assert.Equal(t, "stub", chat.New("openai").Name())
}
