package chat

import (
	"context"
	"strings"
)

// Context is the page the shopper was on when they asked.
type Context struct {
	Path        string `json:"path,omitempty"`
	ProductSlug string `json:"productSlug,omitempty"`
}

// ProductHint is the catalog slice offered to the assistant for suggestions.
type ProductHint struct {
	Name         string  `json:"name"`
	Slug         string  `json:"slug"`
	ShortBenefit *string `json:"short_benefit"`
}

type ReplyInput struct {
	Message  string
	Context  *Context
	Products []ProductHint
}

type Provider interface {
	Name() string
	Reply(ctx context.Context, in ReplyInput) (string, error)
}

const ProviderStub = "stub"

// New returns the assistant registered under name. Unknown names get the rule-based stub.
func New(name string) Provider {
	if p, ok := registry[strings.ToLower(strings.TrimSpace(name))]; ok {
		return p()
	}
	return NewStubProvider()
}

var registry = map[string]func() Provider{
	ProviderStub: func() Provider { return NewStubProvider() },
}
