package chat

import (
	"context"
	"strings"
)

const maxSuggestedProducts = 4

type rule struct {
	keywords []string
	reply    string
}

// first match wins
var rules = []rule{
	{
		keywords: []string{"cracked heel", "cracked heels", "heel", "feet", "foot"},
		reply: "For cracked heels or very dry feet, a richer foot-repair style balm is usually the most comforting. " +
			"If you want something gentle for a nightly routine, look for a foot balm or foot butter and apply it before bed (cotton socks help). " +
			"If you’re unsure, tell me how dry your feet feel (mild / moderate / very dry) and I’ll suggest a simple pick.",
	},
	{
		keywords: []string{"sensitive", "irritat", "allergy", "rash"},
		reply: "If your skin is sensitive, the calm approach is to choose minimal formulas and patch-test first. " +
			"Hush Gentle products are designed to be skin-respecting (no harsh chemicals, everyday-friendly). " +
			"If you share what you’re reacting to (dryness, deodorant irritation, fragrance sensitivity), I can guide you to the gentlest option.",
	},
	{
		keywords: []string{"organic", "cruelty", "chemical", "chemicals", "ingredients"},
		reply: "We keep ingredients simple and transparent: organic butters, cold-pressed oils, vitamin E, and gentle essential oils. " +
			"No harsh chemicals, and cruelty-free. If you tell me which product you’re looking at, I can explain the ingredients in plain language.",
	},
	{
		keywords: []string{"deodorant", "underarm", "odor"},
		reply: "For everyday underarm comfort, a gentle deodorant cream can be a good option, especially if you prefer a softer feel over strong fragrance. " +
			"Start with a pea-sized amount and see how your skin responds. If you have very sensitive underarms, patch-test first.",
	},
}

// StubProvider answers from fixed keyword rules. It never makes medical claims.
type StubProvider struct{}

func NewStubProvider() *StubProvider {
	return &StubProvider{}
}

func (p *StubProvider) Name() string { return ProviderStub }

func (p *StubProvider) Reply(_ context.Context, in ReplyInput) (string, error) {
	msg := strings.ToLower(in.Message)
	for _, r := range rules {
		if containsAny(msg, r.keywords) {
			return r.reply, nil
		}
	}

	suggestions := "You can share what you’re looking for (hands / feet / face / body) and I’ll suggest a gentle match."
	if len(in.Products) > 0 {
		names := make([]string, 0, maxSuggestedProducts)
		for _, product := range in.Products {
			if len(names) == maxSuggestedProducts {
				break
			}
			names = append(names, product.Name)
		}
		suggestions = "A few popular gentle picks are: " + strings.Join(names, ", ") + "."
	}

	return "I’m here to help you choose calmly and confidently. " + suggestions +
		" No medical claims, just simple, practical guidance.", nil
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}
