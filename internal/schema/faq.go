package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FAQItem is one question of a FAQPage.
type FAQItem struct {
	Question string
	Answer   string
}

type faqPage struct {
	Context    string        `json:"@context"`
	Type       string        `json:"@type"`
	MainEntity []faqQuestion `json:"mainEntity"`
}

type faqQuestion struct {
	Type           string    `json:"@type"`
	Name           string    `json:"name"`
	AcceptedAnswer faqAnswer `json:"acceptedAnswer"`
}

type faqAnswer struct {
	Type string `json:"@type"`
	Text string `json:"text"`
}

// FAQ builds a FAQPage schema from items.
func FAQ(items []FAQItem) json.RawMessage {
	page := faqPage{
		Context:    "https://schema.org",
		Type:       "FAQPage",
		MainEntity: make([]faqQuestion, 0, len(items)),
	}
	for _, it := range items {
		page.MainEntity = append(page.MainEntity, faqQuestion{
			Type:           "Question",
			Name:           it.Question,
			AcceptedAnswer: faqAnswer{Type: "Answer", Text: it.Answer},
		})
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(page)
	return bytes.TrimSpace(buf.Bytes())
}

// FAQFromJSON reads FAQ items from a list of objects or from an object
// with a "faqs" list. Each object uses question/answer or q/a keys.
func FAQFromJSON(data []byte) (json.RawMessage, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse faq json: %w", err)
	}

	var list []any
	switch v := raw.(type) {
	case []any:
		list = v
	case map[string]any:
		faqs, ok := v["faqs"].([]any)
		if !ok {
			return nil, ErrFAQFormat
		}
		list = faqs
	default:
		return nil, ErrFAQFormat
	}

	items := make([]FAQItem, 0, len(list))
	for _, entry := range list {
		obj, ok := entry.(map[string]any)
		if !ok {
			return nil, ErrFAQFormat
		}
		items = append(items, FAQItem{
			Question: firstString(obj, "question", "q"),
			Answer:   firstString(obj, "answer", "a"),
		})
	}
	return FAQ(items), nil
}

// DefaultFAQ is the sample FAQPage used when no FAQ file is given.
func DefaultFAQ() json.RawMessage {
	return FAQ([]FAQItem{
		{
			Question: "How does this tool work?",
			Answer:   "Enter the required data and get the result instantly.",
		},
		{
			Question: "Is the service free?",
			Answer:   "Yes, all tools are completely free.",
		},
	})
}

func firstString(obj map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := obj[k].(string); ok {
			return s
		}
	}
	return ""
}
