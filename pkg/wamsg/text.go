package wamsg

import "github.com/chris-alexander-pop/system-design-library/pkg/wamsg/validate"

// TextMessage is a plain text message, optionally with link preview.
type TextMessage struct {
	MessagingProduct string      `json:"messaging_product"`
	RecipientType    string      `json:"recipient_type"`
	To               string      `json:"to"`
	Type             string      `json:"type"`
	Text             textContent `json:"text"`
}

type textContent struct {
	Body       string `json:"body"`
	PreviewURL *bool  `json:"preview_url,omitempty"`
}

func (m *TextMessage) Recipient() string   { return m.To }
func (m *TextMessage) MessageType() string { return "text" }

// NewText builds a text message with no link preview setting.
func NewText(to, body string) (*TextMessage, error) {
	if err := validate.Phone(to); err != nil {
		return nil, err
	}
	if err := validate.TextBody(body); err != nil {
		return nil, err
	}
	return &TextMessage{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               to,
		Type:             "text",
		Text:             textContent{Body: body},
	}, nil
}

// NewTextWithPreview builds a text message with link preview explicitly
// enabled or disabled.
func NewTextWithPreview(to, body string, preview bool) (*TextMessage, error) {
	m, err := NewText(to, body)
	if err != nil {
		return nil, err
	}
	m.Text.PreviewURL = &preview
	return m, nil
}
