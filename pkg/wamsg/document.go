package wamsg

import "github.com/chris-alexander-pop/system-design-library/pkg/wamsg/validate"

// DocumentMessage references a document attachment by uploaded media id or
// url, with an optional caption and display filename.
type DocumentMessage struct {
	MessagingProduct string    `json:"messaging_product"`
	RecipientType    string    `json:"recipient_type"`
	To               string    `json:"to"`
	Type             string    `json:"type"`
	Document         mediaBody `json:"document"`
}

func (m *DocumentMessage) Recipient() string   { return m.To }
func (m *DocumentMessage) MessageType() string { return "document" }

// NewDocumentFromMediaID builds a document message referencing uploaded media.
func NewDocumentFromMediaID(to, mediaID string) (*DocumentMessage, error) {
	if err := validate.Phone(to); err != nil {
		return nil, err
	}
	if err := validate.MediaID(mediaID); err != nil {
		return nil, err
	}
	return &DocumentMessage{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               to,
		Type:             "document",
		Document:         mediaBody{ID: mediaID},
	}, nil
}

// NewDocumentFromURL builds a document message referencing a hosted file.
func NewDocumentFromURL(to, url string) (*DocumentMessage, error) {
	if err := validate.Phone(to); err != nil {
		return nil, err
	}
	if err := validate.URL(url); err != nil {
		return nil, err
	}
	return &DocumentMessage{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               to,
		Type:             "document",
		Document:         mediaBody{Link: url},
	}, nil
}

// WithMediaID switches the message to reference uploaded media, clearing any
// previously set url.
func (m *DocumentMessage) WithMediaID(mediaID string) error {
	if err := validate.MediaID(mediaID); err != nil {
		return err
	}
	m.Document.setID(mediaID)
	return nil
}

// WithURL sets the url only if no media id is already set.
func (m *DocumentMessage) WithURL(url string) error {
	if err := validate.URL(url); err != nil {
		return err
	}
	m.Document.setURLIfUnset(url)
	return nil
}

// WithCaption attaches an optional caption to the document.
func (m *DocumentMessage) WithCaption(caption string) error {
	if err := validateCaption(caption); err != nil {
		return err
	}
	m.Document.Caption = caption
	return nil
}

// WithFilename sets the display filename shown to the recipient.
func (m *DocumentMessage) WithFilename(filename string) error {
	if filename == "" {
		return nil
	}
	m.Document.Filename = filename
	return nil
}
