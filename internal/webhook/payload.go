// Package webhook normalizes WhatsApp Cloud API webhook deliveries into
// domain events and publishes them on the bus.
package webhook

// Payload is the top-level webhook delivery body.
type Payload struct {
	Object string  `json:"object"`
	Entry  []Entry `json:"entry"`
}

type Entry struct {
	ID      string   `json:"id"`
	Changes []Change `json:"changes"`
}

type Change struct {
	Value Value  `json:"value"`
	Field string `json:"field"`
}

type Value struct {
	Contacts         []Contact `json:"contacts,omitempty"`
	Messages         []Message `json:"messages,omitempty"`
	MessagingProduct string    `json:"messaging_product"`
	Metadata         *Metadata `json:"metadata,omitempty"`
}

type Contact struct {
	Profile ContactProfile `json:"profile"`
	WAID    string         `json:"wa_id"`
}

type ContactProfile struct {
	Name string `json:"name"`
}

type Metadata struct {
	DisplayPhoneNumber string `json:"display_phone_number,omitempty"`
	PhoneNumberID      string `json:"phone_number_id"`
}

// Message is one inbound message. Exactly one of the content fields is
// populated, selected by Type.
type Message struct {
	ID          string              `json:"id"`
	From        string              `json:"from"`
	Timestamp   string              `json:"timestamp"`
	Type        string              `json:"type"`
	Text        *TextContent        `json:"text,omitempty"`
	Image       *MediaContent       `json:"image,omitempty"`
	Audio       *MediaContent       `json:"audio,omitempty"`
	Video       *MediaContent       `json:"video,omitempty"`
	Document    *MediaContent       `json:"document,omitempty"`
	Sticker     *MediaContent       `json:"sticker,omitempty"`
	Location    *LocationContent    `json:"location,omitempty"`
	Contact     []ContactContent    `json:"contact,omitempty"`
	Interactive *InteractiveContent `json:"interactive,omitempty"`
	Error       []MessageError      `json:"error,omitempty"`
}

type TextContent struct {
	Body string `json:"body"`
}

// MediaContent covers image, audio, video, document, and sticker bodies;
// they all carry the same shape on the wire.
type MediaContent struct {
	ID       string `json:"id,omitempty"`
	MimeType string `json:"mime_type"`
	SHA256   string `json:"sha256"`
	Caption  string `json:"caption,omitempty"`
	Filename string `json:"filename,omitempty"`
}

type LocationContent struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Name      string  `json:"name,omitempty"`
	Address   string  `json:"address,omitempty"`
}

type ContactContent struct {
	Name   ContactNameContent `json:"name"`
	Phones []ContactPhone     `json:"phones,omitempty"`
}

type ContactNameContent struct {
	FormattedName string `json:"formatted_name"`
}

type ContactPhone struct {
	Phone string `json:"phone"`
	WAID  string `json:"wa_id,omitempty"`
}

// InteractiveContent carries exactly one of ButtonReply or ListReply,
// selected by Type.
type InteractiveContent struct {
	Type        string              `json:"type"`
	ButtonReply *ButtonReplyContent `json:"button_reply,omitempty"`
	ListReply   *ListReplyContent   `json:"list_reply,omitempty"`
}

type ButtonReplyContent struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type ListReplyContent struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

type MessageError struct {
	Code        uint32 `json:"code"`
	Title       string `json:"title"`
	Description string `json:"description"`
}
