package wamsg

import (
	"encoding/json"

	"github.com/chris-alexander-pop/system-design-library/pkg/errors"
	"github.com/chris-alexander-pop/system-design-library/pkg/wamsg/validate"
)

// InteractiveMessage is a structured message carrying reply buttons, a
// list, a call-to-action url, or a location request. Exactly one of those
// actions is set per message.
type InteractiveMessage struct {
	MessagingProduct string             `json:"messaging_product"`
	RecipientType    string             `json:"recipient_type"`
	To               string             `json:"to"`
	Type             string             `json:"type"`
	Interactive      interactiveContent `json:"interactive"`
}

func (m *InteractiveMessage) Recipient() string   { return m.To }
func (m *InteractiveMessage) MessageType() string { return "interactive" }

type interactiveContent struct {
	InteractiveType string             `json:"type"`
	Header          *InteractiveHeader `json:"header,omitempty"`
	Body            InteractiveBody    `json:"body"`
	Footer          *InteractiveFooter `json:"footer,omitempty"`

	buttons         []InteractiveButton
	listButton      string
	listSections    []InteractiveListSection
	ctaName         string
	ctaParameters   *CtaURLParameters
	locationReqName string
}

type InteractiveHeader struct {
	Type     string          `json:"type"`
	Text     string          `json:"text,omitempty"`
	Image    *MediaReference `json:"image,omitempty"`
	Video    *MediaReference `json:"video,omitempty"`
	Document *MediaReference `json:"document,omitempty"`
}

type InteractiveBody struct {
	Text string `json:"text"`
}

type InteractiveFooter struct {
	Text string `json:"text"`
}

type InteractiveButton struct {
	Type  string      `json:"type"`
	Reply ButtonReply `json:"reply"`
}

type ButtonReply struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type InteractiveListSection struct {
	Title string               `json:"title"`
	Rows  []InteractiveListRow `json:"rows"`
}

type InteractiveListRow struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

type CtaURLParameters struct {
	DisplayText string `json:"display_text"`
	URL         string `json:"url"`
}

func (c interactiveContent) MarshalJSON() ([]byte, error) {
	type alias struct {
		InteractiveType string             `json:"type"`
		Header          *InteractiveHeader `json:"header,omitempty"`
		Body            InteractiveBody    `json:"body"`
		Footer          *InteractiveFooter `json:"footer,omitempty"`
		Action          json.RawMessage    `json:"action"`
	}

	var action interface{}
	switch c.InteractiveType {
	case "button":
		action = struct {
			Buttons []InteractiveButton `json:"buttons"`
		}{c.buttons}
	case "list":
		action = struct {
			Button   string                   `json:"button"`
			Sections []InteractiveListSection `json:"sections"`
		}{c.listButton, c.listSections}
	case "cta_url":
		action = struct {
			Name       string           `json:"name"`
			Parameters CtaURLParameters `json:"parameters"`
		}{c.ctaName, *c.ctaParameters}
	case "location_request_message":
		action = struct {
			Name string `json:"name"`
		}{c.locationReqName}
	default:
		return nil, errors.InvalidArgument("unknown interactive action type: "+c.InteractiveType, nil)
	}

	actionBytes, err := json.Marshal(action)
	if err != nil {
		return nil, err
	}

	return json.Marshal(alias{
		InteractiveType: c.InteractiveType,
		Header:          c.Header,
		Body:            c.Body,
		Footer:          c.Footer,
		Action:          actionBytes,
	})
}

func (c *interactiveContent) UnmarshalJSON(b []byte) error {
	var wire struct {
		InteractiveType string             `json:"type"`
		Header          *InteractiveHeader `json:"header,omitempty"`
		Body            InteractiveBody    `json:"body"`
		Footer          *InteractiveFooter `json:"footer,omitempty"`
		Action          json.RawMessage    `json:"action"`
	}
	if err := json.Unmarshal(b, &wire); err != nil {
		return err
	}
	c.InteractiveType = wire.InteractiveType
	c.Header = wire.Header
	c.Body = wire.Body
	c.Footer = wire.Footer

	switch wire.InteractiveType {
	case "button":
		var action struct {
			Buttons []InteractiveButton `json:"buttons"`
		}
		if err := json.Unmarshal(wire.Action, &action); err != nil {
			return err
		}
		c.buttons = action.Buttons
	case "list":
		var action struct {
			Button   string                   `json:"button"`
			Sections []InteractiveListSection `json:"sections"`
		}
		if err := json.Unmarshal(wire.Action, &action); err != nil {
			return err
		}
		c.listButton = action.Button
		c.listSections = action.Sections
	case "cta_url":
		var action struct {
			Name       string           `json:"name"`
			Parameters CtaURLParameters `json:"parameters"`
		}
		if err := json.Unmarshal(wire.Action, &action); err != nil {
			return err
		}
		c.ctaName = action.Name
		c.ctaParameters = &action.Parameters
	case "location_request_message":
		var action struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(wire.Action, &action); err != nil {
			return err
		}
		c.locationReqName = action.Name
	default:
		return errors.InvalidArgument("unknown interactive action type: "+wire.InteractiveType, nil)
	}
	return nil
}

// NewInteractiveButtons builds an interactive message offering 1-3 reply
// buttons. A 4th button is rejected rather than silently dropped.
func NewInteractiveButtons(to, bodyText string, buttons []ButtonReply) (*InteractiveMessage, error) {
	if err := validate.Phone(to); err != nil {
		return nil, err
	}
	if err := validate.TextBody(bodyText); err != nil {
		return nil, err
	}
	if len(buttons) == 0 || len(buttons) > 3 {
		return nil, errors.InvalidArgument("interactive messages must have 1-3 buttons", nil)
	}
	built := make([]InteractiveButton, 0, len(buttons))
	for _, btn := range buttons {
		if err := validate.ButtonID(btn.ID); err != nil {
			return nil, err
		}
		if err := validate.ButtonTitle(btn.Title); err != nil {
			return nil, err
		}
		built = append(built, InteractiveButton{Type: "reply", Reply: btn})
	}
	return newInteractive(to, interactiveContent{
		InteractiveType: "button",
		Body:            InteractiveBody{Text: bodyText},
		buttons:         built,
	}), nil
}

// NewInteractiveList builds a list message: up to 10 sections, up to 10
// rows total across all sections.
func NewInteractiveList(to, bodyText, buttonText string, sections []InteractiveListSection) (*InteractiveMessage, error) {
	if err := validate.Phone(to); err != nil {
		return nil, err
	}
	if err := validate.TextBody(bodyText); err != nil {
		return nil, err
	}
	if err := validate.ButtonTitle(buttonText); err != nil {
		return nil, err
	}
	if len(sections) == 0 || len(sections) > 10 {
		return nil, errors.InvalidArgument("list messages must have 1-10 sections", nil)
	}
	totalRows := 0
	for _, section := range sections {
		if err := validate.ListRowTitle(section.Title); err != nil {
			return nil, err
		}
		if len(section.Rows) == 0 {
			return nil, errors.InvalidArgument("list sections must have at least one row", nil)
		}
		totalRows += len(section.Rows)
		for _, row := range section.Rows {
			if err := validate.ListRowTitle(row.Title); err != nil {
				return nil, err
			}
			if err := validate.ListRowDescription(row.Description); err != nil {
				return nil, err
			}
		}
	}
	if totalRows > 10 {
		return nil, errors.InvalidArgument("list messages can have at most 10 total rows", nil)
	}
	return newInteractive(to, interactiveContent{
		InteractiveType: "list",
		Body:            InteractiveBody{Text: bodyText},
		listButton:      buttonText,
		listSections:    sections,
	}), nil
}

// NewInteractiveCtaURL builds a call-to-action button message. The url must
// be https.
func NewInteractiveCtaURL(to, bodyText, buttonText, url string) (*InteractiveMessage, error) {
	if err := validate.Phone(to); err != nil {
		return nil, err
	}
	if err := validate.TextBody(bodyText); err != nil {
		return nil, err
	}
	if err := validate.ButtonTitle(buttonText); err != nil {
		return nil, err
	}
	if err := validate.CtaURL(url); err != nil {
		return nil, err
	}
	return newInteractive(to, interactiveContent{
		InteractiveType: "cta_url",
		Body:            InteractiveBody{Text: bodyText},
		ctaName:         "cta_url",
		ctaParameters:   &CtaURLParameters{DisplayText: buttonText, URL: url},
	}), nil
}

// NewInteractiveLocationRequest builds a message prompting the recipient to
// share their current location.
func NewInteractiveLocationRequest(to, bodyText string) (*InteractiveMessage, error) {
	if err := validate.Phone(to); err != nil {
		return nil, err
	}
	if err := validate.LocationRequestBody(bodyText); err != nil {
		return nil, err
	}
	return newInteractive(to, interactiveContent{
		InteractiveType: "location_request_message",
		Body:            InteractiveBody{Text: bodyText},
		locationReqName: "send_location",
	}), nil
}

func newInteractive(to string, content interactiveContent) *InteractiveMessage {
	return &InteractiveMessage{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               to,
		Type:             "interactive",
		Interactive:      content,
	}
}

// WithTextHeader attaches a text header to the message.
func (m *InteractiveMessage) WithTextHeader(text string) error {
	if err := validate.Header(text); err != nil {
		return err
	}
	m.Interactive.Header = &InteractiveHeader{Type: "text", Text: text}
	return nil
}

// WithImageHeader attaches an image header referencing uploaded media, by
// id or by hosted url (id takes precedence if both are given).
func (m *InteractiveMessage) WithImageHeader(mediaID, mediaURL string) {
	media := NewMediaReference(mediaID, mediaURL)
	m.Interactive.Header = &InteractiveHeader{Type: "image", Image: &media}
}

// WithVideoHeader attaches a video header referencing uploaded media, by
// id or by hosted url (id takes precedence if both are given).
func (m *InteractiveMessage) WithVideoHeader(mediaID, mediaURL string) {
	media := NewMediaReference(mediaID, mediaURL)
	m.Interactive.Header = &InteractiveHeader{Type: "video", Video: &media}
}

// WithDocumentHeader attaches a document header referencing uploaded media,
// by id or by hosted url (id takes precedence if both are given).
func (m *InteractiveMessage) WithDocumentHeader(mediaID, mediaURL string) {
	media := NewMediaReference(mediaID, mediaURL)
	m.Interactive.Header = &InteractiveHeader{Type: "document", Document: &media}
}

// WithFooter attaches a footer to the message.
func (m *InteractiveMessage) WithFooter(text string) error {
	if err := validate.Footer(text); err != nil {
		return err
	}
	m.Interactive.Footer = &InteractiveFooter{Text: text}
	return nil
}

// InteractiveMessageBuilder accumulates a recipient, body text, and
// candidate actions for every interaction mode before Build picks exactly
// one. When more than one mode was set, the priority is
// location_request > cta_url > list > buttons, matching the platform's own
// precedence for a message that could be read multiple ways.
type InteractiveMessageBuilder struct {
	to       string
	bodyText string
	footer   string
	haveFoot bool

	buttons []ButtonReply

	listButtonText string
	listSections   []InteractiveListSection
	haveList       bool

	ctaButtonText string
	ctaURL        string
	haveCta       bool

	locationRequest bool
}

// NewInteractiveMessage starts an interactive message builder.
func NewInteractiveMessage() *InteractiveMessageBuilder {
	return &InteractiveMessageBuilder{}
}

func (b *InteractiveMessageBuilder) To(to string) *InteractiveMessageBuilder {
	b.to = to
	return b
}

func (b *InteractiveMessageBuilder) Body(text string) *InteractiveMessageBuilder {
	b.bodyText = text
	return b
}

func (b *InteractiveMessageBuilder) Footer(text string) *InteractiveMessageBuilder {
	b.footer = text
	b.haveFoot = true
	return b
}

// Button appends a reply button. A 4th call is silently ignored; Build
// still validates the final count is in [1,3].
func (b *InteractiveMessageBuilder) Button(id, title string) *InteractiveMessageBuilder {
	if len(b.buttons) < 3 {
		b.buttons = append(b.buttons, ButtonReply{ID: id, Title: title})
	}
	return b
}

func (b *InteractiveMessageBuilder) List(buttonText string, sections []InteractiveListSection) *InteractiveMessageBuilder {
	b.listButtonText = buttonText
	b.listSections = sections
	b.haveList = true
	return b
}

func (b *InteractiveMessageBuilder) CtaURL(buttonText, url string) *InteractiveMessageBuilder {
	b.ctaButtonText = buttonText
	b.ctaURL = url
	b.haveCta = true
	return b
}

func (b *InteractiveMessageBuilder) LocationRequest() *InteractiveMessageBuilder {
	b.locationRequest = true
	return b
}

// Build resolves the highest-priority mode that was set, validates it, and
// returns the finished message. Setting zero modes is rejected.
func (b *InteractiveMessageBuilder) Build() (*InteractiveMessage, error) {
	var (
		msg *InteractiveMessage
		err error
	)
	switch {
	case b.locationRequest:
		msg, err = NewInteractiveLocationRequest(b.to, b.bodyText)
	case b.haveCta:
		msg, err = NewInteractiveCtaURL(b.to, b.bodyText, b.ctaButtonText, b.ctaURL)
	case b.haveList:
		msg, err = NewInteractiveList(b.to, b.bodyText, b.listButtonText, b.listSections)
	case len(b.buttons) > 0:
		msg, err = NewInteractiveButtons(b.to, b.bodyText, b.buttons)
	default:
		return nil, errors.InvalidArgument("interactive message must set one of buttons, list, cta_url, or location_request", nil)
	}
	if err != nil {
		return nil, err
	}
	if b.haveFoot {
		if err := msg.WithFooter(b.footer); err != nil {
			return nil, err
		}
	}
	return msg, nil
}
