package wamsg

import "github.com/chris-alexander-pop/system-design-library/pkg/wamsg/validate"

// LocationMessage shares a pin with optional name and address labels.
type LocationMessage struct {
	MessagingProduct string       `json:"messaging_product"`
	RecipientType    string       `json:"recipient_type"`
	To               string       `json:"to"`
	Type             string       `json:"type"`
	Location         locationBody `json:"location"`
}

type locationBody struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Name      string  `json:"name,omitempty"`
	Address   string  `json:"address,omitempty"`
}

func (m *LocationMessage) Recipient() string   { return m.To }
func (m *LocationMessage) MessageType() string { return "location" }

// LocationMessageBuilder accumulates recipient and coordinates before
// validating everything at once in Build, so an invalid coordinate pair is
// rejected without any partially built message ever being returned.
type LocationMessageBuilder struct {
	to        string
	lat, lon  float64
	haveCoord bool
	name      string
	address   string
}

// NewLocationMessage starts a location message builder.
func NewLocationMessage() *LocationMessageBuilder {
	return &LocationMessageBuilder{}
}

func (b *LocationMessageBuilder) To(to string) *LocationMessageBuilder {
	b.to = to
	return b
}

func (b *LocationMessageBuilder) Coordinates(lat, lon float64) *LocationMessageBuilder {
	b.lat, b.lon = lat, lon
	b.haveCoord = true
	return b
}

func (b *LocationMessageBuilder) Name(name string) *LocationMessageBuilder {
	b.name = name
	return b
}

func (b *LocationMessageBuilder) Address(address string) *LocationMessageBuilder {
	b.address = address
	return b
}

// Build validates the accumulated fields and returns the finished message.
func (b *LocationMessageBuilder) Build() (*LocationMessage, error) {
	if err := validate.Phone(b.to); err != nil {
		return nil, err
	}
	if !b.haveCoord {
		return nil, errCoordinatesRequired()
	}
	if err := validate.Coordinates(b.lat, b.lon); err != nil {
		return nil, err
	}
	return &LocationMessage{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               b.to,
		Type:             "location",
		Location: locationBody{
			Latitude:  b.lat,
			Longitude: b.lon,
			Name:      b.name,
			Address:   b.address,
		},
	}, nil
}
