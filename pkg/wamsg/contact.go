package wamsg

import (
	"time"

	"github.com/chris-alexander-pop/system-design-library/pkg/errors"
	"github.com/chris-alexander-pop/system-design-library/pkg/wamsg/validate"
)

// ContactMessage shares one or more contact cards. The Cloud API carries no
// recipient_type field on this variant.
type ContactMessage struct {
	MessagingProduct string        `json:"messaging_product"`
	To               string        `json:"to"`
	Type             string        `json:"type"`
	Contacts         []contactInfo `json:"contacts"`
}

type contactInfo struct {
	Addresses []ContactAddress     `json:"addresses,omitempty"`
	Birthday  string               `json:"birthday,omitempty"`
	Emails    []ContactEmail       `json:"emails,omitempty"`
	Name      ContactName          `json:"name"`
	Org       *ContactOrganization `json:"org,omitempty"`
	Phones    []ContactPhone       `json:"phones,omitempty"`
	Urls      []ContactURL         `json:"urls,omitempty"`
}

type ContactAddress struct {
	Street      string `json:"street,omitempty"`
	City        string `json:"city,omitempty"`
	State       string `json:"state,omitempty"`
	Zip         string `json:"zip,omitempty"`
	Country     string `json:"country,omitempty"`
	CountryCode string `json:"country_code,omitempty"`
	Type        string `json:"type,omitempty"`
}

type ContactEmail struct {
	Email string `json:"email"`
	Type  string `json:"type,omitempty"`
}

type ContactName struct {
	FormattedName string `json:"formatted_name"`
	FirstName     string `json:"first_name,omitempty"`
	LastName      string `json:"last_name,omitempty"`
	MiddleName    string `json:"middle_name,omitempty"`
	Suffix        string `json:"suffix,omitempty"`
	Prefix        string `json:"prefix,omitempty"`
}

type ContactOrganization struct {
	Company    string `json:"company,omitempty"`
	Department string `json:"department,omitempty"`
	Title      string `json:"title,omitempty"`
}

type ContactPhone struct {
	Phone string `json:"phone"`
	WaID  string `json:"wa_id,omitempty"`
	Type  string `json:"type,omitempty"`
}

type ContactURL struct {
	URL  string `json:"url"`
	Type string `json:"type,omitempty"`
}

func (m *ContactMessage) Recipient() string   { return m.To }
func (m *ContactMessage) MessageType() string { return "contacts" }

// NewContact builds a contact message carrying a single contact card with
// just a formatted name. Use the With* methods to attach detail.
func NewContact(to, formattedName string) (*ContactMessage, error) {
	if err := validate.Phone(to); err != nil {
		return nil, err
	}
	if formattedName == "" {
		return nil, errors.InvalidArgument("contact formatted name must not be empty", nil)
	}
	return &ContactMessage{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "contacts",
		Contacts: []contactInfo{
			{Name: ContactName{FormattedName: formattedName}},
		},
	}, nil
}

func (m *ContactMessage) WithNameDetails(first, last, middle, prefix, suffix string) *ContactMessage {
	c := &m.Contacts[0]
	c.Name.FirstName = first
	c.Name.LastName = last
	c.Name.MiddleName = middle
	c.Name.Prefix = prefix
	c.Name.Suffix = suffix
	return m
}

func (m *ContactMessage) WithPhones(phones ...ContactPhone) *ContactMessage {
	m.Contacts[0].Phones = phones
	return m
}

func (m *ContactMessage) WithEmails(emails ...ContactEmail) *ContactMessage {
	m.Contacts[0].Emails = emails
	return m
}

func (m *ContactMessage) WithAddresses(addresses ...ContactAddress) *ContactMessage {
	m.Contacts[0].Addresses = addresses
	return m
}

func (m *ContactMessage) WithOrganization(org ContactOrganization) *ContactMessage {
	m.Contacts[0].Org = &org
	return m
}

func (m *ContactMessage) WithUrls(urls ...ContactURL) *ContactMessage {
	m.Contacts[0].Urls = urls
	return m
}

// WithBirthday sets the contact's birthday, which must be in YYYY-MM-DD
// format and name a real calendar date.
func (m *ContactMessage) WithBirthday(birthday string) (*ContactMessage, error) {
	if birthday != "" && !isValidBirthday(birthday) {
		return nil, errors.InvalidArgument("birthday must be in YYYY-MM-DD format", nil)
	}
	m.Contacts[0].Birthday = birthday
	return m, nil
}

func isValidBirthday(date string) bool {
	_, err := time.Parse("2006-01-02", date)
	return err == nil
}
