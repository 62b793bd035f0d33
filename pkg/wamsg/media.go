package wamsg

import "github.com/chris-alexander-pop/system-design-library/pkg/wamsg/validate"

// mediaBody is the shared content shape for audio, image, video, and
// document messages: exactly one of id/link, optional caption, optional
// filename (document only, but harmless to carry as a shared struct since
// it is omitted when empty).
type mediaBody struct {
	ID       string `json:"id,omitempty"`
	Link     string `json:"link,omitempty"`
	Caption  string `json:"caption,omitempty"`
	Filename string `json:"filename,omitempty"`
}

func (m *mediaBody) setID(id string) {
	m.ID = id
	m.Link = ""
}

func (m *mediaBody) setURLIfUnset(url string) {
	if m.ID != "" {
		return
	}
	m.Link = url
}

func validateCaption(caption string) error {
	if caption == "" {
		return nil
	}
	return validate.Caption(caption)
}

// ValidateMediaUpload checks a candidate attachment's MIME type and size
// against its class before it is uploaded and referenced by id. Message
// builders take an already-uploaded media id or hosted url and do not call
// it.
func ValidateMediaUpload(class validate.MediaClass, mimeType string, sizeBytes int64) error {
	return validate.MIMEAndSize(class, mimeType, sizeBytes)
}
