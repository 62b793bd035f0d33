// Package validate holds the structural validation rules for outbound
// WhatsApp message content: phone numbers, URLs, coordinates, media
// references, and the per-field length bounds the Cloud API enforces.
// Every function returns a *pkg/errors.AppError classified as invalid
// argument, never a bare error, so callers can tell validation failures
// (permanent, never retried) apart from infrastructure failures.
package validate

import (
	"net/url"
	"regexp"
	"strconv"

	"github.com/chris-alexander-pop/system-design-library/pkg/errors"
)

var phonePattern = regexp.MustCompile(`^\+[1-9]\d{7,14}$`)

// Phone validates an E.164 phone number.
func Phone(phone string) error {
	if !phonePattern.MatchString(phone) {
		return errors.InvalidArgument("invalid phone number: must be E.164 format", nil)
	}
	return nil
}

// TextBody validates a text message body (≤4096 bytes, non-empty).
func TextBody(body string) error {
	return boundedNonEmpty("message body", body, 4096)
}

// LocationRequestBody validates the body text of a location-request
// interactive message, which must give the recipient enough context to
// justify the share (≥10 characters, ≤4096 bytes).
func LocationRequestBody(body string) error {
	if err := boundedNonEmpty("message body", body, 4096); err != nil {
		return err
	}
	if len(body) < 10 {
		return errors.InvalidArgument("location request body must be at least 10 characters", nil)
	}
	return nil
}

// Caption validates a media caption (≤1024 bytes, optional so emptiness is
// allowed by the caller before invoking this).
func Caption(caption string) error {
	return bounded("caption", caption, 1024)
}

// Header validates an interactive header text (≤60 bytes).
func Header(text string) error {
	return boundedNonEmpty("header text", text, 60)
}

// Footer validates an interactive footer text (≤60 bytes).
func Footer(text string) error {
	return boundedNonEmpty("footer text", text, 60)
}

// ButtonID validates a reply button id (non-empty, ≤256 bytes).
func ButtonID(id string) error {
	return boundedNonEmpty("button id", id, 256)
}

// ButtonTitle validates a reply button title (non-empty, ≤20 bytes).
func ButtonTitle(title string) error {
	return boundedNonEmpty("button title", title, 20)
}

// ListRowTitle validates a list row title (non-empty, ≤24 bytes).
func ListRowTitle(title string) error {
	return boundedNonEmpty("list row title", title, 24)
}

// ListRowDescription validates an optional list row description (≤72 bytes).
func ListRowDescription(description string) error {
	return bounded("list row description", description, 72)
}

// URL validates a generic media/header URL (non-empty, ≤2048, http(s)).
func URL(raw string) error {
	if raw == "" {
		return errors.InvalidArgument("url must not be empty", nil)
	}
	if len(raw) > 2048 {
		return errors.InvalidArgument("url exceeds 2048 bytes", nil)
	}
	parsed, err := url.Parse(raw)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return errors.InvalidArgument("url must start with http:// or https://", nil)
	}
	return nil
}

// CtaURL validates a call-to-action button URL, which must be https.
func CtaURL(raw string) error {
	if err := URL(raw); err != nil {
		return err
	}
	parsed, _ := url.Parse(raw)
	if parsed.Scheme != "https" {
		return errors.InvalidArgument("cta url must use https", nil)
	}
	return nil
}

// Coordinates validates a latitude/longitude pair.
func Coordinates(lat, lon float64) error {
	if lat < -90 || lat > 90 {
		return errors.InvalidArgument("latitude out of range [-90,90]", nil)
	}
	if lon < -180 || lon > 180 {
		return errors.InvalidArgument("longitude out of range [-180,180]", nil)
	}
	return nil
}

// MediaID validates an uploaded media identifier (non-empty, all ASCII
// digits).
func MediaID(id string) error {
	if id == "" {
		return errors.InvalidArgument("media id must not be empty", nil)
	}
	if _, err := strconv.ParseUint(id, 10, 64); err != nil {
		return errors.InvalidArgument("media id must be all digits", nil)
	}
	return nil
}

// MediaClass enumerates the media categories with distinct MIME/size rules.
type MediaClass string

const (
	MediaClassAudio    MediaClass = "audio"
	MediaClassImage    MediaClass = "image"
	MediaClassVideo    MediaClass = "video"
	MediaClassDocument MediaClass = "document"
)

var allowedMIMETypes = map[MediaClass]map[string]struct{}{
	MediaClassAudio: set("audio/aac", "audio/amr", "audio/mpeg", "audio/mp4", "audio/ogg"),
	MediaClassImage: set("image/jpeg", "image/png"),
	MediaClassVideo: set("video/3gpp", "video/mp4"),
	MediaClassDocument: set(
		"text/plain",
		"application/pdf",
		"application/msword",
		"application/vnd.ms-excel",
		"application/vnd.ms-powerpoint",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		"application/vnd.openxmlformats-officedocument.presentationml.presentation",
	),
}

var maxBytesByClass = map[MediaClass]int64{
	MediaClassAudio:    16 * 1024 * 1024,
	MediaClassImage:    5 * 1024 * 1024,
	MediaClassVideo:    16 * 1024 * 1024,
	MediaClassDocument: 100 * 1024 * 1024,
}

// MIMEAndSize validates a media attachment's declared MIME type and size
// against the table for its class.
func MIMEAndSize(class MediaClass, mimeType string, sizeBytes int64) error {
	allowed, ok := allowedMIMETypes[class]
	if !ok {
		return errors.InvalidArgument("unknown media class", nil)
	}
	if _, ok := allowed[mimeType]; !ok {
		return errors.InvalidArgument("unsupported mime type for "+string(class)+": "+mimeType, nil)
	}
	if sizeBytes > maxBytesByClass[class] {
		return errors.InvalidArgument("media exceeds maximum size for "+string(class), nil)
	}
	return nil
}

func set(values ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(values))
	for _, v := range values {
		m[v] = struct{}{}
	}
	return m
}

func bounded(field, value string, max int) error {
	if len(value) > max {
		return errors.InvalidArgument(field+" exceeds maximum length", nil)
	}
	return nil
}

func boundedNonEmpty(field, value string, max int) error {
	if value == "" {
		return errors.InvalidArgument(field+" must not be empty", nil)
	}
	return bounded(field, value, max)
}
