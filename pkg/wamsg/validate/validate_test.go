package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chris-alexander-pop/system-design-library/pkg/wamsg/validate"
)

func TestPhone(t *testing.T) {
	assert.NoError(t, validate.Phone("+16505551234"))
	assert.Error(t, validate.Phone("16505551234"))
	assert.Error(t, validate.Phone("+0123456789"))
	assert.Error(t, validate.Phone("not-a-phone"))
}

func TestTextBody(t *testing.T) {
	assert.NoError(t, validate.TextBody("hello"))
	assert.Error(t, validate.TextBody(""))

	over := make([]byte, 4097)
	assert.Error(t, validate.TextBody(string(over)))
}

func TestCoordinates(t *testing.T) {
	assert.NoError(t, validate.Coordinates(37.7749, -122.4194))
	assert.Error(t, validate.Coordinates(91.0, 0.0))
	assert.Error(t, validate.Coordinates(0.0, 181.0))
}

func TestCtaURLRequiresHTTPS(t *testing.T) {
	assert.NoError(t, validate.CtaURL("https://example.com"))
	assert.Error(t, validate.CtaURL("http://example.com"))
}

func TestMediaID(t *testing.T) {
	assert.NoError(t, validate.MediaID("1234567890"))
	assert.Error(t, validate.MediaID(""))
	assert.Error(t, validate.MediaID("not-digits"))
}

func TestMIMEAndSize(t *testing.T) {
	assert.NoError(t, validate.MIMEAndSize(validate.MediaClassImage, "image/jpeg", 1024))
	assert.Error(t, validate.MIMEAndSize(validate.MediaClassImage, "image/gif", 1024))
	assert.Error(t, validate.MIMEAndSize(validate.MediaClassImage, "image/jpeg", 6*1024*1024))
	assert.NoError(t, validate.MIMEAndSize(validate.MediaClassDocument, "application/pdf", 50*1024*1024))
	assert.Error(t, validate.MIMEAndSize(validate.MediaClassDocument, "application/pdf", 200*1024*1024))
}
