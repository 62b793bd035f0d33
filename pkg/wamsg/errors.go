package wamsg

import "github.com/chris-alexander-pop/system-design-library/pkg/errors"

func errCoordinatesRequired() error {
	return errors.InvalidArgument("coordinates must be set before build", nil)
}
