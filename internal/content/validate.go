package content

import (
	"fmt"

	"github.com/pohangstory/storyteller/internal/errors"
)

// ValidateKind checks kind membership against the closed kind set.
func ValidateKind(kind string) error {
	if !ValidKind(kind) {
		return errors.NewInvalidRequest(
			fmt.Sprintf("kind must be one of: stamp, photo, video, text (got %q)", kind))
	}
	return nil
}

// ValidateCaption enforces the configured caption size limit.
// A maxChars of 0 disables the check.
func ValidateCaption(caption string, maxChars int) error {
	if maxChars <= 0 {
		return nil
	}
	actual := CountChars(caption)
	if actual > maxChars {
		return errors.NewCaptionTooLarge(maxChars, actual)
	}
	return nil
}

// ValidateCoordinates requires lat and lng to be set together and in range.
func ValidateCoordinates(lat, lng *float64) error {
	if (lat == nil) != (lng == nil) {
		return errors.NewInvalidRequest("lat and lng must be provided together")
	}
	if lat == nil {
		return nil
	}
	if *lat < -90 || *lat > 90 {
		return errors.NewInvalidRequest(fmt.Sprintf("lat out of range: %v", *lat))
	}
	if *lng < -180 || *lng > 180 {
		return errors.NewInvalidRequest(fmt.Sprintf("lng out of range: %v", *lng))
	}
	return nil
}
