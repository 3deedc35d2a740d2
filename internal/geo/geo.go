package geo

import (
	"errors"

	"github.com/noah-isme/presensi-go-api/internal/models"
)

// Location failures are non-fatal: the surrounding form stays usable and
// submission is never blocked by a missing location.
var (
	ErrPermissionDenied = errors.New("location permission denied")
	ErrUnavailable      = errors.New("location unavailable")
)

// Adapter validates device-provided coordinates before they are attached to
// a draft.
type Adapter interface {
	Resolve(lat, lng float64) (models.Coordinates, error)
}

type adapter struct{}

// NewAdapter returns the coordinate validator.
func NewAdapter() Adapter {
	return adapter{}
}

// Resolve checks the pair against the legal ranges and returns an immutable
// Coordinates value.
func (adapter) Resolve(lat, lng float64) (models.Coordinates, error) {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return models.Coordinates{}, ErrUnavailable
	}

	return models.Coordinates{Lat: lat, Lng: lng}, nil
}
