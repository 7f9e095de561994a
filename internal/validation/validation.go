// Package validation checks dashboard form input before it is sent to the
// prediction service.
package validation

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/Alias1177/SolarPredictor/internal/config"
	"github.com/Alias1177/SolarPredictor/models"
)

// Form field names, identical to the JSON names of models.PredictionInput
const (
	FieldLocation         = "location"
	FieldLatitude         = "latitude"
	FieldLongitude        = "longitude"
	FieldIrradiance       = "shortwave_radiation_backwards_sfc"
	FieldAzimuth          = "azimuth"
	FieldZenith           = "zenith"
	FieldAngleOfIncidence = "angle_of_incidence"
)

const locationMinLength = 2

var fieldLabels = map[string]string{
	FieldLocation:         "Location",
	FieldLatitude:         "Latitude",
	FieldLongitude:        "Longitude",
	FieldIrradiance:       "Solar Irradiance",
	FieldAzimuth:          "Azimuth Angle",
	FieldZenith:           "Zenith Angle",
	FieldAngleOfIncidence: "Angle of Incidence",
}

// Label returns the human readable name of a form field
func Label(field string) string {
	if label, ok := fieldLabels[field]; ok {
		return label
	}
	return field
}

// Labels returns the labels of all form fields keyed by field name
func Labels() map[string]string {
	out := make(map[string]string, len(fieldLabels))
	for k, v := range fieldLabels {
		out[k] = v
	}
	return out
}

// Form is the raw dashboard form. Nil numbers are empty inputs.
type Form struct {
	Location         string   `json:"location"`
	Latitude         *float64 `json:"latitude"`
	Longitude        *float64 `json:"longitude"`
	Irradiance       *float64 `json:"shortwave_radiation_backwards_sfc"`
	Azimuth          *float64 `json:"azimuth"`
	Zenith           *float64 `json:"zenith"`
	AngleOfIncidence *float64 `json:"angle_of_incidence"`
}

// Range is an inclusive numeric bound
type Range struct {
	Min float64
	Max float64
}

// Profile holds the bounds applied to the angle fields
type Profile struct {
	Name             string
	Zenith           Range
	AngleOfIncidence Range
}

var (
	// Wide matches the bounds the dashboard form has always accepted
	Wide = Profile{Name: "wide", Zenith: Range{0, 360}, AngleOfIncidence: Range{0, 180}}
	// Strict limits both angles to the physically meaningful 0-90
	Strict = Profile{Name: "strict", Zenith: Range{0, 90}, AngleOfIncidence: Range{0, 90}}
)

var (
	latitudeRange   = Range{-90, 90}
	longitudeRange  = Range{-180, 180}
	irradianceRange = Range{0, 1400}
	azimuthRange    = Range{0, 360}
)

// ProfileByName resolves a profile name, case-insensitive
func ProfileByName(name string) (Profile, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", Wide.Name:
		return Wide, nil
	case Strict.Name:
		return Strict, nil
	default:
		return Profile{}, fmt.Errorf("unknown validation profile %q", name)
	}
}

// FieldError is the first failed rule of a single field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors lists failing fields in form order
type Errors []FieldError

func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Message
	}
	return "invalid form: " + strings.Join(msgs, "; ")
}

// Message returns the error for field, or "" when the field is valid
func (e Errors) Message(field string) string {
	for _, fe := range e {
		if fe.Field == field {
			return fe.Message
		}
	}
	return ""
}

// Validate checks the form against p. On success it returns the input to
// send; otherwise the returned error is of type Errors.
func Validate(f Form, p Profile) (models.PredictionInput, error) {
	var errs Errors
	add := func(field, msg string) {
		if msg != "" {
			errs = append(errs, FieldError{Field: field, Message: msg})
		}
	}

	location := strings.TrimSpace(f.Location)
	if location != "" && utf8.RuneCountInString(location) < locationMinLength {
		add(FieldLocation, fmt.Sprintf("%s must be at least %d characters", Label(FieldLocation), locationMinLength))
	}
	add(FieldLatitude, checkOptional(FieldLatitude, f.Latitude, latitudeRange))
	add(FieldLongitude, checkOptional(FieldLongitude, f.Longitude, longitudeRange))
	add(FieldIrradiance, checkRequired(FieldIrradiance, f.Irradiance, irradianceRange))
	add(FieldAzimuth, checkRequired(FieldAzimuth, f.Azimuth, azimuthRange))
	add(FieldZenith, checkRequired(FieldZenith, f.Zenith, p.Zenith))
	add(FieldAngleOfIncidence, checkRequired(FieldAngleOfIncidence, f.AngleOfIncidence, p.AngleOfIncidence))

	if len(errs) > 0 {
		return models.PredictionInput{}, errs
	}

	return models.PredictionInput{
		Location:         location,
		Latitude:         f.Latitude,
		Longitude:        f.Longitude,
		Irradiance:       *f.Irradiance,
		Azimuth:          *f.Azimuth,
		Zenith:           *f.Zenith,
		AngleOfIncidence: *f.AngleOfIncidence,
	}, nil
}

func checkRequired(field string, v *float64, r Range) string {
	if v == nil {
		return Label(field) + " is required"
	}
	return checkRange(field, *v, r)
}

func checkOptional(field string, v *float64, r Range) string {
	if v == nil {
		return ""
	}
	return checkRange(field, *v, r)
}

func checkRange(field string, v float64, r Range) string {
	if v < r.Min {
		return fmt.Sprintf("%s must be at least %s", Label(field), formatNumber(r.Min))
	}
	if v > r.Max {
		return fmt.Sprintf("%s must be at most %s", Label(field), formatNumber(r.Max))
	}
	return ""
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// DefaultForm returns the form as first shown, located at the configured
// default site
func DefaultForm(cfg *config.Config) Form {
	return Form{
		Location:         cfg.DefaultLocation,
		Latitude:         floatPtr(cfg.DefaultLatitude),
		Longitude:        floatPtr(cfg.DefaultLongitude),
		Irradiance:       floatPtr(800),
		Azimuth:          floatPtr(180),
		Zenith:           floatPtr(45),
		AngleOfIncidence: floatPtr(30),
	}
}

func floatPtr(v float64) *float64 { return &v }
