// Package land models registry land parcels and turns them into map data.
package land

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformedParcel is returned when a parcel lacks a field required for mapping.
var ErrMalformedParcel = errors.New("malformed land parcel")

// Type is the zoning category of a parcel.
type Type string

// Known land types.
const (
	Residential  Type = "residential"
	Agricultural Type = "agricultural"
	Industrial   Type = "industrial"
	Commercial   Type = "commercial"
	Unassigned   Type = "unassigned"
)

// Types lists the known land types in display order.
var Types = []Type{Residential, Agricultural, Industrial, Commercial, Unassigned}

// Parcel is a land record as produced by the registry data layer.
// X and Y are grid cells; this package never mutates them.
type Parcel struct {
	ID                  ID              `json:"id" yaml:"id"`
	X                   int             `json:"x_coordinate" yaml:"x_coordinate"`
	Y                   int             `json:"y_coordinate" yaml:"y_coordinate"`
	Type                Type            `json:"land_type" yaml:"land_type"`
	OwnerUserID         *string         `json:"owner_user_id" yaml:"owner_user_id"`
	OwnerOrganizationID *string         `json:"owner_organization_id" yaml:"owner_organization_id"`
	SizeWidth           int             `json:"size_width,omitempty" yaml:"size_width,omitempty"`
	SizeHeight          int             `json:"size_height,omitempty" yaml:"size_height,omitempty"`
	Metadata            json.RawMessage `json:"metadata,omitempty" yaml:"-"`
}

// Validate reports a *ParcelError when the parcel cannot be placed on a map.
func (p Parcel) Validate() error {
	if p.ID.IsZero() {
		return &ParcelError{Index: -1, Field: "id"}
	}
	if p.Type == "" {
		return &ParcelError{Index: -1, ID: p.ID.String(), Field: "land_type"}
	}

	return nil
}

// ParcelError describes a malformed parcel inside a batch.
type ParcelError struct {
	Err   error
	ID    string
	Field string
	Index int // position in the batch, -1 when unknown
}

func (e *ParcelError) Error() string {
	msg := ErrMalformedParcel.Error()
	if e.Index >= 0 {
		msg += fmt.Sprintf(" at index %d", e.Index)
	}
	if e.ID != "" {
		msg += fmt.Sprintf(" (id %s)", e.ID)
	}
	if e.Field != "" {
		msg += ": missing " + e.Field
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}

	return msg
}

// Unwrap exposes ErrMalformedParcel and the underlying decode error, if any.
func (e *ParcelError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrMalformedParcel, e.Err}
	}

	return []error{ErrMalformedParcel}
}

func optional(s *string) interface{} {
	if s == nil {
		return nil
	}

	return *s
}
