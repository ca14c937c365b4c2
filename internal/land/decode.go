package land

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// envelope is the response shape of the registry get_lands call.
type envelope struct {
	Success *bool           `json:"success"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

// rawParcel uses pointers so absent fields can be told apart from zero values.
type rawParcel struct {
	ID                  json.RawMessage `json:"id"`
	X                   *int            `json:"x_coordinate"`
	Y                   *int            `json:"y_coordinate"`
	LandType            *string         `json:"land_type"`
	OwnerUserID         *string         `json:"owner_user_id"`
	OwnerOrganizationID *string         `json:"owner_organization_id"`
	SizeWidth           int             `json:"size_width"`
	SizeHeight          int             `json:"size_height"`
	Metadata            json.RawMessage `json:"metadata"`
}

// Decode reads parcels either from a get_lands envelope
// ({"success": true, "data": [...]}) or from a bare JSON array.
// The first malformed parcel fails the whole batch with a *ParcelError.
func Decode(r io.Reader) ([]Parcel, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, errors.New("empty land data")
	}

	if data[0] != '[' {
		var env envelope
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, fmt.Errorf("decode land envelope: %w", err)
		}
		if env.Success != nil && !*env.Success {
			if env.Error == "" {
				env.Error = "unknown error"
			}
			return nil, fmt.Errorf("land data source failed: %s", env.Error)
		}
		if env.Success == nil && env.Data == nil {
			return nil, errors.New("decode land envelope: missing data")
		}
		data = env.Data
		if len(data) == 0 || string(data) == "null" {
			return []Parcel{}, nil
		}
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode land list: %w", err)
	}

	parcels := make([]Parcel, 0, len(items))
	for i, item := range items {
		p, err := decodeParcel(item)
		if err != nil {
			var pe *ParcelError
			if errors.As(err, &pe) {
				pe.Index = i
				return nil, pe
			}
			return nil, &ParcelError{Index: i, Err: err}
		}
		parcels = append(parcels, p)
	}

	return parcels, nil
}

func decodeParcel(data json.RawMessage) (Parcel, error) {
	var raw rawParcel
	if err := json.Unmarshal(data, &raw); err != nil {
		return Parcel{}, err
	}

	var id ID
	if raw.ID != nil {
		if err := id.UnmarshalJSON(raw.ID); err != nil {
			return Parcel{}, &ParcelError{Field: "id", Err: err}
		}
	}

	switch {
	case id.IsZero():
		return Parcel{}, &ParcelError{Field: "id"}
	case raw.X == nil:
		return Parcel{}, &ParcelError{ID: id.String(), Field: "x_coordinate"}
	case raw.Y == nil:
		return Parcel{}, &ParcelError{ID: id.String(), Field: "y_coordinate"}
	case raw.LandType == nil || *raw.LandType == "":
		return Parcel{}, &ParcelError{ID: id.String(), Field: "land_type"}
	}

	return Parcel{
		ID:                  id,
		X:                   *raw.X,
		Y:                   *raw.Y,
		Type:                Type(*raw.LandType),
		OwnerUserID:         raw.OwnerUserID,
		OwnerOrganizationID: raw.OwnerOrganizationID,
		SizeWidth:           raw.SizeWidth,
		SizeHeight:          raw.SizeHeight,
		Metadata:            raw.Metadata,
	}, nil
}

// ReadFile decodes parcels from path, or from stdin when path is empty or "-".
func ReadFile(path string) ([]Parcel, error) {
	if path == "" || path == "-" {
		return Decode(os.Stdin)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	parcels, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return parcels, nil
}
