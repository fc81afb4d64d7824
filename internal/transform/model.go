package transform

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrInvalidInput = errors.New("invalid transform payload")

type Kind string

const (
	KindTranslation Kind = "translation"
	KindRotation    Kind = "rotation"
	KindScale       Kind = "scale"
	KindTransform   Kind = "transform"
)

// Vector3 is an ordered (x, y, z) triple. It encodes as a three element JSON array.
type Vector3 [3]float64

func (v *Vector3) UnmarshalJSON(data []byte) error {
	var raw []*float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: expected an array of three numbers", ErrInvalidInput)
	}
	if len(raw) != 3 {
		return fmt.Errorf("%w: expected 3 components, got %d", ErrInvalidInput, len(raw))
	}
	for i, c := range raw {
		if c == nil {
			return fmt.Errorf("%w: component %d is null", ErrInvalidInput, i)
		}
		v[i] = *c
	}
	return nil
}

// Transform is a full object transform. All three vectors are required.
type Transform struct {
	Position *Vector3 `json:"position"`
	Rotation *Vector3 `json:"rotation"`
	Scale    *Vector3 `json:"scale"`
}

func (t Transform) Empty() bool {
	return t.Position == nil && t.Rotation == nil && t.Scale == nil
}

func (t Transform) Validate() error {
	var missing []string
	if t.Position == nil {
		missing = append(missing, "position")
	}
	if t.Rotation == nil {
		missing = append(missing, "rotation")
	}
	if t.Scale == nil {
		missing = append(missing, "scale")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %v", ErrInvalidInput, missing)
	}
	return nil
}
