package lib

import (
	"encoding/json"
	"fmt"
)

// FlexibleBool accepts JSON booleans and the string forms "true"/"false".
// Older storefront clients send enable flags as strings; this normalizes
// them at the boundary so core logic only ever sees a strict bool.
type FlexibleBool bool

func (b *FlexibleBool) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}

	switch val := v.(type) {
	case bool:
		*b = FlexibleBool(val)
		return nil
	case string:
		switch val {
		case "true":
			*b = true
			return nil
		case "false":
			*b = false
			return nil
		}
	}
	return fmt.Errorf("%w: expected boolean, got %s", ErrValidation, string(data))
}

func (b FlexibleBool) Bool() bool {
	return bool(b)
}
