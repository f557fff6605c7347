package shared

import (
	"encoding/json"
	"strings"
)

// NullableString distinguishes an absent JSON member from an explicit null.
type NullableString struct {
	Set   bool
	Null  bool
	Value string
}

func (n *NullableString) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" {
		n.Null = true
		return nil
	}
	return json.Unmarshal(data, &n.Value)
}

// BlankToNil drops pointers to whitespace-only strings.
func BlankToNil(value *string) *string {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil
	}
	return value
}
