package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
)

// StringBool is a boolean stored natively but encoded on the wire as the
// strings "true"/"false", which is what existing profile clients send.
type StringBool bool

func (b StringBool) MarshalJSON() ([]byte, error) {
	return json.Marshal(strconv.FormatBool(bool(b)))
}

// UnmarshalJSON accepts "true"/"false" strings as well as bare JSON booleans.
func (b *StringBool) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case bool:
		*b = StringBool(v)
	case string:
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid boolean string %q", v)
		}
		*b = StringBool(parsed)
	default:
		return fmt.Errorf("invalid boolean value %s", string(data))
	}
	return nil
}

func (b StringBool) Value() (driver.Value, error) {
	return bool(b), nil
}

func (b *StringBool) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*b = false
	case bool:
		*b = StringBool(v)
	case int64:
		*b = v != 0
	case []byte:
		return b.Scan(string(v))
	case string:
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("cannot scan %q into StringBool", v)
		}
		*b = StringBool(parsed)
	default:
		return fmt.Errorf("cannot scan %T into StringBool", value)
	}
	return nil
}

func (StringBool) GormDataType() string {
	return "boolean"
}
