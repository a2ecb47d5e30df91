package model

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/Laisky/errors/v2"
)

// JSONStringSlice stores a string slice as JSON in the database.
type JSONStringSlice []string

// Value converts the JSONStringSlice into a driver value.
func (s JSONStringSlice) Value() (driver.Value, error) {
	if len(s) == 0 {
		return nil, nil
	}
	payload, err := json.Marshal([]string(s))
	if err != nil {
		return nil, errors.Wrap(err, "marshal json string slice")
	}
	return string(payload), nil
}

// Scan populates the JSONStringSlice from a database value.
func (s *JSONStringSlice) Scan(value any) error {
	if s == nil {
		return errors.New("json string slice scan: nil receiver")
	}
	if value == nil {
		*s = nil
		return nil
	}

	data, err := coerceJSONColumn(value)
	if err != nil {
		return errors.Wrap(err, "json string slice scan")
	}
	if len(data) == 0 {
		*s = nil
		return nil
	}

	var decoded []string
	if err := json.Unmarshal(data, &decoded); err != nil {
		return errors.Wrap(err, "unmarshal json string slice")
	}
	if len(decoded) == 0 {
		*s = nil
		return nil
	}
	*s = JSONStringSlice(decoded)
	return nil
}

// JSONFloat64Slice stores a numeric vector as JSON in the database.
// Used for embedding columns so the schema stays portable across the
// supported SQL backends.
type JSONFloat64Slice []float64

// Value converts the JSONFloat64Slice into a driver value.
func (s JSONFloat64Slice) Value() (driver.Value, error) {
	if len(s) == 0 {
		return nil, nil
	}
	payload, err := json.Marshal([]float64(s))
	if err != nil {
		return nil, errors.Wrap(err, "marshal json float slice")
	}
	return string(payload), nil
}

// Scan populates the JSONFloat64Slice from a database value.
func (s *JSONFloat64Slice) Scan(value any) error {
	if s == nil {
		return errors.New("json float slice scan: nil receiver")
	}
	if value == nil {
		*s = nil
		return nil
	}

	data, err := coerceJSONColumn(value)
	if err != nil {
		return errors.Wrap(err, "json float slice scan")
	}
	if len(data) == 0 {
		*s = nil
		return nil
	}

	var decoded []float64
	if err := json.Unmarshal(data, &decoded); err != nil {
		return errors.Wrap(err, "unmarshal json float slice")
	}
	if len(decoded) == 0 {
		*s = nil
		return nil
	}
	*s = JSONFloat64Slice(decoded)
	return nil
}

// JSONIntSlice stores an int slice as JSON in the database.
type JSONIntSlice []int

// Value converts the JSONIntSlice into a driver value.
func (s JSONIntSlice) Value() (driver.Value, error) {
	if len(s) == 0 {
		return nil, nil
	}
	payload, err := json.Marshal([]int(s))
	if err != nil {
		return nil, errors.Wrap(err, "marshal json int slice")
	}
	return string(payload), nil
}

// Scan populates the JSONIntSlice from a database value.
func (s *JSONIntSlice) Scan(value any) error {
	if s == nil {
		return errors.New("json int slice scan: nil receiver")
	}
	if value == nil {
		*s = nil
		return nil
	}

	data, err := coerceJSONColumn(value)
	if err != nil {
		return errors.Wrap(err, "json int slice scan")
	}
	if len(data) == 0 {
		*s = nil
		return nil
	}

	var decoded []int
	if err := json.Unmarshal(data, &decoded); err != nil {
		return errors.Wrap(err, "unmarshal json int slice")
	}
	if len(decoded) == 0 {
		*s = nil
		return nil
	}
	*s = JSONIntSlice(decoded)
	return nil
}

func coerceJSONColumn(value any) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, errors.Errorf("unsupported column type %T", value)
	}
}
