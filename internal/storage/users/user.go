// Package users is the record repository: id assignment, duplicate detection,
// filtering and persistence of user records.
package users

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/invopop/jsonschema"
)

// User is one stored record.
type User struct {
	ID   int64  `json:"id" jsonschema:"description=Identifier assigned by the server"`
	Name string `json:"name" jsonschema:"description=Person name"`
	Age  Age    `json:"age" jsonschema:"description=Age; numeric strings are accepted on input"`
	City string `json:"city" jsonschema:"description=City of residence"`
}

// Clone returns a copy of the user.
func (u *User) Clone() *User {
	c := *u
	return &c
}

// Fields are the user supplied attributes of a record.
type Fields struct {
	Name string
	Age  Age
	City string
}

// missing returns the JSON names of required fields that are absent or blank.
func (f *Fields) missing() []string {
	var out []string
	if strings.TrimSpace(f.Name) == "" {
		out = append(out, "name")
	}
	if !f.Age.IsSet() {
		out = append(out, "age")
	}
	if strings.TrimSpace(f.City) == "" {
		out = append(out, "city")
	}
	return out
}

// sameContent reports whether u holds exactly f.
func (u *User) sameContent(f *Fields) bool {
	return u.Name == f.Name && u.City == f.City && u.Age.Equal(f.Age)
}

// Age is a numeric age.
//
// It decodes from a JSON number or a numeric string, since HTML form clients
// post text. The empty string and null decode to an unset Age. It always
// encodes as a JSON number, or null when unset.
type Age struct {
	v   float64
	set bool
}

// NewAge returns a set Age.
func NewAge(v float64) Age {
	return Age{v: v, set: true}
}

// IsSet reports whether the age has a value.
func (a Age) IsSet() bool {
	return a.set
}

// Float64 returns the value, or 0 when unset.
func (a Age) Float64() float64 {
	return a.v
}

// Equal compares by numeric value.
func (a Age) Equal(b Age) bool {
	return a.set == b.set && a.v == b.v
}

func (a Age) String() string {
	if !a.set {
		return ""
	}
	return strconv.FormatFloat(a.v, 'f', -1, 64)
}

// MarshalJSON implements json.Marshaler.
func (a Age) MarshalJSON() ([]byte, error) {
	if !a.set {
		return []byte("null"), nil
	}
	return []byte(a.String()), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *Age) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = Age{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		parsed, err := ParseAge(s)
		if err != nil {
			return err
		}
		*a = parsed
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("age must be a number: %w", err)
	}
	*a = NewAge(f)
	return nil
}

var errAgeNotNumeric = errors.New("age must be a number")

// ParseAge parses user input. Blank input yields an unset Age.
func ParseAge(s string) (Age, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Age{}, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return Age{}, fmt.Errorf("%w: %q", errAgeNotNumeric, s)
	}
	return NewAge(f), nil
}

// JSONSchema implements jsonschema's custom schema hook.
func (Age) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{Type: "number"}
}
