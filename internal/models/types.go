package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// StringArray stores a list of strings as a PostgreSQL text[] literal. On
// other dialects the same literal is kept in a text column.
type StringArray []string

// Scan implements the sql.Scanner interface
func (sa *StringArray) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*sa = StringArray{}
		return nil
	case []byte:
		return sa.parse(string(v))
	case string:
		return sa.parse(v)
	default:
		return errors.New("failed to scan StringArray")
	}
}

func (sa *StringArray) parse(s string) error {
	if len(s) < 2 || s[0] != '{' || s[len(s)-1] != '}' {
		return errors.New("malformed array literal")
	}
	body := s[1 : len(s)-1]
	out := StringArray{}
	if body == "" {
		*sa = out
		return nil
	}

	var (
		cur     strings.Builder
		quoted  bool
		escaped bool
		wasQuot bool
	)
	for i := 0; i < len(body); i++ {
		ch := body[i]
		switch {
		case escaped:
			cur.WriteByte(ch)
			escaped = false
		case ch == '\\' && quoted:
			escaped = true
		case ch == '"':
			quoted = !quoted
			wasQuot = true
		case ch == ',' && !quoted:
			out = append(out, element(cur.String(), wasQuot))
			cur.Reset()
			wasQuot = false
		default:
			cur.WriteByte(ch)
		}
	}
	if quoted {
		return errors.New("unterminated quote in array literal")
	}
	out = append(out, element(cur.String(), wasQuot))
	*sa = out
	return nil
}

func element(raw string, quoted bool) string {
	if quoted {
		return raw
	}
	return strings.TrimSpace(raw)
}

// Value implements the driver.Valuer interface
func (sa StringArray) Value() (driver.Value, error) {
	if len(sa) == 0 {
		return "{}", nil
	}
	parts := make([]string, len(sa))
	for i, s := range sa {
		s = strings.ReplaceAll(s, `\`, `\\`)
		s = strings.ReplaceAll(s, `"`, `\"`)
		parts[i] = `"` + s + `"`
	}
	return "{" + strings.Join(parts, ",") + "}", nil
}

// GormDataType implements the GormDataTypeInterface
func (StringArray) GormDataType() string {
	return "text[]"
}

func (StringArray) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "text[]"
	}
	return "text"
}

// JSONList stores a slice of T as a JSON document.
type JSONList[T any] []T

func (l *JSONList[T]) Scan(value interface{}) error {
	var data []byte
	switch v := value.(type) {
	case nil:
		*l = JSONList[T]{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("failed to scan JSONList")
	}
	var out []T
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	*l = out
	return nil
}

func (l JSONList[T]) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]T(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (JSONList[T]) GormDataType() string {
	return "json"
}

func (JSONList[T]) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "jsonb"
	}
	return "text"
}
