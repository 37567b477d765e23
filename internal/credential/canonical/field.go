package canonical

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Field is a raw JSON member that remembers whether it was present at all.
// An absent field is dropped from the canonical form; a present null is
// written as null.
type Field struct {
	raw     json.RawMessage
	present bool
}

// NewField wraps a raw JSON value. An empty raw value is an absent field.
func NewField(raw json.RawMessage) Field {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return Field{}
	}
	return Field{raw: raw, present: true}
}

// StringField is a convenience for building fields from Go strings.
func StringField(s string) Field {
	b, _ := json.Marshal(s)
	return Field{raw: b, present: true}
}

func (f Field) Present() bool { return f.present }

// Raw returns the value as received, or nil when absent.
func (f Field) Raw() json.RawMessage {
	if !f.present {
		return nil
	}
	return f.raw
}

func (f Field) isNull() bool {
	return f.present && string(f.raw) == "null"
}

// Truthy follows JavaScript truthiness: absent, null, false, 0 and "" are
// falsy, everything else (including empty objects and arrays) is truthy.
func (f Field) Truthy() bool {
	if !f.present || f.isNull() {
		return false
	}
	switch f.raw[0] {
	case 'f':
		return false
	case 't', '{', '[':
		return true
	case '"':
		var s string
		if err := json.Unmarshal(f.raw, &s); err != nil {
			return false
		}
		return s != ""
	default:
		n, err := strconv.ParseFloat(string(f.raw), 64)
		return err == nil && n != 0
	}
}

// Or returns f when it is truthy and fallback otherwise.
func (f Field) Or(fallback Field) Field {
	if f.Truthy() {
		return f
	}
	return fallback
}

// Null is an explicit JSON null.
var Null = Field{raw: json.RawMessage("null"), present: true}
