package preso

import (
	"encoding/json"
	"time"
)

// Reserved keys inside the open record payload. id and created_at are
// store-assigned and cannot be set by clients.
const (
	fieldID            = "id"
	fieldCreatedAt     = "created_at"
	fieldQuandoPrendeu = "quando_prendeu"
)

// Record is a detainee row. Besides the three named fields the payload is
// schema-less: whatever else the client sends is kept verbatim in Fields
// and passed through unmodified.
type Record struct {
	ID            string
	CreatedAt     time.Time
	QuandoPrendeu string
	Fields        map[string]any
}

// MarshalJSON flattens the named fields and the open payload into a single
// JSON object, the shape clients see.
func (r Record) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Fields)+3)
	for k, v := range r.Fields {
		out[k] = v
	}
	out[fieldID] = r.ID
	out[fieldCreatedAt] = r.CreatedAt.UTC().Format(time.RFC3339Nano)
	if r.QuandoPrendeu != "" {
		out[fieldQuandoPrendeu] = r.QuandoPrendeu
	}
	return json.Marshal(out)
}

// UnmarshalJSON splits a flat JSON object back into named fields plus the
// open payload.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if v, ok := raw[fieldID].(string); ok {
		r.ID = v
	}
	if v, ok := raw[fieldCreatedAt].(string); ok {
		if ts, err := time.Parse(time.RFC3339Nano, v); err == nil {
			r.CreatedAt = ts
		}
	}
	if v, ok := raw[fieldQuandoPrendeu].(string); ok {
		r.QuandoPrendeu = v
	}
	delete(raw, fieldID)
	delete(raw, fieldCreatedAt)
	delete(raw, fieldQuandoPrendeu)
	if len(raw) > 0 {
		r.Fields = raw
	} else {
		r.Fields = nil
	}
	return nil
}

// Payload carries client-supplied record data for inserts and partial
// updates. A nil QuandoPrendeu means "leave unchanged" on update.
type Payload struct {
	QuandoPrendeu *string
	Fields        map[string]any
}

// PayloadFromMap builds a Payload from a decoded request body. Store-assigned
// keys are dropped; a non-string quando_prendeu is treated as unusable and
// normalized to the empty string.
func PayloadFromMap(body map[string]any) Payload {
	var p Payload
	if raw, ok := body[fieldQuandoPrendeu]; ok {
		s, _ := raw.(string)
		p.QuandoPrendeu = &s
	}
	fields := make(map[string]any, len(body))
	for k, v := range body {
		switch k {
		case fieldID, fieldCreatedAt, fieldQuandoPrendeu:
			continue
		}
		fields[k] = v
	}
	if len(fields) > 0 {
		p.Fields = fields
	}
	return p
}
