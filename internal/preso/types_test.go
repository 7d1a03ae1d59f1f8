package preso

import (
	"encoding/json"
	"testing"
	"time"
)

func TestRecordMarshalFlattens(t *testing.T) {
	rec := Record{
		ID:            "abc",
		CreatedAt:     time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC),
		QuandoPrendeu: "2025-01-15",
		Fields: map[string]any{
			"nome":    "João da Silva",
			"artigos": []any{"157", "180"},
		},
	}

	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal into map: %v", err)
	}
	if got["id"] != "abc" || got["quando_prendeu"] != "2025-01-15" || got["nome"] != "João da Silva" {
		t.Fatalf("flattened object missing fields: %v", got)
	}
	if got["created_at"] != "2025-03-01T09:30:00Z" {
		t.Fatalf("created_at = %v", got["created_at"])
	}
	if _, ok := got["artigos"]; !ok {
		t.Fatal("open field dropped on marshal")
	}
}

func TestRecordMarshalOmitsEmptyQuandoPrendeu(t *testing.T) {
	rec := Record{ID: "abc", CreatedAt: time.Now()}
	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := got["quando_prendeu"]; ok {
		t.Fatal("empty quando_prendeu should be omitted")
	}
}

func TestRecordUnmarshalSplits(t *testing.T) {
	raw := `{"id":"abc","created_at":"2025-03-01T09:30:00Z","quando_prendeu":"2025-01-15","nome":"Maria","cela":"B-3"}`
	var rec Record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if rec.ID != "abc" || rec.QuandoPrendeu != "2025-01-15" {
		t.Fatalf("named fields not extracted: %+v", rec)
	}
	if !rec.CreatedAt.Equal(time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)) {
		t.Fatalf("created_at = %v", rec.CreatedAt)
	}
	if rec.Fields["nome"] != "Maria" || rec.Fields["cela"] != "B-3" {
		t.Fatalf("open fields not kept: %v", rec.Fields)
	}
	if _, ok := rec.Fields["id"]; ok {
		t.Fatal("reserved key leaked into Fields")
	}
}

func TestRecordUnmarshalEmptyFieldsIsNil(t *testing.T) {
	var rec Record
	if err := json.Unmarshal([]byte(`{"id":"abc"}`), &rec); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if rec.Fields != nil {
		t.Fatalf("expected nil Fields, got %v", rec.Fields)
	}
}

func TestPayloadFromMap(t *testing.T) {
	p := PayloadFromMap(map[string]any{
		"id":             "forged",
		"created_at":     "2020-01-01T00:00:00Z",
		"quando_prendeu": "2025-01-15",
		"nome":           "Carlos",
	})
	if p.QuandoPrendeu == nil || *p.QuandoPrendeu != "2025-01-15" {
		t.Fatalf("quando_prendeu = %v", p.QuandoPrendeu)
	}
	if p.Fields["nome"] != "Carlos" {
		t.Fatalf("open field lost: %v", p.Fields)
	}
	if _, ok := p.Fields["id"]; ok {
		t.Fatal("client-supplied id should be dropped")
	}
	if _, ok := p.Fields["created_at"]; ok {
		t.Fatal("client-supplied created_at should be dropped")
	}
}

func TestPayloadFromMapNonStringDate(t *testing.T) {
	p := PayloadFromMap(map[string]any{"quando_prendeu": 42})
	if p.QuandoPrendeu == nil || *p.QuandoPrendeu != "" {
		t.Fatalf("non-string quando_prendeu should normalize to empty, got %v", p.QuandoPrendeu)
	}
	if p.Fields != nil {
		t.Fatalf("expected nil Fields, got %v", p.Fields)
	}
}

func TestPayloadFromMapAbsentDate(t *testing.T) {
	p := PayloadFromMap(map[string]any{"nome": "Rita"})
	if p.QuandoPrendeu != nil {
		t.Fatalf("absent quando_prendeu should stay nil, got %q", *p.QuandoPrendeu)
	}
}
