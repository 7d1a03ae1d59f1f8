package preso

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func newPGStoreWithMock(t *testing.T) (*PGStore, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	return NewPGStore(db), mock, func() { db.Close() }
}

func recordColumns() []string {
	return []string{"id", "created_at", "quando_prendeu", "data"}
}

func TestPGStoreList(t *testing.T) {
	store, mock, done := newPGStoreWithMock(t)
	defer done()

	now := time.Now().UTC()
	mock.ExpectQuery("select id, created_at, quando_prendeu, data from presos").
		WillReturnRows(sqlmock.NewRows(recordColumns()).
			AddRow("p2", now, "2025-01-15", []byte(`{"nome":"Maria"}`)).
			AddRow("p1", now.Add(-time.Hour), nil, []byte(`{}`)))

	records, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].ID != "p2" || records[0].Fields["nome"] != "Maria" {
		t.Fatalf("first record = %+v", records[0])
	}
	if records[1].QuandoPrendeu != "" || records[1].Fields != nil {
		t.Fatalf("null columns should scan to zero values: %+v", records[1])
	}
}

func TestPGStoreInsert(t *testing.T) {
	store, mock, done := newPGStoreWithMock(t)
	defer done()

	now := time.Now().UTC()
	quando := "2025-01-15"
	mock.ExpectQuery("insert into presos").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), []byte(`{"nome":"Carlos"}`)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))

	rec, err := store.Insert(context.Background(), Payload{
		QuandoPrendeu: &quando,
		Fields:        map[string]any{"nome": "Carlos"},
	})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if rec.ID == "" {
		t.Fatal("expected assigned id")
	}
	if rec.QuandoPrendeu != quando || !rec.CreatedAt.Equal(now) {
		t.Fatalf("record = %+v", rec)
	}
}

func TestPGStoreUpdateNotFound(t *testing.T) {
	store, mock, done := newPGStoreWithMock(t)
	defer done()

	mock.ExpectQuery("update presos").
		WillReturnRows(sqlmock.NewRows(recordColumns()))

	_, err := store.Update(context.Background(), "missing", Payload{})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGStoreUpdateMergesPayload(t *testing.T) {
	store, mock, done := newPGStoreWithMock(t)
	defer done()

	now := time.Now().UTC()
	mock.ExpectQuery("update presos").
		WithArgs("p1", sqlmock.AnyArg(), []byte(`{"cela":"B-3"}`)).
		WillReturnRows(sqlmock.NewRows(recordColumns()).
			AddRow("p1", now, "2025-01-15", []byte(`{"nome":"Maria","cela":"B-3"}`)))

	rec, err := store.Update(context.Background(), "p1", Payload{
		Fields: map[string]any{"cela": "B-3"},
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if rec.Fields["nome"] != "Maria" || rec.Fields["cela"] != "B-3" {
		t.Fatalf("merged fields = %v", rec.Fields)
	}
}

func TestPGStoreDeleteNotFound(t *testing.T) {
	store, mock, done := newPGStoreWithMock(t)
	defer done()

	mock.ExpectExec("delete from presos").
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := store.Delete(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGStoreDeleteMany(t *testing.T) {
	store, mock, done := newPGStoreWithMock(t)
	defer done()

	mock.ExpectExec("delete from presos").WithArgs("p1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("delete from presos").WithArgs("missing").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("delete from presos").WithArgs("p2").WillReturnResult(sqlmock.NewResult(0, 1))

	if err := store.DeleteMany(context.Background(), []string{"p1", "missing", "p2"}); err != nil {
		t.Fatalf("DeleteMany: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPGStoreDeleteManyStopsOnError(t *testing.T) {
	store, mock, done := newPGStoreWithMock(t)
	defer done()

	storeErr := errors.New("connection reset")
	mock.ExpectExec("delete from presos").WithArgs("p1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("delete from presos").WithArgs("p2").WillReturnError(storeErr)

	err := store.DeleteMany(context.Background(), []string{"p1", "p2", "p3"})
	if !errors.Is(err, storeErr) {
		t.Fatalf("expected store error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
