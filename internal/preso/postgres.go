package preso

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"custodia.org/internal/ids"
)

var _ Store = (*PGStore)(nil)

// PGStore implements Store using PostgreSQL. The open payload lives in a
// JSONB column; partial updates merge into it server-side.
type PGStore struct {
	db *sql.DB
}

func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) List(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`select id, created_at, quando_prendeu, data from presos order by created_at desc`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *PGStore) Insert(ctx context.Context, p Payload) (Record, error) {
	rec := Record{
		ID:     ids.New(),
		Fields: p.Fields,
	}
	if p.QuandoPrendeu != nil {
		rec.QuandoPrendeu = *p.QuandoPrendeu
	}
	data, err := marshalFields(p.Fields)
	if err != nil {
		return Record{}, err
	}
	err = s.db.QueryRowContext(ctx,
		`insert into presos(id, quando_prendeu, data) values($1,$2,$3) returning created_at`,
		rec.ID, nullString(p.QuandoPrendeu), data,
	).Scan(&rec.CreatedAt)
	if err != nil {
		return Record{}, err
	}
	return rec, nil
}

func (s *PGStore) Update(ctx context.Context, id string, p Payload) (Record, error) {
	data, err := marshalFields(p.Fields)
	if err != nil {
		return Record{}, err
	}
	row := s.db.QueryRowContext(ctx,
		`update presos
		 set quando_prendeu = coalesce($2, quando_prendeu),
		     data = data || $3::jsonb
		 where id = $1
		 returning id, created_at, quando_prendeu, data`,
		id, nullString(p.QuandoPrendeu), data,
	)
	rec, err := scanRecord(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}
	return rec, nil
}

func (s *PGStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `delete from presos where id=$1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteMany issues one delete per id and stops on the first store error.
// Earlier deletions are not rolled back; ids without a row are skipped.
func (s *PGStore) DeleteMany(ctx context.Context, ids []string) error {
	for _, id := range ids {
		if _, err := s.db.ExecContext(ctx, `delete from presos where id=$1`, id); err != nil {
			return err
		}
	}
	return nil
}

func scanRecord(scan func(...any) error) (Record, error) {
	var (
		rec    Record
		quando sql.NullString
		data   []byte
	)
	if err := scan(&rec.ID, &rec.CreatedAt, &quando, &data); err != nil {
		return Record{}, err
	}
	if quando.Valid {
		rec.QuandoPrendeu = quando.String
	}
	if len(data) > 0 {
		var fields map[string]any
		if err := json.Unmarshal(data, &fields); err != nil {
			return Record{}, err
		}
		if len(fields) > 0 {
			rec.Fields = fields
		}
	}
	return rec, nil
}

func marshalFields(fields map[string]any) ([]byte, error) {
	if len(fields) == 0 {
		return []byte(`{}`), nil
	}
	return json.Marshal(fields)
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
