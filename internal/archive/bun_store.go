package archive

import (
	"context"
	"fmt"

	"github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-edxml/pkg/interfaces"
)

// BunStore persists conversions through go-repository-bun.
type BunStore struct {
	repo repository.Repository[*Record]
}

// NewBunStore wraps db. Call EnsureSchema once before first use.
func NewBunStore(db *bun.DB) *BunStore {
	return &BunStore{repo: NewRecordRepository(db)}
}

// EnsureSchema creates the archive table when missing.
func EnsureSchema(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*Record)(nil)).IfNotExists().Exec(ctx)
	return err
}

var _ interfaces.ConversionArchive = (*BunStore)(nil)

// Lookup returns nil without error when key is unknown.
func (s *BunStore) Lookup(ctx context.Context, key string) (*interfaces.ArchivedConversion, error) {
	record, err := s.repo.GetByIdentifier(ctx, key)
	if err != nil {
		if errors.IsCategory(err, repository.CategoryDatabaseNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("archive lookup %s: %w", key, err)
	}
	return toConversion(record), nil
}

// Save inserts entry or refreshes the stored Markdown for its key.
func (s *BunStore) Save(ctx context.Context, entry interfaces.ArchivedConversion) error {
	record := fromConversion(entry)

	existing, err := s.repo.GetByIdentifier(ctx, entry.Key)
	switch {
	case err == nil:
		record.ID = existing.ID
		record.CreatedAt = existing.CreatedAt
		_, err = s.repo.Update(ctx, record,
			repository.UpdateByID(record.ID.String()),
			repository.UpdateColumns("fingerprint", "source", "markdown", "updated_at"),
		)
	case errors.IsCategory(err, repository.CategoryDatabaseNotFound):
		_, err = s.repo.Create(ctx, record)
	}
	if err != nil {
		return fmt.Errorf("archive save %s: %w", entry.Key, err)
	}
	return nil
}

// List returns every archived conversion.
func (s *BunStore) List(ctx context.Context) ([]interfaces.ArchivedConversion, error) {
	records, _, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]interfaces.ArchivedConversion, 0, len(records))
	for _, record := range records {
		out = append(out, *toConversion(record))
	}
	return out, nil
}

func fromConversion(entry interfaces.ArchivedConversion) *Record {
	return &Record{
		ID:          RecordID(entry.Key),
		Key:         entry.Key,
		Fingerprint: entry.Fingerprint,
		Source:      entry.Source,
		Markdown:    entry.Markdown,
		CreatedAt:   entry.CreatedAt,
		UpdatedAt:   entry.CreatedAt,
	}
}

func toConversion(record *Record) *interfaces.ArchivedConversion {
	return &interfaces.ArchivedConversion{
		Key:         record.Key,
		Fingerprint: record.Fingerprint,
		Source:      record.Source,
		Markdown:    record.Markdown,
		CreatedAt:   record.CreatedAt,
	}
}
