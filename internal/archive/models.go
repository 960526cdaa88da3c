package archive

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Record is a memoized conversion persisted by the bun store.
type Record struct {
	bun.BaseModel `bun:"table:edxml_conversions,alias:cv"`

	ID          uuid.UUID `bun:",pk,type:uuid" json:"id"`
	Key         string    `bun:"key,notnull,unique" json:"key"`
	Fingerprint string    `bun:"fingerprint,notnull" json:"fingerprint"`
	Source      string    `bun:"source,notnull" json:"source"`
	Markdown    string    `bun:"markdown,notnull" json:"markdown"`
	CreatedAt   time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

var recordNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/goliatone/go-edxml/archive"))

// RecordID derives a stable identifier from an archive key.
func RecordID(key string) uuid.UUID {
	return uuid.NewSHA1(recordNamespace, []byte(key))
}
