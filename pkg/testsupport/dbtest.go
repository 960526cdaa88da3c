package testsupport

import (
	"database/sql"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

var memoryDBs atomic.Int64

// MemoryDSN returns a sqlite DSN for a private in-memory database named
// after the test, so parallel tests never see each other's archive rows.
func MemoryDSN(t testing.TB) string {
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	return fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, memoryDBs.Add(1))
}

// NewBunDB opens a bun database over a private in-memory sqlite database and
// closes it when the test ends.
func NewBunDB(t testing.TB) *bun.DB {
	t.Helper()
	sqlDB, err := sql.Open("sqlite3", MemoryDSN(t))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db := bun.NewDB(sqlDB, sqlitedialect.New())
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}
