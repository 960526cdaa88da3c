package testsupport

import (
	"os"
	"testing"
)

// LoadFixture reads a fixture file.
func LoadFixture(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// MustFixture reads a fixture file or fails the test.
func MustFixture(t testing.TB, path string) string {
	t.Helper()
	data, err := LoadFixture(path)
	if err != nil {
		t.Fatalf("load fixture %s: %v", path, err)
	}
	return string(data)
}
