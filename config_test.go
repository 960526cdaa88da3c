package edxml_test

import (
	"errors"
	"testing"

	"github.com/goliatone/go-edxml"
)

func TestConfigValidateFileModeRequiresDir(t *testing.T) {
	cfg := edxml.DefaultConfig()
	cfg.Images.Mode = edxml.ImageModeFile
	if err := cfg.Validate(); !errors.Is(err, edxml.ErrImageDirRequired) {
		t.Fatalf("expected ErrImageDirRequired, got %v", err)
	}
}

func TestConfigValidateArchiveRequiresFeature(t *testing.T) {
	cfg := edxml.DefaultConfig()
	cfg.Archive.DSN = "file:archive.db"
	if err := cfg.Validate(); !errors.Is(err, edxml.ErrArchiveFeatureRequired) {
		t.Fatalf("expected ErrArchiveFeatureRequired, got %v", err)
	}
}

func TestConfigValidatePandocRequiresPath(t *testing.T) {
	cfg := edxml.DefaultConfig()
	cfg.Converter.Engine = edxml.EnginePandoc
	cfg.Converter.PandocPath = " "
	if err := cfg.Validate(); !errors.Is(err, edxml.ErrPandocPathRequired) {
		t.Fatalf("expected ErrPandocPathRequired, got %v", err)
	}
}

func TestDefaultConfigIsValid(t *testing.T) {
	if err := edxml.DefaultConfig().Validate(); err != nil {
		t.Fatalf("expected default config to validate, got %v", err)
	}
}
