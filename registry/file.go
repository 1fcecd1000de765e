package registry

import (
	"fmt"
	"os"

	"go.uber.org/zap"
)

// File is a registry document on disk. It assumes a single writer.
type File struct {
	Path   string
	Mode   Mode
	Logger *zap.Logger
}

// Register patches the document at f.Path with entry and writes it back.
// The file is only rewritten when the patch applies.
func (f *File) Register(entry Entry) error {
	info, err := os.Stat(f.Path)
	if err != nil {
		return fmt.Errorf("read registry: %w", err)
	}
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return fmt.Errorf("read registry: %w", err)
	}
	patched, err := Patch(string(data), entry, f.Mode)
	if err != nil {
		return fmt.Errorf("patch %s: %w", f.Path, err)
	}
	if err := os.WriteFile(f.Path, []byte(patched), info.Mode().Perm()); err != nil {
		return fmt.Errorf("write registry: %w", err)
	}
	if f.Logger != nil {
		f.Logger.Info("registry updated", zap.String("path", f.Path), zap.String("key", entry.Key), zap.String("mode", string(f.Mode)))
	}
	return nil
}
