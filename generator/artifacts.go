package generator

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileArtifacts 把每个 microgame 写到 Dir/<name><Ext>，覆盖旧内容。
type FileArtifacts struct {
	Dir string
	Ext string
}

// Path 返回 name 的存放路径。
func (f FileArtifacts) Path(name string) string {
	ext := f.Ext
	if ext == "" {
		ext = ".ts"
	}
	return filepath.Join(f.Dir, name+ext)
}

func (f FileArtifacts) Save(name, code string) (string, error) {
	path := f.Path(name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(code), 0o644); err != nil {
		return "", fmt.Errorf("failed to write microgame: %w", err)
	}
	return path, nil
}
