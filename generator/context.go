package generator

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// 上下文文档的 key。
const (
	KeyBaseMicrogame = "base_microgame"
	KeyExampleCatch  = "example_catch"
	KeyInstructions  = "instructions"
)

// DefaultContextFiles 把 key 映射到相对项目根目录的路径。
var DefaultContextFiles = map[string]string{
	KeyBaseMicrogame: "src/scenes/BaseMicrogame.ts",
	KeyExampleCatch:  "src/scenes/microgames/CatchGame.ts",
	KeyInstructions:  "microgame_instructions.md",
}

// ContextBundle 保存嵌入 system prompt 的参考文档。
type ContextBundle map[string]string

// Get 返回 key 对应的文档，未加载时返回 ""。
func (b ContextBundle) Get(key string) string {
	return b[key]
}

// LoadContextBundle 读取 baseDir 下的各个文件。读不到的文件直接跳过，
// 只是让提示词少一些参考。
func LoadContextBundle(baseDir string, files map[string]string, logger *zap.Logger) ContextBundle {
	if logger == nil {
		logger = zap.NewNop()
	}
	bundle := make(ContextBundle, len(files))
	for key, rel := range files {
		path := filepath.Join(baseDir, rel)
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Debug("context file skipped", zap.String("key", key), zap.String("path", path), zap.Error(err))
			continue
		}
		bundle[key] = string(data)
	}
	return bundle
}
