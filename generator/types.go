package generator

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/areibman/vibeshift/registry"
	"github.com/areibman/vibeshift/validator"
)

// NameSuffix 是所有 microgame 类名的后缀。
const NameSuffix = "Game"

// Request 描述调用方要生成的 microgame。
type Request struct {
	Name        string `json:"name"`
	Prompt      string `json:"prompt"`
	Description string `json:"description"`
	Controls    string `json:"controls"`
	Concept     string `json:"concept"`
	Model       string `json:"model"`
}

// Normalize 返回 Name 带 Game 后缀的副本。
func (r Request) Normalize() Request {
	r.Name = NormalizeName(r.Name)
	return r
}

// Entry 生成该请求对应的 registry 元数据。
func (r Request) Entry() registry.Entry {
	return registry.Entry{
		Key:         r.Name,
		Name:        DisplayName(r.Name),
		Prompt:      r.Prompt,
		Description: r.Description,
		Controls:    r.Controls,
	}
}

// NormalizeName 去掉首尾空白，缺少时补上 NameSuffix。
func NormalizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" || strings.HasSuffix(name, NameSuffix) {
		return name
	}
	return name + NameSuffix
}

var namePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidateName 要求类名是合法标识符：它同时是文件名和 registry.ts 里的 import 名。
func ValidateName(name string) error {
	if !namePattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// NormalizePrompt 把玩家提示转成大写并保证以 "!" 结尾。
func NormalizePrompt(prompt string) string {
	prompt = strings.ToUpper(strings.TrimSpace(prompt))
	if !strings.HasSuffix(prompt, "!") {
		prompt += "!"
	}
	return prompt
}

// DisplayName 把类名转成 registry 里展示的名称：
// "ClickGame" -> "Click Game", "multi_word_gameGame" -> "Multi Word Game Game".
func DisplayName(name string) string {
	spaced := strings.ReplaceAll(name, NameSuffix, " "+NameSuffix)
	spaced = strings.ReplaceAll(spaced, "_", " ")
	caser := cases.Title(language.English)
	words := strings.Fields(spaced)
	for i, w := range words {
		words[i] = caser.String(w)
	}
	return strings.Join(words, " ")
}

// ValidationResult 是一次尝试的校验结果。
type ValidationResult = validator.Result

// Attempt 记录一次 generate -> patch -> validate 循环。
type Attempt struct {
	Index         int               `json:"index"`
	GeneratedText string            `json:"generated_text"`
	Code          string            `json:"code"`
	ArtifactPath  string            `json:"artifact_path,omitempty"`
	Validation    *ValidationResult `json:"validation,omitempty"`
	Err           string            `json:"error,omitempty"`
}
