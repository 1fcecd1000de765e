package generator

import (
	"fmt"
	"strings"
)

// Prompt 表示发送给 LLM 的消息集合。
type Prompt struct {
	System string
	User   string
}

// Message 是一条聊天消息。
type Message struct {
	Role    string
	Content string
}

// Messages 按后端要求的顺序返回 system 和 user 消息。
func (p Prompt) Messages() []Message {
	return []Message{
		{Role: "system", Content: p.System},
		{Role: "user", Content: p.User},
	}
}

var authoringRules = []string{
	"Output ONLY the TypeScript code for the microgame class",
	"Class name MUST match the key passed to super()",
	"MUST implement all abstract methods from BaseMicrogame",
	"MUST call setWinState() or setFailState() based on game outcome",
	"MUST clean up ALL event listeners in cleanupControls()",
	"Use GAME_WIDTH (800) and GAME_HEIGHT (600) for positioning",
	"Keep it simple - players have only 3-5 seconds",
}

// BuildSystemPrompt 嵌入参考文档和编写规则。
func BuildSystemPrompt(bundle ContextBundle) string {
	var sb strings.Builder
	sb.WriteString("You are an expert TypeScript/Phaser game developer creating microgames for VibeWare.\n\n")
	sb.WriteString("CONTEXT FILES:\n\n")
	sb.WriteString("=== BaseMicrogame.ts (MUST EXTEND THIS) ===\n")
	sb.WriteString(bundle.Get(KeyBaseMicrogame))
	sb.WriteString("\n\n=== Example: CatchGame.ts ===\n")
	sb.WriteString(bundle.Get(KeyExampleCatch))
	sb.WriteString("\n\n=== Instructions ===\n")
	sb.WriteString(bundle.Get(KeyInstructions))
	sb.WriteString("\n\nCRITICAL REQUIREMENTS:\n")
	for i, rule := range authoringRules {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, rule))
	}
	sb.WriteString("\nDo not include any explanations, comments outside the code, or markdown code blocks.\n")
	sb.WriteString("Just output the pure TypeScript code.")
	return sb.String()
}

// BuildUserPrompt 描述要生成的 microgame。
func BuildUserPrompt(req Request) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Create a microgame called %s with the following specifications:\n\n", req.Name))
	sb.WriteString(fmt.Sprintf("Game Name: %s\n", req.Name))
	sb.WriteString(fmt.Sprintf("Prompt (shown to player): %s\n", req.Prompt))
	sb.WriteString(fmt.Sprintf("Description: %s\n", req.Description))
	sb.WriteString(fmt.Sprintf("Controls: %s\n", req.Controls))
	sb.WriteString(fmt.Sprintf("Game Concept: %s\n\n", req.Concept))
	sb.WriteString(fmt.Sprintf("Generate the complete TypeScript code for this microgame. The class name should be %s.", req.Name))
	return sb.String()
}

// AppendFeedback 把校验诊断追加到 user prompt。
func AppendFeedback(user, diagnostics string) string {
	return fmt.Sprintf("%s\n\nThe previous attempt failed validation with these errors:\n%s\n\nPlease fix these issues and generate the corrected code.",
		user, diagnostics)
}
