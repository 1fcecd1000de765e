package generator

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// MockLLM 一个简单的占位实现，便于本地调试，不调用外部模型。
// 返回一个以请求类名命名的最小 microgame 代码块。
type MockLLM struct{}

var gameNameRe = regexp.MustCompile(`The class name should be (\w+)\.`)

func (m MockLLM) Complete(_ context.Context, _ string, prompt Prompt) (string, error) {
	name := "MockGame"
	if match := gameNameRe.FindStringSubmatch(prompt.User); len(match) == 2 {
		name = match[1]
	}
	var sb strings.Builder
	sb.WriteString("```typescript\n")
	sb.WriteString("import BaseMicrogame from '../BaseMicrogame';\n")
	sb.WriteString("import { GAME_WIDTH, GAME_HEIGHT } from '../../GameConfig';\n\n")
	sb.WriteString(fmt.Sprintf("export default class %s extends BaseMicrogame {\n", name))
	sb.WriteString("    private target?: Phaser.GameObjects.Arc;\n\n")
	sb.WriteString("    constructor() {\n")
	sb.WriteString(fmt.Sprintf("        super({ key: '%s' });\n", name))
	sb.WriteString("    }\n\n")
	sb.WriteString("    getPrompt(): string {\n        return 'CLICK!';\n    }\n\n")
	sb.WriteString("    getGameDuration(): number {\n        return 4000;\n    }\n\n")
	sb.WriteString("    setupGame(): void {\n")
	sb.WriteString("        this.target = this.add.circle(GAME_WIDTH / 2, GAME_HEIGHT / 2, 40, 0xff0000);\n")
	sb.WriteString("    }\n\n")
	sb.WriteString("    setupControls(): void {\n")
	sb.WriteString("        this.target?.setInteractive().on('pointerdown', () => this.setWinState());\n")
	sb.WriteString("    }\n\n")
	sb.WriteString("    cleanupControls(): void {\n")
	sb.WriteString("        this.target?.off('pointerdown');\n")
	sb.WriteString("    }\n")
	sb.WriteString("}\n")
	sb.WriteString("```\n")
	return sb.String(), nil
}
