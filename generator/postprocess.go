package generator

import (
	"regexp"
	"strings"
)

const fence = "```"

// taggedFenceRe 匹配带语言标记的起始 fence 直到行尾。
var taggedFenceRe = regexp.MustCompile("```[A-Za-z0-9_+#.-]+[ \\t]*\\r?\\n")

// ExtractCode 去掉模型输出里的 markdown fence。带语言标记的 fence 优先，
// 只保留第一个代码块，结束 fence 之后的内容丢弃。没有 fence 时原样返回。
func ExtractCode(raw string) string {
	if loc := taggedFenceRe.FindStringIndex(raw); loc != nil {
		return untilFence(raw[loc[1]:])
	}
	if i := strings.Index(raw, fence); i >= 0 {
		rest := raw[i+len(fence):]
		rest = strings.TrimPrefix(rest, "\r")
		rest = strings.TrimPrefix(rest, "\n")
		return untilFence(rest)
	}
	return raw
}

func untilFence(s string) string {
	if j := strings.Index(s, fence); j >= 0 {
		return s[:j]
	}
	return s
}
