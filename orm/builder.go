package orm

import (
	"strings"
)

// builder 拼接 SQL 的公共部分，每次 Build 都是一个新的 builder，
// 这样 Selector 本身的状态不会因为执行而改变
type builder struct {
	sb strings.Builder
}

// writeJoined 用 sep 拼接多个片段
func (b *builder) writeJoined(parts []string, sep string) {
	for i, p := range parts {
		if i > 0 {
			b.sb.WriteString(sep)
		}
		b.sb.WriteString(p)
	}
}

// writeLiteral 写一个字符串字面量，单引号需要转义
func (b *builder) writeLiteral(val string) {
	b.sb.WriteByte('\'')
	b.sb.WriteString(strings.ReplaceAll(val, "'", "''"))
	b.sb.WriteByte('\'')
}

// quote 只给简单的标识符加上 []，其余的比如 dbo.Foo 原样输出
func (b *builder) quote(name string) {
	if !isIdentifier(name) {
		b.sb.WriteString(name)
		return
	}
	b.sb.WriteByte('[')
	b.sb.WriteString(name)
	b.sb.WriteByte(']')
}

func isIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for _, c := range name {
		if c != '_' && (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}
