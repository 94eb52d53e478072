package id

import (
	"github.com/google/uuid"
)

// New 生成带前缀的唯一 ID：prefix + "_" + UUIDv4（去掉连字符）。
// 前缀便于在日志里一眼区分 ID 类型（req_ / rcpt_）。
func New(prefix string) string {
	u := uuid.New()
	s := u.String()
	out := make([]byte, 0, len(prefix)+1+32)
	out = append(out, prefix...)
	out = append(out, '_')
	for i := 0; i < len(s); i++ {
		if s[i] != '-' {
			out = append(out, s[i])
		}
	}
	return string(out)
}

// Valid 判断 s 是否为 New(prefix) 生成的格式。
func Valid(prefix, s string) bool {
	if len(s) != len(prefix)+1+32 || s[:len(prefix)] != prefix || s[len(prefix)] != '_' {
		return false
	}
	_, err := uuid.Parse(s[len(prefix)+1:])
	return err == nil
}
