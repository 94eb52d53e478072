package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Bytes 计算内容的 SHA-256（小写 hex）。
// 用于代币清单与 PDF 回执的完整性标识。
func Bytes(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// Text 将多个字段按换行拼接后计算 SHA-256。
// 回执 PDF 用它给“交易哈希 + 区块 + 金额”等字段生成一个可复算的指纹。
func Text(parts ...string) string {
	h := sha256.New()
	for i, p := range parts {
		if i > 0 {
			_, _ = h.Write([]byte("\n"))
		}
		_, _ = h.Write([]byte(strings.TrimSpace(p)))
	}
	return hex.EncodeToString(h.Sum(nil))
}
