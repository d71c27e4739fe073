package tools

import (
	"strings"

	"github.com/google/uuid"
)

// UUID 去掉'-'的32位uuid
func UUID() string {
	return strings.Replace(uuid.NewString(), "-", "", 4)
}

// ShortUUID 取UUID的前n位，n超出范围时返回完整UUID
func ShortUUID(n int) string {
	u := UUID()
	if n <= 0 || n >= len(u) {
		return u
	}
	return u[:n]
}
