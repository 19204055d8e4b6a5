// file: utils/code_generator.go
package utils

import (
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var seededRand *rand.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9.\-_]+`)

// GenerateAccessCode 生成指定长度的队伍登录口令
func GenerateAccessCode(length int) string {
	var sb strings.Builder
	sb.Grow(length)
	for i := 0; i < length; i++ {
		sb.WriteByte(charset[seededRand.Intn(len(charset))])
	}
	return sb.String()
}

// SanitizeFilename 清洗文件名，只保留字母、数字、点、横线、下划线
func SanitizeFilename(filename string) string {
	return unsafeFilenameChars.ReplaceAllString(filename, "_")
}

// GenerateEvidenceKey 生成证据文件在对象存储里的唯一 key
func GenerateEvidenceKey(sessionID uint32, assignmentNumber uint16, originalFilename string) string {
	return fmt.Sprintf("evidence/%d/%d/%s-%s",
		sessionID, assignmentNumber, uuid.New().String(), SanitizeFilename(originalFilename))
}
