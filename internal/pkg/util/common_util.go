package util

import (
	"regexp"
	"strings"
	"time"
)

var (
	tagRegex     = regexp.MustCompile(`#(\S+)`)
	mentionRegex = regexp.MustCompile(`@(\w+)`)
)

// ExtractTags 提取去重后的话题标签列表（不含 # 前缀）
func ExtractTags(rawContent string) []string {
	matches := tagRegex.FindAllStringSubmatch(rawContent, -1)

	tagSet := make(map[string]struct{})
	var tags []string

	for _, m := range matches {
		if len(m) > 1 {
			tagName := m[1]

			tagName = strings.Trim(tagName, ".,，。!?！？")

			if tagName != "" {
				if _, exists := tagSet[tagName]; !exists {
					tagSet[tagName] = struct{}{}
					tags = append(tags, tagName)
				}
			}
		}
	}

	return tags
}

// CountMentions 统计 @ 提及数量
func CountMentions(rawContent string) int {
	return len(mentionRegex.FindAllString(rawContent, -1))
}

// GetMidnight 归一化到当天零点
func GetMidnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DateString 格式化为 2006-01-02
func DateString(t time.Time) string {
	return t.Format(time.DateOnly)
}

// PtrInt 用于将 int 转换为 *int
func PtrInt(i int) *int {
	return &i
}

// PtrBool 用于将 bool 转换为 *bool
func PtrBool(b bool) *bool {
	return &b
}
