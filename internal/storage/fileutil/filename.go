package fileutil

import (
	"regexp"
	"strings"
)

var (
	specialChars = regexp.MustCompile(`[<>:"/\\|?*]`)
	spaceRuns    = regexp.MustCompile(`\s+`)
	dotRuns      = regexp.MustCompile(`\.+`)
)

// CleanFilename 清理客户端提交的文件名：替换特殊字符、压缩空白和点号、
// 截断超长主干（扩展名不截断）。永不失败，最坏情况返回空主干加扩展名。
func CleanFilename(filename string, maxLength int) string {
	filename = specialChars.ReplaceAllString(filename, "_")
	filename = strings.TrimSpace(spaceRuns.ReplaceAllString(filename, " "))
	filename = dotRuns.ReplaceAllString(filename, ".")

	stem, ext := SplitExt(filename)
	if maxLength > 0 {
		// 按字符截断，避免把多字节字符从中间切开
		if runes := []rune(stem); len(runes) > maxLength {
			stem = string(runes[:maxLength])
		}
	}

	return stem + ext
}

// SplitExt 在最后一个点号处分割文件名为主干和扩展名。
// 点号开头的隐藏文件名和无点号的文件名都视为没有扩展名。
func SplitExt(filename string) (stem, ext string) {
	idx := strings.LastIndex(filename, ".")
	if idx <= 0 {
		return filename, ""
	}
	return filename[:idx], filename[idx:]
}

// Ext 返回小写的扩展名（带点），没有扩展名时返回空字符串。
func Ext(filename string) string {
	_, ext := SplitExt(filename)
	return strings.ToLower(ext)
}
