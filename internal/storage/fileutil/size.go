package fileutil

import (
	"math"
	"strconv"
)

// 大小单位表，按 1024 进位
var sizeUnits = []string{"B", "KB", "MB", "GB", "TB"}

// FormatSize 将字节数格式化为人类可读的大小字符串。
// 0 返回 "0 B"；超出 TB 范围时按最大单位显示；负数按 0 处理。
func FormatSize(sizeBytes int64) string {
	if sizeBytes <= 0 {
		return "0 B"
	}

	i := int(math.Floor(math.Log(float64(sizeBytes)) / math.Log(1024)))
	if i < 0 {
		i = 0
	}
	if i > len(sizeUnits)-1 {
		i = len(sizeUnits) - 1
	}

	value := float64(sizeBytes) / math.Pow(1024, float64(i))
	rounded := math.Round(value*100) / 100

	return strconv.FormatFloat(rounded, 'f', -1, 64) + " " + sizeUnits[i]
}
