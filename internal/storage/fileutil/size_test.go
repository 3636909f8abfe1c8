package fileutil

import (
	"strings"
	"testing"
)

func TestFormatSize(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{0, "0 B"},
		{-1, "0 B"},
		{1, "1 B"},
		{512, "512 B"},
		{1023, "1023 B"},
		{1024, "1 KB"},
		{1536, "1.5 KB"},
		{1500, "1.46 KB"},
		{1024 * 1024, "1 MB"},
		{100 * 1024 * 1024, "100 MB"},
		{35 * 1024 * 1024 * 1024, "35 GB"},
		{1024 * 1024 * 1024 * 1024, "1 TB"},
		// 超出 TB 范围时按最大单位显示
		{2048 * 1024 * 1024 * 1024 * 1024, "2048 TB"},
	}

	for _, tt := range tests {
		if got := FormatSize(tt.bytes); got != tt.want {
			t.Errorf("FormatSize(%d) = %q, want %q", tt.bytes, got, tt.want)
		}
	}
}

func TestFormatSizeAlwaysHasUnit(t *testing.T) {
	// 任意非负字节数都应返回非空结果，且单位在已知单位表内
	samples := []int64{0, 1, 999, 1024, 1 << 20, 1 << 30, 1 << 40, 1 << 50}

	for _, b := range samples {
		got := FormatSize(b)
		if got == "" {
			t.Fatalf("FormatSize(%d) returned empty string", b)
		}

		valid := false
		for _, unit := range sizeUnits {
			if strings.HasSuffix(got, " "+unit) {
				valid = true
				break
			}
		}
		if !valid {
			t.Errorf("FormatSize(%d) = %q, unit not in %v", b, got, sizeUnits)
		}
	}
}
