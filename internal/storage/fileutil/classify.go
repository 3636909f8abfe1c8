package fileutil

import "mime"

// iconMap 扩展名到前端图标类名的静态映射
var iconMap = map[string]string{
	// 文档类
	".pdf":  "fas fa-file-pdf text-danger",
	".doc":  "fas fa-file-word text-primary",
	".docx": "fas fa-file-word text-primary",
	".xls":  "fas fa-file-excel text-success",
	".xlsx": "fas fa-file-excel text-success",
	".ppt":  "fas fa-file-powerpoint text-warning",
	".pptx": "fas fa-file-powerpoint text-warning",

	// 图片类
	".jpg":  "fas fa-file-image text-info",
	".jpeg": "fas fa-file-image text-info",
	".png":  "fas fa-file-image text-info",
	".gif":  "fas fa-file-image text-info",
	".bmp":  "fas fa-file-image text-info",
	".svg":  "fas fa-file-image text-info",
	".webp": "fas fa-file-image text-info",

	// 视频类
	".mp4":  "fas fa-file-video text-purple",
	".avi":  "fas fa-file-video text-purple",
	".mov":  "fas fa-file-video text-purple",
	".wmv":  "fas fa-file-video text-purple",
	".flv":  "fas fa-file-video text-purple",
	".webm": "fas fa-file-video text-purple",

	// 音频类
	".mp3":  "fas fa-file-audio text-success",
	".wav":  "fas fa-file-audio text-success",
	".flac": "fas fa-file-audio text-success",
	".aac":  "fas fa-file-audio text-success",
	".ogg":  "fas fa-file-audio text-success",

	// 压缩包类
	".zip": "fas fa-file-archive text-warning",
	".rar": "fas fa-file-archive text-warning",
	".7z":  "fas fa-file-archive text-warning",
	".tar": "fas fa-file-archive text-warning",
	".gz":  "fas fa-file-archive text-warning",

	// 文本类
	".txt": "fas fa-file-alt text-secondary",
	".md":  "fas fa-file-alt text-info",
	".rtf": "fas fa-file-alt text-secondary",

	// 代码类
	".py":   "fas fa-file-code text-success",
	".js":   "fas fa-file-code text-warning",
	".html": "fas fa-file-code text-danger",
	".css":  "fas fa-file-code text-primary",
	".php":  "fas fa-file-code text-purple",
	".java": "fas fa-file-code text-danger",
	".cpp":  "fas fa-file-code text-info",
	".c":    "fas fa-file-code text-info",
	".json": "fas fa-file-code text-warning",
	".xml":  "fas fa-file-code text-success",
	".sql":  "fas fa-file-code text-primary",
}

// typeMap 扩展名到类型显示名称的静态映射
var typeMap = map[string]string{
	".pdf":  "PDF文档",
	".doc":  "Word文档",
	".docx": "Word文档",
	".xls":  "Excel表格",
	".xlsx": "Excel表格",
	".ppt":  "PowerPoint演示",
	".pptx": "PowerPoint演示",
	".jpg":  "图片",
	".jpeg": "图片",
	".png":  "图片",
	".gif":  "动图",
	".mp4":  "视频",
	".avi":  "视频",
	".mp3":  "音频",
	".wav":  "音频",
	".zip":  "压缩包",
	".rar":  "压缩包",
	".txt":  "文本文件",
	".py":   "Python代码",
	".js":   "JavaScript代码",
	".html": "HTML文件",
	".css":  "CSS样式",
}

// IconClass 根据文件名扩展名返回图标类名，未知类型返回默认图标
func IconClass(filename string) string {
	if icon, ok := iconMap[Ext(filename)]; ok {
		return icon
	}
	return "fas fa-file text-secondary"
}

// TypeLabel 返回文件类型的显示名称，未知类型返回默认名称
func TypeLabel(filename string) string {
	if label, ok := typeMap[Ext(filename)]; ok {
		return label
	}
	return "未知类型"
}

// ContentType 根据扩展名推断 MIME 类型，推断不出时回退为二进制流
func ContentType(filename string) string {
	if ct := mime.TypeByExtension(Ext(filename)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
