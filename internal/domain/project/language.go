package project

import (
	"path"
	"strings"
)

var languagesByExt = map[string]string{
	".ts":   "typescript",
	".tsx":  "typescript",
	".js":   "javascript",
	".jsx":  "javascript",
	".mjs":  "javascript",
	".go":   "go",
	".py":   "python",
	".rs":   "rust",
	".java": "java",
	".rb":   "ruby",
	".c":    "c",
	".h":    "c",
	".cpp":  "cpp",
	".json": "json",
	".md":   "markdown",
	".html": "html",
	".css":  "css",
	".yaml": "yaml",
	".yml":  "yaml",
	".toml": "toml",
	".sql":  "sql",
	".sh":   "shell",
}

// LanguageFor derives a language tag from a file name's extension.
func LanguageFor(name string) string {
	ext := strings.ToLower(path.Ext(name))
	if lang, ok := languagesByExt[ext]; ok {
		return lang
	}
	return "plaintext"
}
