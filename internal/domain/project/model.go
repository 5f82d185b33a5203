package project

import (
	"sort"
	"strings"
	"time"
)

// Project is a named workspace holding files keyed by name
type Project struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Files     []File    `json:"files"`
	CreatedAt time.Time `json:"created_at"`
}

// File is a workspace file. Name is unique within its project.
type File struct {
	Name     string `json:"name"`
	Content  string `json:"content"`
	Language string `json:"language"`
}

// ProjectSummary is a lightweight representation for listing
type ProjectSummary struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	FileCount    int       `json:"file_count"`
	MessageCount int       `json:"message_count"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewFile builds a file with its language derived from the name.
func NewFile(name, content string) File {
	return File{Name: name, Content: content, Language: LanguageFor(name)}
}

// File returns the file called name.
func (p Project) File(name string) (File, bool) {
	for _, f := range p.Files {
		if f.Name == name {
			return f, true
		}
	}
	return File{}, false
}

// FileNames returns the sorted file names.
func (p Project) FileNames() []string {
	names := make([]string, 0, len(p.Files))
	for _, f := range p.Files {
		names = append(names, f.Name)
	}
	sort.Strings(names)
	return names
}

// ContextSummary is the file listing handed to the model.
func (p Project) ContextSummary() string {
	names := p.FileNames()
	if len(names) == 0 {
		return "No files yet"
	}
	return strings.Join(names, ", ")
}

// WithFile returns a copy of p where f replaces the file of the same name,
// or is appended when no such file exists. p is not modified.
func (p Project) WithFile(f File) Project {
	files := make([]File, 0, len(p.Files)+1)
	replaced := false
	for _, existing := range p.Files {
		if existing.Name == f.Name {
			files = append(files, f)
			replaced = true
			continue
		}
		files = append(files, existing)
	}
	if !replaced {
		files = append(files, f)
	}
	p.Files = files
	return p
}
