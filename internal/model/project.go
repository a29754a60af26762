package model

import (
	"fmt"
	"strings"
)

// ProjectImagesSeparator joins screenshot URLs in the persisted record.
const ProjectImagesSeparator = ","

// Project is a portfolio project. Its id is assigned on creation.
type Project struct {
	ID          string
	Name        string
	Description string
	CoverImage  string
	Images      string
	Link        string
	Github      string
	Type        string
	Keywords    []string
}

// ImageURLs splits the joined screenshot list.
func (p Project) ImageURLs() []string {
	return SplitImageURLs(p.Images)
}

// ProjectInput describes a project to create or update. ID is ignored on create.
type ProjectInput struct {
	ID          string
	Name        string
	Description string
	CoverImage  ImageRef
	Images      []ImageRef
	Link        string
	Github      string
	Type        string
	Keywords    []string
}

// Validate checks the input before any local or remote change.
func (in ProjectInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: project name is required", ErrInvalidInput)
	}
	return nil
}

// Document returns the persisted shape of the project.
func (p Project) Document() Document {
	keywords := p.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	return Document{
		"id":                 p.ID,
		"projectName":        p.Name,
		"projectDescription": p.Description,
		"projectCoverImage":  p.CoverImage,
		"projectImages":      p.Images,
		"projectLink":        p.Link,
		"projectGithub":      p.Github,
		"projectType":        p.Type,
		"keywords":           keywords,
	}
}

// ProjectFromDocument decodes a stored project using the document key as id.
func ProjectFromDocument(id string, doc Document) Project {
	return Project{
		ID:          id,
		Name:        doc.String("projectName"),
		Description: doc.String("projectDescription"),
		CoverImage:  doc.String("projectCoverImage"),
		Images:      doc.String("projectImages"),
		Link:        doc.String("projectLink"),
		Github:      doc.String("projectGithub"),
		Type:        doc.String("projectType"),
		Keywords:    doc.Strings("keywords"),
	}
}

// JoinImageURLs builds the comma-joined screenshot field, skipping empty entries.
func JoinImageURLs(urls []string) string {
	kept := make([]string, 0, len(urls))
	for _, u := range urls {
		if u = strings.TrimSpace(u); u != "" {
			kept = append(kept, u)
		}
	}
	return strings.Join(kept, ProjectImagesSeparator)
}

// SplitImageURLs is the inverse of JoinImageURLs.
func SplitImageURLs(joined string) []string {
	if strings.TrimSpace(joined) == "" {
		return nil
	}
	parts := strings.Split(joined, ProjectImagesSeparator)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// NormalizeKeywords trims keywords and drops empty ones, keeping order.
func NormalizeKeywords(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}
