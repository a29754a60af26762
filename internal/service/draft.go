package service

import (
	"fmt"
	"slices"
	"strings"

	"github.com/dtroode/portfolio-server/internal/model"
)

// ProjectDraft is an edit session over one project. Nothing is persisted
// until Input is handed to Projects.Update.
type ProjectDraft struct {
	origin model.Project

	Name        string
	Description string
	Link        string
	Github      string
	Type        string

	coverImage  model.ImageRef
	screenshots []model.ImageRef
	keywords    []string
}

// NewProjectDraft opens a draft with the values of p.
func NewProjectDraft(p model.Project) *ProjectDraft {
	d := &ProjectDraft{origin: p}
	d.Cancel()
	return d
}

// Cancel drops every edit and restores the values the draft was opened with.
func (d *ProjectDraft) Cancel() {
	p := d.origin
	d.Name = p.Name
	d.Description = p.Description
	d.Link = p.Link
	d.Github = p.Github
	d.Type = p.Type
	d.coverImage = model.ResolvedImage(p.CoverImage)
	d.screenshots = model.ResolvedImages(p.ImageURLs())
	d.keywords = slices.Clone(p.Keywords)
}

// SetCoverImage replaces the cover image.
func (d *ProjectDraft) SetCoverImage(ref model.ImageRef) {
	d.coverImage = ref
}

// AddScreenshots appends screenshots after the existing ones.
func (d *ProjectDraft) AddScreenshots(refs ...model.ImageRef) {
	d.screenshots = append(slices.Clone(d.screenshots), refs...)
}

// ReplaceScreenshots swaps the whole screenshot list.
func (d *ProjectDraft) ReplaceScreenshots(refs []model.ImageRef) {
	d.screenshots = slices.Clone(refs)
}

// RemoveScreenshot drops the screenshot at index i.
func (d *ProjectDraft) RemoveScreenshot(i int) error {
	if i < 0 || i >= len(d.screenshots) {
		return fmt.Errorf("%w: screenshot index %d out of range", model.ErrInvalidInput, i)
	}
	d.screenshots = slices.Delete(slices.Clone(d.screenshots), i, i+1)
	return nil
}

// AddKeyword appends a trimmed keyword. Blank keywords are ignored.
func (d *ProjectDraft) AddKeyword(keyword string) bool {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return false
	}
	d.keywords = append(slices.Clone(d.keywords), keyword)
	return true
}

// ReplaceKeywords swaps the keyword list, dropping blank entries.
func (d *ProjectDraft) ReplaceKeywords(keywords []string) {
	d.keywords = model.NormalizeKeywords(keywords)
}

// DeleteKeyword drops the keyword at index i.
func (d *ProjectDraft) DeleteKeyword(i int) error {
	if i < 0 || i >= len(d.keywords) {
		return fmt.Errorf("%w: keyword index %d out of range", model.ErrInvalidInput, i)
	}
	d.keywords = slices.Delete(slices.Clone(d.keywords), i, i+1)
	return nil
}

// Keywords returns the draft keywords.
func (d *ProjectDraft) Keywords() []string {
	return slices.Clone(d.keywords)
}

// Screenshots returns the draft screenshot references.
func (d *ProjectDraft) Screenshots() []model.ImageRef {
	return slices.Clone(d.screenshots)
}

// Input builds the update request for the drafted project.
func (d *ProjectDraft) Input() model.ProjectInput {
	return model.ProjectInput{
		ID:          d.origin.ID,
		Name:        d.Name,
		Description: d.Description,
		CoverImage:  d.coverImage,
		Images:      slices.Clone(d.screenshots),
		Link:        d.Link,
		Github:      d.Github,
		Type:        d.Type,
		Keywords:    slices.Clone(d.keywords),
	}
}
