package model

import (
	"fmt"
	"strings"
)

// Skill levels are percentages.
const (
	MinSkillLevel = 0
	MaxSkillLevel = 100
)

// Skill is a listed skill. Its name is the document key.
type Skill struct {
	Name        string
	Image       string
	Level       int
	Description string
}

// SkillInput describes a skill to create or update.
type SkillInput struct {
	Name        string
	Image       ImageRef
	Level       int
	Description string
}

// Validate checks the input before any local or remote change.
func (in SkillInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: skill name is required", ErrInvalidInput)
	}
	if in.Level < MinSkillLevel || in.Level > MaxSkillLevel {
		return fmt.Errorf("%w: skill level %d out of range %d-%d", ErrInvalidInput, in.Level, MinSkillLevel, MaxSkillLevel)
	}
	return nil
}

// Document returns the persisted shape of the skill.
func (s Skill) Document() Document {
	return Document{
		"skillName":        s.Name,
		"skillImage":       s.Image,
		"skillLevel":       s.Level,
		"skillDescription": s.Description,
	}
}

// SkillFromDocument decodes a stored skill. The document key wins over the
// skillName field.
func SkillFromDocument(id string, doc Document) (Skill, error) {
	level, err := doc.Int("skillLevel")
	if err != nil {
		return Skill{}, fmt.Errorf("failed to decode skill %s: %w", id, err)
	}
	name := id
	if name == "" {
		name = doc.String("skillName")
	}
	return Skill{
		Name:        name,
		Image:       doc.String("skillImage"),
		Level:       level,
		Description: doc.String("skillDescription"),
	}, nil
}
