// Package placeholder serves the authored bilingual content used whenever the
// content store has nothing usable for a page slot.
package placeholder

import (
	_ "embed"
	"errors"
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/lajketz/site/internal/i18n"
	"github.com/lajketz/site/internal/models"
)

//go:embed sets.yaml
var setsYAML []byte

// Set is the placeholder content for one language.
type Set struct {
	Hero     models.Hero                `yaml:"hero"`
	Stories  []models.StoryCard         `yaml:"stories"`
	Analyses []models.AnalysisCard      `yaml:"analyses"`
	Videos   []models.VideoCard         `yaml:"videos"`
	Snapshot []models.SnapshotMetric    `yaml:"snapshot"`
	Timeline []models.TimelineHighlight `yaml:"timeline"`
}

type file struct {
	Partners  []models.Partner  `yaml:"partners"`
	Languages map[i18n.Lang]Set `yaml:"languages"`
}

var sets = mustLoad(setsYAML)

func mustLoad(raw []byte) file {
	f, err := load(raw)
	if err != nil {
		panic(err)
	}
	return f
}

func load(raw []byte) (file, error) {
	var f file
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return file{}, fmt.Errorf("placeholder: decode sets: %w", err)
	}
	if len(f.Partners) == 0 {
		return file{}, errors.New("placeholder: no partners")
	}
	for _, l := range i18n.All {
		s, ok := f.Languages[l]
		if !ok {
			return file{}, fmt.Errorf("placeholder: missing set for %q", l)
		}
		if err := s.validate(); err != nil {
			return file{}, fmt.Errorf("placeholder: %q: %w", l, err)
		}
	}
	return f, nil
}

// validate enforces that no slot can ever render empty.
func (s Set) validate() error {
	switch {
	case s.Hero.Title == "":
		return errors.New("hero has no title")
	case len(s.Stories) == 0:
		return errors.New("no stories")
	case len(s.Analyses) == 0:
		return errors.New("no analyses")
	case len(s.Videos) == 0:
		return errors.New("no videos")
	case len(s.Snapshot) == 0:
		return errors.New("no snapshot metrics")
	case len(s.Timeline) == 0:
		return errors.New("no timeline highlights")
	}
	return nil
}

// For returns a copy of the set for l, so callers may modify it freely.
// Unknown languages get the default language's set.
func For(l i18n.Lang) Set {
	s, ok := sets.Languages[l]
	if !ok {
		s = sets.Languages[i18n.Default]
	}
	return Set{
		Hero:     s.Hero,
		Stories:  slices.Clone(s.Stories),
		Analyses: slices.Clone(s.Analyses),
		Videos:   slices.Clone(s.Videos),
		Snapshot: slices.Clone(s.Snapshot),
		Timeline: slices.Clone(s.Timeline),
	}
}

// Partners returns the fixed partner list, which is the same in every language.
func Partners() []models.Partner {
	return slices.Clone(sets.Partners)
}
