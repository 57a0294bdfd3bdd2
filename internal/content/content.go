// Package content loads the site's copy from a YAML file and keeps a
// hot-swappable snapshot of it for the server to render.
package content

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// Site is everything the pages render: hero, about, projects, skills, and
// the work/education fragments.
type Site struct {
	Hero      Hero         `yaml:"hero"`
	About     string       `yaml:"about"`
	Projects  []Project    `yaml:"projects"`
	Skills    []SkillGroup `yaml:"skills"`
	Work      []Experience `yaml:"work"`
	Education []Experience `yaml:"education"`
	Contact   Contact      `yaml:"contact"`
}

// Hero holds the landing section, including the phrase list the typing
// animation cycles through.
type Hero struct {
	Greeting string   `yaml:"greeting"`
	Name     string   `yaml:"name"`
	Phrases  []string `yaml:"phrases"`
	Tagline  string   `yaml:"tagline"`
}

type Project struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Tech        []string `yaml:"tech"`
	Link        string   `yaml:"link"`
}

type SkillGroup struct {
	Name  string   `yaml:"name"`
	Items []string `yaml:"items"`
}

// Experience is one work or education entry.
type Experience struct {
	Title   string   `yaml:"title"`
	Org     string   `yaml:"org"`
	Start   string   `yaml:"start"`
	End     string   `yaml:"end"`
	Logo    string   `yaml:"logo"`
	Bullets []string `yaml:"bullets"`
}

type Contact struct {
	Heading string `yaml:"heading"`
	Email   string `yaml:"email"`
}

// Load reads and validates a site file.
func Load(path string) (*Site, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read site content: %w", err)
	}
	var site Site
	if err := yaml.Unmarshal(raw, &site); err != nil {
		return nil, fmt.Errorf("parse site content %s: %w", path, err)
	}
	if err := site.validate(); err != nil {
		return nil, fmt.Errorf("invalid site content %s: %w", path, err)
	}
	return &site, nil
}

func (s *Site) validate() error {
	if len(s.Hero.Phrases) == 0 {
		return fmt.Errorf("hero needs at least one phrase")
	}
	for i, p := range s.Hero.Phrases {
		if p == "" {
			return fmt.Errorf("hero phrase %d is empty", i)
		}
	}
	return nil
}

// Store guards the current site snapshot. Reads vastly outnumber the
// occasional hot reload, hence the RWMutex.
type Store struct {
	mu   sync.RWMutex
	site *Site
}

func NewStore(site *Site) *Store {
	return &Store{site: site}
}

// Site returns the current snapshot. Callers must treat it as read-only.
func (s *Store) Site() *Site {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.site
}

// Replace swaps in a new snapshot.
func (s *Store) Replace(site *Site) {
	s.mu.Lock()
	s.site = site
	s.mu.Unlock()
}
