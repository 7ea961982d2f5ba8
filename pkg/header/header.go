// Package header reads the project header that accompanies a plan.
package header

import (
	"cmp"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/BurntSushi/toml"
)

var (
	// ErrMissingTitle is returned when the header has no title key.
	ErrMissingTitle = errors.New("header title is required")
	// ErrMissingSection is returned when a required table is absent.
	ErrMissingSection = errors.New("header section is required")
)

var requiredSections = []string{"services", "resources"}

// Link is a named URL.
type Link struct {
	Label string `toml:"label" json:"label" yaml:"label"`
	URL   string `toml:"url" json:"url" yaml:"url"`
}

// Record is a key/value entry of a header table.
type Record struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// Team is a team other tasks can depend on, keyed by alias.
type Team struct {
	Alias   string `json:"alias" yaml:"alias"`
	Name    string `json:"name" yaml:"name"`
	Contact string `json:"contact" yaml:"contact"`
}

// Project is the header of a plan.
type Project struct {
	Title      string            `json:"title" yaml:"title"`
	Variables  map[string]string `json:"variables" yaml:"variables"`
	Services   []Record          `json:"services" yaml:"services"`
	Resources  []Record          `json:"resources" yaml:"resources"`
	Iterations []Record          `json:"iterations" yaml:"iterations"`
	Teams      []Team            `json:"teams" yaml:"teams"`
	Links      []Link            `json:"links" yaml:"links"`
}

// HasTeam reports whether alias names a team of the header.
func (p *Project) HasTeam(alias string) bool {
	return slices.ContainsFunc(p.Teams, func(t Team) bool { return t.Alias == alias })
}

// HasService reports whether name is a declared service.
func (p *Project) HasService(name string) bool {
	return containsKey(p.Services, name)
}

// HasResource reports whether name is a declared resource.
func (p *Project) HasResource(name string) bool {
	return containsKey(p.Resources, name)
}

// HasIteration reports whether name is a declared iteration.
func (p *Project) HasIteration(name string) bool {
	return containsKey(p.Iterations, name)
}

type rawTeam struct {
	Name    string `toml:"name"`
	Contact string `toml:"contact"`
}

type rawProject struct {
	Title      string             `toml:"title"`
	Variables  map[string]string  `toml:"variables"`
	Services   map[string]string  `toml:"services"`
	Resources  map[string]string  `toml:"resources"`
	Iterations map[string]string  `toml:"iterations"`
	Teams      map[string]rawTeam `toml:"teams"`
	Links      []Link             `toml:"links"`
}

// Parse decodes a TOML header.
func Parse(text string) (*Project, error) {
	var raw rawProject
	md, err := toml.Decode(text, &raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode header: %w", err)
	}
	if !md.IsDefined("title") {
		return nil, ErrMissingTitle
	}
	for _, section := range requiredSections {
		if !md.IsDefined(section) {
			return nil, fmt.Errorf("%w: %s", ErrMissingSection, section)
		}
	}

	variables := raw.Variables
	if variables == nil {
		variables = make(map[string]string)
	}
	links := raw.Links
	if links == nil {
		links = make([]Link, 0)
	}
	return &Project{
		Title:      raw.Title,
		Variables:  variables,
		Services:   sortedRecords(raw.Services),
		Resources:  sortedRecords(raw.Resources),
		Iterations: sortedRecords(raw.Iterations),
		Teams:      sortedTeams(raw.Teams),
		Links:      links,
	}, nil
}

// ParseFile decodes the TOML header at path.
func ParseFile(path string) (*Project, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	return Parse(string(raw))
}

func sortedRecords(m map[string]string) []Record {
	records := make([]Record, 0, len(m))
	for k, v := range m {
		records = append(records, Record{Key: k, Value: v})
	}
	slices.SortFunc(records, func(a, b Record) int {
		return cmp.Or(cmp.Compare(a.Key, b.Key), cmp.Compare(a.Value, b.Value))
	})
	return records
}

func sortedTeams(m map[string]rawTeam) []Team {
	teams := make([]Team, 0, len(m))
	for alias, t := range m {
		teams = append(teams, Team{Alias: alias, Name: t.Name, Contact: t.Contact})
	}
	slices.SortFunc(teams, func(a, b Team) int {
		return cmp.Or(
			cmp.Compare(a.Alias, b.Alias),
			cmp.Compare(a.Name, b.Name),
			cmp.Compare(a.Contact, b.Contact),
		)
	})
	return teams
}

func containsKey(records []Record, key string) bool {
	return slices.ContainsFunc(records, func(r Record) bool { return r.Key == key })
}
