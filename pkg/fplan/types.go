package fplan

// Feature is one "feature:" block.
type Feature struct {
	Title string   `json:"title" yaml:"title"`
	Links []Record `json:"links" yaml:"links"`
	Tasks []Task   `json:"tasks" yaml:"tasks"`
}

// Task is one "task:" block inside a feature.
type Task struct {
	Title        string       `json:"title" yaml:"title"`
	Links        []Record     `json:"links" yaml:"links"`
	By           *Resource    `json:"by" yaml:"by"`
	Effort       *Effort      `json:"effort" yaml:"effort"`
	Notes        []string     `json:"notes" yaml:"notes"`
	Ticket       string       `json:"ticket" yaml:"ticket"`
	Dependencies []Dependency `json:"dependencies" yaml:"dependencies"`
}

// Record is a label/value pair written as "label: value".
type Record struct {
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
}

// Dependency is work needed from another team.
type Dependency struct {
	TeamAlias string `json:"team_alias" yaml:"team_alias"`
	// By is when the dependency is needed.
	By          *string `json:"by" yaml:"by"`
	Description string  `json:"description" yaml:"description"`
}

// Effort is the estimate for a task, in person-days of one service.
type Effort struct {
	PDs     int    `json:"pds" yaml:"pds"`
	Service string `json:"service" yaml:"service"`
}

// Resource is who does a task and when.
type Resource struct {
	Name string `json:"name" yaml:"name"`
	When string `json:"when" yaml:"when"`
}
