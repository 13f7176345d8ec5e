package domain

import "time"

// Ticket is the subset of an issue-tracker record used for listings and summaries.
type Ticket struct {
	Key         string    `json:"key" yaml:"key" mapstructure:"key"`
	Summary     string    `json:"summary" yaml:"summary" mapstructure:"summary"`
	Status      string    `json:"status" yaml:"status" mapstructure:"status"`
	Assignee    string    `json:"assignee,omitempty" yaml:"assignee" mapstructure:"assignee"`
	Priority    string    `json:"priority,omitempty" yaml:"priority" mapstructure:"priority"`
	Description string    `json:"description,omitempty" yaml:"description" mapstructure:"description"`
	Updated     time.Time `json:"updated,omitempty" yaml:"updated" mapstructure:"updated"`
	Comments    []Comment `json:"comments,omitempty" yaml:"comments" mapstructure:"comments"`
}

// Comment is a single ticket comment.
type Comment struct {
	Author string `json:"author" yaml:"author" mapstructure:"author"`
	Body   string `json:"body" yaml:"body" mapstructure:"body"`
}
