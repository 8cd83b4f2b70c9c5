package models

import (
	"fmt"
	"strings"
)

// Scenario is a structured DynamoDB modeling request used to drive one
// evaluation run.
type Scenario struct {
	Name                     string                    `yaml:"name" json:"name"`
	Description              string                    `yaml:"description,omitempty" json:"description,omitempty"`
	Complexity               string                    `yaml:"complexity,omitempty" json:"complexity,omitempty"`
	UserInput                string                    `yaml:"user_input" json:"user_input"`
	ApplicationDetails       *ApplicationDetails       `yaml:"application_details,omitempty" json:"application_details,omitempty"`
	EntitiesAndRelationships *EntitiesAndRelationships `yaml:"entities_and_relationships,omitempty" json:"entities_and_relationships,omitempty"`
	AccessPatterns           *AccessPatterns           `yaml:"access_patterns,omitempty" json:"access_patterns,omitempty"`
	PerformanceAndScale      *PerformanceAndScale      `yaml:"performance_and_scale,omitempty" json:"performance_and_scale,omitempty"`
}

type ApplicationDetails struct {
	Type            string `yaml:"type,omitempty" json:"type,omitempty"`
	Domain          string `yaml:"domain,omitempty" json:"domain,omitempty"`
	PrimaryFunction string `yaml:"primary_function,omitempty" json:"primary_function,omitempty"`
	BusinessModel   string `yaml:"business_model,omitempty" json:"business_model,omitempty"`
}

// Entity is kept as an ordered list item so prompts render deterministically.
type Entity struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
}

type EntitiesAndRelationships struct {
	Entities      []Entity `yaml:"entities,omitempty" json:"entities,omitempty"`
	Relationships []string `yaml:"relationships,omitempty" json:"relationships,omitempty"`
}

type AccessPatterns struct {
	ReadPatterns  []string `yaml:"read_patterns,omitempty" json:"read_patterns,omitempty"`
	WritePatterns []string `yaml:"write_patterns,omitempty" json:"write_patterns,omitempty"`
}

type PerformanceAndScale struct {
	UserBase                string   `yaml:"user_base,omitempty" json:"user_base,omitempty"`
	TransactionVolume       string   `yaml:"transaction_volume,omitempty" json:"transaction_volume,omitempty"`
	DataGrowth              string   `yaml:"data_growth,omitempty" json:"data_growth,omitempty"`
	ReadWriteRatio          string   `yaml:"read_write_ratio,omitempty" json:"read_write_ratio,omitempty"`
	PerformanceRequirements []string `yaml:"performance_requirements,omitempty" json:"performance_requirements,omitempty"`
	ScalabilityNeeds        string   `yaml:"scalability_needs,omitempty" json:"scalability_needs,omitempty"`
	RegionalRequirements    string   `yaml:"regional_requirements,omitempty" json:"regional_requirements,omitempty"`
}

func (e *EntitiesAndRelationships) String() string {
	var parts []string
	for _, ent := range e.Entities {
		parts = append(parts, fmt.Sprintf("%s (%s)", ent.Name, ent.Description))
	}
	s := "entities: " + strings.Join(parts, "; ")
	if len(e.Relationships) > 0 {
		s += " | relationships: " + strings.Join(e.Relationships, "; ")
	}
	return s
}

func (a *AccessPatterns) String() string {
	return fmt.Sprintf("read: %s | write: %s",
		strings.Join(a.ReadPatterns, "; "), strings.Join(a.WritePatterns, "; "))
}

func (p *PerformanceAndScale) String() string {
	var parts []string
	add := func(label, v string) {
		if v != "" {
			parts = append(parts, label+": "+v)
		}
	}
	add("user base", p.UserBase)
	add("transaction volume", p.TransactionVolume)
	add("data growth", p.DataGrowth)
	add("read/write ratio", p.ReadWriteRatio)
	if len(p.PerformanceRequirements) > 0 {
		parts = append(parts, "performance: "+strings.Join(p.PerformanceRequirements, "; "))
	}
	add("scalability", p.ScalabilityNeeds)
	add("regions", p.RegionalRequirements)
	return strings.Join(parts, " | ")
}
