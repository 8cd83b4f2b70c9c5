package scenario

import (
	"strings"

	"github.com/spboyer/ddbeval/internal/models"
)

// Opener is the first, open-ended prompt of every conversation.
const Opener = "I need help designing a DynamoDB schema. Can you help me understand your approach?"

const notSpecified = "Not specified"

// ComprehensiveMessage renders every structured field of s into the second
// prompt. The layout is fixed so identical scenarios produce identical text.
func ComprehensiveMessage(s models.Scenario) string {
	lines := []string{
		s.UserInput,
		"\nHere are the complete requirements:",
		"What type of application are you building?",
	}

	if d := s.ApplicationDetails; d != nil {
		lines = append(lines,
			"• Type: "+orDefault(d.Type),
			"• Domain: "+orDefault(d.Domain),
			"• Primary Function: "+orDefault(d.PrimaryFunction),
			"• Business Model: "+orDefault(d.BusinessModel),
			"",
		)
	}

	if er := s.EntitiesAndRelationships; er != nil {
		lines = append(lines, "What are the main entities in your system?")
		if len(er.Entities) > 0 {
			lines = append(lines, "Entities:")
			for _, e := range er.Entities {
				lines = append(lines, "• "+e.Name+": "+e.Description)
			}
			lines = append(lines, "")
		}
		lines = appendBullets(lines, "Relationships:", er.Relationships)
	}

	if ap := s.AccessPatterns; ap != nil {
		lines = append(lines, "ACCESS PATTERNS:")
		lines = appendBullets(lines, "Read Patterns:", ap.ReadPatterns)
		lines = appendBullets(lines, "Write Patterns:", ap.WritePatterns)
	}

	if ps := s.PerformanceAndScale; ps != nil {
		lines = append(lines,
			"What's the expected scale?",
			"• User Base: "+orDefault(ps.UserBase),
			"• Transaction Volume: "+orDefault(ps.TransactionVolume),
			"• Data Growth: "+orDefault(ps.DataGrowth),
			"• Read/Write Ratio: "+orDefault(ps.ReadWriteRatio),
		)
		if len(ps.PerformanceRequirements) > 0 {
			lines = append(lines, "Performance Requirements:")
			for _, r := range ps.PerformanceRequirements {
				lines = append(lines, "• "+r)
			}
		}
		lines = append(lines,
			"• Scalability Needs: "+orDefault(ps.ScalabilityNeeds),
			"• Regional Requirements: "+orDefault(ps.RegionalRequirements),
			"",
		)
	}

	lines = append(lines,
		"INSTRUCTIONS:",
		"Provide complete guidance now. Output exactly two blocks:",
		"1) ```markdown\n# DynamoDB Modeling Session (dynamodb_requirement.md)\n...content...\n```",
		"2) ```markdown\n# DynamoDB Data Model (dynamodb_data_model.md)\n...content...\n```",
		"Do not ask additional questions - provide complete guidance now.",
	)

	return strings.Join(lines, "\n")
}

// RequirementSummary is the condensed scenario text handed to the judge.
func RequirementSummary(s models.Scenario) string {
	name := s.Name
	if name == "" {
		name = "Unknown"
	}
	complexity := s.Complexity
	if complexity == "" {
		complexity = "beginner"
	}

	lines := []string{
		"Scenario: " + name,
		"Complexity: " + complexity,
		"Description: " + s.Description,
	}
	if s.EntitiesAndRelationships != nil {
		lines = append(lines, "Entities: "+s.EntitiesAndRelationships.String())
	}
	if s.AccessPatterns != nil {
		lines = append(lines, "Access Patterns: "+s.AccessPatterns.String())
	}
	if s.PerformanceAndScale != nil {
		lines = append(lines, "Scale Requirements: "+s.PerformanceAndScale.String())
	}
	return strings.Join(lines, "\n")
}

func appendBullets(lines []string, header string, items []string) []string {
	if len(items) == 0 {
		return lines
	}
	lines = append(lines, header)
	for _, item := range items {
		lines = append(lines, "• "+item)
	}
	return append(lines, "")
}

func orDefault(s string) string {
	if s == "" {
		return notSpecified
	}
	return s
}
