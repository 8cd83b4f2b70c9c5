// Package dimensions defines the two closed families of scoring dimensions and
// the rubric text each dimension hands to the reasoning engine.
//
// Dimension values are only constructed in this package. Changing any rubric
// changes scoring behavior, so RubricVersion must be bumped with it.
package dimensions

import "fmt"

// RubricVersion identifies the rubric texts below. It is stamped into every
// evaluation result so reports from different rubric revisions are never mixed.
const RubricVersion = "ddb-rubric/2025-06.1"

// Family is one of the two fixed dimension sets.
type Family string

const (
	// Design scores the delivered data model: WHAT was produced.
	Design Family = "design"
	// Process scores the modeling session: HOW the model was derived.
	Process Family = "process"
)

// Dimension is a single, independently scored quality aspect.
type Dimension struct {
	id     string
	family Family
	title  string
	rubric string
}

func (d Dimension) ID() string     { return d.id }
func (d Dimension) Family() Family { return d.family }
func (d Dimension) Title() string  { return d.title }
func (d Dimension) Rubric() string { return d.rubric }
func (d Dimension) String() string { return d.id }
func (d Dimension) IsZero() bool   { return d.id == "" }

func (d Dimension) OutputField() string {
	return d.id + "_score"
}

// Field names a reasoning-engine input or output.
type Field struct {
	Name        string
	Description string
}

// Justification is a free-text output field and the key it is reported under.
type Justification struct {
	Field
	Key string
}

var (
	Completeness = Dimension{
		id: "completeness", family: Design, title: "Completeness",
		rubric: "Score 1-10: Evaluate if guidance addresses ALL scenario elements: " +
			"(1) All entities identified and defined, " +
			"(2) All entity relationships mapped, " +
			"(3) All access patterns identified (not optimized), " +
			"(4) Performance requirements and constraints covered, " +
			"(5) Scale requirements and constraints covered. " +
			"Score 9-10: Comprehensive coverage of all elements. " +
			"Score 7-8: Most elements covered with minor gaps. " +
			"Score 5-6: Core elements but missing important details. " +
			"Score 3-4: Significant gaps in key elements. " +
			"Score 1-2: Major elements missing. " +
			"Return single number 1-10, not 8/10",
	}
	TechnicalAccuracy = Dimension{
		id: "technical_accuracy", family: Design, title: "Technical Accuracy",
		rubric: "Score 1-10: Evaluate technical correctness of DynamoDB recommendations: " +
			"(1) Primary key design follows best practices, " +
			"(2) GSI design is appropriate and efficient including the use of projections where relevant, " +
			"(3) Data types and attribute choices are optimal (TTL as number, etc.), " +
			"(4) Sort key design enables required access patterns, " +
			"(5) Recommendations follow DynamoDB best practices. " +
			"Score 9-10: All recommendations technically sound with deep expertise. " +
			"Score 7-8: Mostly accurate with only minor technical issues. " +
			"Score 5-6: Generally accurate but some questionable recommendations. " +
			"Score 3-4: Several technical errors or best practice violations. " +
			"Score 1-2: Major technical errors, fundamental DynamoDB misunderstandings. " +
			"Return single number 1-10.",
	}
	AccessPatternCoverage = Dimension{
		id: "access_pattern_coverage", family: Design, title: "Access Pattern Coverage",
		rubric: "Score 1-10: Evaluate how well access patterns are optimized: " +
			"(1) Query patterns mapped to optimal table/GSI design, " +
			"(2) Solutions optimize for most frequent/critical patterns, " +
			"(3) Edge cases and less frequent patterns considered, " +
			"(4) Performance implications of each pattern addressed, " +
			"(5) Efficient query strategies recommended. " +
			"Score 9-10: Identifies and addresses all critical patterns with optimized solutions. " +
			"Score 7-8: Covers most important patterns with effective solutions. " +
			"Score 5-6: Addresses core patterns but misses some important ones. " +
			"Score 3-4: Limited coverage, solutions may be inefficient. " +
			"Score 1-2: Poor understanding of patterns, inadequate solutions. " +
			"Return single number 1-10.",
	}
	ScalabilityConsiderations = Dimension{
		id: "scalability_considerations", family: Design, title: "Scalability Considerations",
		rubric: "Score 1-10: Evaluate scalability and performance planning: " +
			"(1) Hot partition prevention strategies, " +
			"(2) Capacity planning for expected growth, " +
			"(3) Performance bottleneck identification, " +
			"(4) Auto-scaling considerations, " +
			"(5) Future growth accommodation in design. " +
			"Score 9-10: Comprehensive scalability analysis with proactive solutions for bottlenecks. " +
			"Score 7-8: Good scalability awareness with most key considerations addressed. " +
			"Score 5-6: Basic scalability considerations with some important aspects covered. " +
			"Score 3-4: Limited scalability planning, may have scaling issues. " +
			"Score 1-2: No meaningful scalability considerations, designs likely to fail at scale. " +
			"Return single number 1-10.",
	}
	CostOptimization = Dimension{
		id: "cost_optimization", family: Design, title: "Cost Optimization",
		rubric: "Score 1-10: Evaluate cost optimization strategies: " +
			"(1) On-demand vs provisioned billing analysis, " +
			"(2) GSI cost implications considered, " +
			"(3) Storage cost optimization strategies, " +
			"(4) Read/write cost efficiency recommendations, " +
			"(5) Multiple cost-saving techniques suggested. " +
			"Score 9-10: Sophisticated cost optimization with multiple strategies. " +
			"Score 7-8: Good cost awareness with several optimization techniques. " +
			"Score 5-6: Basic cost considerations with some optimization suggestions. " +
			"Score 3-4: Limited cost analysis, may lead to unnecessary expenses. " +
			"Score 1-2: No cost optimization, designs likely to be expensive. " +
			"Return single number 1-10.",
	}

	RequirementsEngineering = Dimension{
		id: "requirements_engineering", family: Process, title: "Requirements Engineering",
		rubric: "Score 1-10: Quality of requirements capture, entity modeling, and scope definition: " +
			"(1) Business context understood and documented, " +
			"(2) Entities and relationships identified, " +
			"(3) Constraints captured, " +
			"(4) Scale and performance requirements analyzed. " +
			"Score 9-10: Thorough, well-documented requirements with explicit scope and constraints. " +
			"Score 7-8: Solid requirements capture with minor omissions. " +
			"Score 5-6: Core requirements captured but context or constraints are thin. " +
			"Score 3-4: Requirements are incomplete or partly misunderstood. " +
			"Score 1-2: Requirements largely ignored. " +
			"Should be just a number between 1-10.",
	}
	AccessPatternAnalysis = Dimension{
		id: "access_pattern_analysis", family: Process, title: "Access Pattern Analysis",
		rubric: "Score 1-10: Rigor of access pattern analysis: " +
			"(1) Read and write patterns enumerated completely, " +
			"(2) RPS estimates provided, " +
			"(3) Performance requirements attached to patterns, " +
			"(4) Patterns prioritized by business importance. " +
			"Score 9-10: Every pattern enumerated with estimates and priorities. " +
			"Score 7-8: Most patterns analyzed with reasonable estimates. " +
			"Score 5-6: Main patterns listed but estimates or priorities missing. " +
			"Score 3-4: Patterns listed superficially. " +
			"Score 1-2: No meaningful pattern analysis. " +
			"Should be just a number between 1-10.",
	}
	MethodologyAdherence = Dimension{
		id: "methodology_adherence", family: Process, title: "Methodology Adherence",
		rubric: "Score 1-10: How well the session follows the systematic methodology from the architect prompt: " +
			"(1) Systematic approach to design decisions, " +
			"(2) Decision frameworks applied, " +
			"(3) Step-by-step progression through modeling phases, " +
			"(4) Best practices applied throughout. " +
			"Score 9-10: Methodology followed rigorously at every phase. " +
			"Score 7-8: Methodology followed with small deviations. " +
			"Score 5-6: Partial adherence, some phases skipped. " +
			"Score 3-4: Methodology mostly ignored. " +
			"Score 1-2: No recognizable methodology. " +
			"Should be just a number between 1-10.",
	}
	TechnicalReasoning = Dimension{
		id: "technical_reasoning", family: Process, title: "Technical Reasoning",
		rubric: "Score 1-10: Quality of design justifications and trade-off analysis: " +
			"(1) Clear rationale for design choices, " +
			"(2) Trade-offs between alternatives analyzed, " +
			"(3) Risks assessed with mitigations, " +
			"(4) Optimization considerations explained. " +
			"Score 9-10: Every major decision justified with explicit trade-offs and risks. " +
			"Score 7-8: Most decisions justified with useful trade-off discussion. " +
			"Score 5-6: Some justification, trade-offs rarely discussed. " +
			"Score 3-4: Decisions asserted without reasoning. " +
			"Score 1-2: Reasoning absent or wrong. " +
			"Should be just a number between 1-10.",
	}
	ProcessDocumentation = Dimension{
		id: "process_documentation", family: Process, title: "Process Documentation",
		rubric: "Score 1-10: Organization and clarity of process documentation: " +
			"(1) Clear structure and logical flow, " +
			"(2) Transparent decision-making, " +
			"(3) Traceability from requirements to design, " +
			"(4) Professional quality and completeness. " +
			"Score 9-10: Well organized, fully traceable, professional documentation. " +
			"Score 7-8: Clear documentation with minor gaps in traceability. " +
			"Score 5-6: Understandable but disorganized or incomplete. " +
			"Score 3-4: Hard to follow, decisions not traceable. " +
			"Score 1-2: Little or no usable documentation. " +
			"Should be just a number between 1-10.",
	}
)

var (
	designDimensions = []Dimension{
		Completeness, TechnicalAccuracy, AccessPatternCoverage, ScalabilityConsiderations, CostOptimization,
	}
	processDimensions = []Dimension{
		RequirementsEngineering, AccessPatternAnalysis, MethodologyAdherence, TechnicalReasoning, ProcessDocumentation,
	}
)

// Families lists both families in reporting order.
func Families() []Family {
	return []Family{Process, Design}
}

// Dimensions returns the family's five dimensions in canonical order.
func (f Family) Dimensions() []Dimension {
	switch f {
	case Design:
		return append([]Dimension(nil), designDimensions...)
	case Process:
		return append([]Dimension(nil), processDimensions...)
	default:
		return nil
	}
}

// Valid reports whether f is one of the two known families.
func (f Family) Valid() bool {
	return f == Design || f == Process
}

func (f Family) String() string {
	return string(f)
}

// Lookup finds a dimension by its identifier.
func Lookup(id string) (Dimension, bool) {
	for _, f := range Families() {
		for _, d := range f.Dimensions() {
			if d.id == id {
				return d, true
			}
		}
	}
	return Dimension{}, false
}

// ParseFamily accepts a family name, case sensitive.
func ParseFamily(s string) (Family, error) {
	f := Family(s)
	if !f.Valid() {
		return "", fmt.Errorf("unknown dimension family %q (want %q or %q)", s, Design, Process)
	}
	return f, nil
}
