package dimensions

// Input field names shared by both families. The content field differs per
// family and comes from Family.Inputs.
const (
	FieldRequirements = "scenario_requirements"
	FieldGuidance     = "guidance_response"
	FieldSession      = "modeling_session_content"
	FieldExpert       = "dynamodb_expert_knowledge"
	FieldMethodology  = "architect_methodology"
)

// Inputs returns the three named inputs a family evaluation takes, in order:
// requirement summary, content section, expert context.
func (f Family) Inputs() []Field {
	switch f {
	case Design:
		return []Field{
			{Name: FieldRequirements, Description: "Complete scenario requirements including entities, access patterns, scale, and performance needs"},
			{Name: FieldGuidance, Description: "The AI-generated DynamoDB guidance response to evaluate"},
			{Name: FieldExpert, Description: "Comprehensive DynamoDB expert guidance including best practices, design patterns, technical constraints, and cost optimization strategies to inform evaluation scoring"},
		}
	case Process:
		return []Field{
			{Name: FieldRequirements, Description: "Original business requirements and constraints provided by user"},
			{Name: FieldSession, Description: "Complete modeling session output including analysis, methodology, and validation"},
			{Name: FieldMethodology, Description: "DynamoDB architect prompt methodology and best practices for reference"},
		}
	}
	return nil
}

// Justifications returns the free-text outputs of a family.
func (f Family) Justifications() []Justification {
	switch f {
	case Design:
		return []Justification{
			{Key: "completeness", Field: Field{Name: "completeness_justification", Description: "Detailed explanation of completeness score, highlighting what was covered well and what was missed"}},
			{Key: "technical", Field: Field{Name: "technical_justification", Description: "Detailed explanation of technical accuracy, noting correct and incorrect recommendations"}},
			{Key: "overall", Field: Field{Name: "overall_assessment", Description: "Overall quality assessment with strengths, weaknesses, and improvement suggestions"}},
		}
	case Process:
		return []Justification{
			{Key: "requirements", Field: Field{Name: "requirements_analysis", Description: "Detailed assessment of requirements engineering quality, highlighting strengths and gaps"}},
			{Key: "methodology", Field: Field{Name: "methodology_assessment", Description: "Evaluation of how well the structured methodology was followed, including decision framework usage"}},
			{Key: "technical_depth", Field: Field{Name: "technical_depth_evaluation", Description: "Analysis of technical reasoning quality, design justifications, and proactive risk identification"}},
			{Key: "overall", Field: Field{Name: "overall_session_assessment", Description: "Overall evaluation of the modeling session quality with specific recommendations for improvement"}},
		}
	}
	return nil
}

// Outputs lists every output field of a family: one score field per
// dimension, then the justification fields.
func (f Family) Outputs() []Field {
	var out []Field
	for _, d := range f.Dimensions() {
		out = append(out, Field{Name: d.OutputField(), Description: d.Rubric()})
	}
	for _, j := range f.Justifications() {
		out = append(out, j.Field)
	}
	return out
}

// Instructions is the task statement handed to the reasoning engine.
func (f Family) Instructions() string {
	switch f {
	case Design:
		return "Evaluate the technical quality of a DynamoDB data model design. " +
			"Focus on the final deliverable: what was recommended, not how it was derived. " +
			"Use the expert knowledge to judge correctness against DynamoDB best practices."
	case Process:
		return "Evaluate the quality of a DynamoDB data modeling session. " +
			"Focus on how the design was derived: requirements capture, access pattern analysis, " +
			"methodology, reasoning and documentation. Use the architect methodology as the reference process."
	}
	return ""
}

// Title is the human readable family name used in summaries.
func (f Family) Title() string {
	switch f {
	case Design:
		return "Data Model"
	case Process:
		return "Modeling Session"
	}
	return string(f)
}
