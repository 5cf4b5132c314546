package llm

import (
	"fmt"
	"strings"
)

// PromptBuilder constructs standardized prompts for each pipeline call.
type PromptBuilder struct{}

const jsonOnlyInstruction = "\nOutput ONLY the JSON object. No explanations, no commentary, no markdown fences - just the JSON.\n"

// BuildDocumentMessages builds the conversation for generating the
// requirements document set from free-text business requirements.
func (pb *PromptBuilder) BuildDocumentMessages(requirements string) []Message {
	var sb strings.Builder
	sb.WriteString("Role: Business Analyst & Software Architect. Task: Produce formal requirements documentation.\n")
	sb.WriteString(jsonOnlyInstruction)
	sb.WriteString("\nGiven the business requirements below, produce a JSON object with exactly these top-level fields:\n")
	sb.WriteString("- \"srs\": markdown Software Requirements Specification\n")
	sb.WriteString("- \"frd\": markdown Functional Requirements Document\n")
	sb.WriteString("- \"brd\": markdown Business Requirements Document\n")
	sb.WriteString("- \"umlDiagrams\": array of objects {\"title\", \"type\", \"content\"}\n")
	sb.WriteString("\nFor each umlDiagrams entry:\n")
	sb.WriteString("- \"type\" is one of: usecase, sequence, activity, component, class\n")
	sb.WriteString("- \"content\" is PlantUML source WITHOUT @startuml/@enduml markers\n")
	sb.WriteString("- Include at least a use case diagram and a sequence diagram for the main flow.\n")
	sb.WriteString("\nBusiness requirements:\n")
	sb.WriteString(requirements)

	return []Message{
		{Role: RoleSystem, Content: "You are a requirements documentation generator. You respond with valid JSON only."},
		{Role: RoleUser, Content: sb.String()},
	}
}

// BuildTaskBreakdownMessages builds the conversation for decomposing a
// generated document into implementation tasks.
func (pb *PromptBuilder) BuildTaskBreakdownMessages(srs, frd string) []Message {
	var sb strings.Builder
	sb.WriteString("Role: Engineering Lead. Task: Break the specified system down into implementation tasks.\n")
	sb.WriteString(jsonOnlyInstruction)
	sb.WriteString("\nProduce a JSON object {\"tasks\": [...]} where each task has:\n")
	sb.WriteString("- \"id\": short stable identifier (\"T1\", \"T2\", ...)\n")
	sb.WriteString("- \"title\": imperative task title\n")
	sb.WriteString("- \"description\": what to build and why\n")
	sb.WriteString("- \"priority\": one of high, medium, low\n")
	sb.WriteString("- \"estimateHours\": number\n")
	sb.WriteString("\nTasks should be 2-8 hours each and cover the full functional scope.\n")
	sb.WriteString("\n### Software Requirements Specification\n")
	sb.WriteString(srs)
	sb.WriteString("\n\n### Functional Requirements Document\n")
	sb.WriteString(frd)

	return []Message{
		{Role: RoleSystem, Content: "You are a project planning assistant. You respond with valid JSON only."},
		{Role: RoleUser, Content: sb.String()},
	}
}

// BuildTaskAssignmentMessages builds the conversation for assigning tasks
// to team members. The assignment heuristics live entirely in the model.
func (pb *PromptBuilder) BuildTaskAssignmentMessages(tasksJSON string, members []string) []Message {
	var sb strings.Builder
	sb.WriteString("Role: Engineering Manager. Task: Assign each task to exactly one team member.\n")
	sb.WriteString(jsonOnlyInstruction)
	sb.WriteString("\nBalance workload by estimate and group related tasks on the same person.\n")
	sb.WriteString("\nTeam members:\n")
	for _, m := range members {
		fmt.Fprintf(&sb, "- %s\n", m)
	}
	sb.WriteString("\nTasks:\n")
	sb.WriteString(tasksJSON)
	sb.WriteString("\n\nProduce a JSON object {\"assignments\": [{\"id\": \"...\", \"assignedTo\": \"...\"}]} covering every task.\n")

	return []Message{
		{Role: RoleSystem, Content: "You are a project planning assistant. You respond with valid JSON only."},
		{Role: RoleUser, Content: sb.String()},
	}
}
