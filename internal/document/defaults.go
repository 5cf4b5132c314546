package document

// Degrade-to-default substitutes. When model output cannot be recovered or
// fails validation, these fixed values are returned instead of an error so
// the end user always gets a usable result.

// DefaultDocument is the fixed document skeleton substituted when document
// generation fails validation.
func DefaultDocument(requirements string) *Document {
	return &Document{
		Requirements: requirements,
		SRS:          "# Software Requirements Specification\n\nThe model response could not be interpreted. Please refine the business requirements and regenerate.",
		FRD:          "# Functional Requirements Document\n\nThe model response could not be interpreted. Please refine the business requirements and regenerate.",
		BRD:          "# Business Requirements Document\n\nThe model response could not be interpreted. Please refine the business requirements and regenerate.",
		UMLDiagrams: []Diagram{
			{
				Title:   "System Overview",
				Type:    "usecase",
				Content: "actor User\nusecase \"Use the system\" as UC1\nUser --> UC1",
			},
		},
		Fallback: true,
	}
}

// DefaultTasks is the fixed task set substituted when task breakdown fails.
func DefaultTasks() []Task {
	return []Task{
		{ID: "T1", Title: "Review requirements document", Description: "Read the generated SRS/FRD/BRD and confirm scope.", Priority: "high", EstimateHours: 2},
		{ID: "T2", Title: "Design system architecture", Description: "Define components, interfaces and data flow.", Priority: "high", EstimateHours: 6},
		{ID: "T3", Title: "Implement core functionality", Description: "Build the primary features described in the FRD.", Priority: "high", EstimateHours: 8},
		{ID: "T4", Title: "Write tests", Description: "Cover the functional requirements with automated tests.", Priority: "medium", EstimateHours: 4},
		{ID: "T5", Title: "Prepare deployment", Description: "Set up configuration and release steps.", Priority: "low", EstimateHours: 3},
	}
}
