package ai

import "context"

// DraftInput carries the raw activity notes to be turned into a formal
// daily-report paragraph.
type DraftInput struct {
	Notes       string
	Village     string
	ProgramName string
}

// DraftResult is the generated report text.
type DraftResult struct {
	Text  string
	Model string
}

// Drafter describes a text-generation backend able to draft daily reports.
type Drafter interface {
	Draft(ctx context.Context, input DraftInput) (DraftResult, error)
}
