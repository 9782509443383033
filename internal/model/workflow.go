package model

// UploadInput carries a stage 1 analysis request.
type UploadInput struct {
	FileName           string
	Data               []byte
	ContentWriterID    string
	AnalysisType       string
	IncludeSuggestions bool
	ProjectID          string
	ProjectName        string
}

// UploadResult is the outcome of a stage 1 analysis.
type UploadResult struct {
	Brief          *Brief
	ProcessingTime float64
}

// SubmitInput carries a stage 2 content submission.
type SubmitInput struct {
	ProjectBriefID string
	DesignerID     string
	ContentText    string
	ContentFile    []byte
	FileName       string
}

// SubmitResult is the outcome of a stage 2 submission.
type SubmitResult struct {
	Brief          *Brief
	ProcessingTime float64
}
