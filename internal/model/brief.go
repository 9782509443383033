package model

import "time"

// Workflow stages a brief moves through.
const (
	StageContentWriterReport = "content_writer_report_generated"
	StageDesignerReport      = "designer_report_generated"
)

// Supported analysis depth levels.
const (
	AnalysisBasic         = "basic"
	AnalysisComprehensive = "comprehensive"
	AnalysisDetailed      = "detailed"
)

// StructuredBrief holds the fields extracted from a project brief document.
type StructuredBrief struct {
	ProjectName     string   `json:"project_name"`
	BrandName       string   `json:"brand_name"`
	ProjectType     string   `json:"project_type"`
	TargetAudience  string   `json:"target_audience"`
	Objectives      []string `json:"objectives"`
	KeyMessages     []string `json:"key_messages"`
	ToneOfVoice     string   `json:"tone_of_voice"`
	Deliverables    []string `json:"deliverables"`
	Timeline        string   `json:"timeline"`
	Budget          string   `json:"budget"`
	AdditionalNotes string   `json:"additional_notes"`
	AnalysisSummary string   `json:"analysis_summary"`
}

// Brief is a stored project brief together with its analysis artifacts.
type Brief struct {
	ID                  string          `json:"id"`
	FileName            string          `json:"file_name"`
	ContentHash         string          `json:"content_hash"`
	ProjectID           string          `json:"project_id,omitempty"`
	ProjectName         string          `json:"project_name,omitempty"`
	ContentWriterID     string          `json:"content_writer_id"`
	DesignerID          string          `json:"designer_id,omitempty"`
	AnalysisType        string          `json:"analysis_type"`
	Stage               string          `json:"stage"`
	Structured          StructuredBrief `json:"structured"`
	ContentWriterReport string          `json:"content_writer_report,omitempty"`
	DesignerReport      string          `json:"designer_report,omitempty"`
	SubmittedContent    string          `json:"submitted_content,omitempty"`
	TokensUsed          int             `json:"tokens_used,omitempty"`
	Delivery            DeliveryState   `json:"delivery"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// DeliveryState tracks which Basecamp actions have completed for a brief.
type DeliveryState struct {
	ContentWriterUploaded bool     `json:"content_writer_uploaded"`
	ContentWriterNotified bool     `json:"content_writer_notified"`
	DesignerUploaded      bool     `json:"designer_uploaded"`
	DesignerNotified      bool     `json:"designer_notified"`
	Errors                []string `json:"errors,omitempty"`
}
