package handler

import (
	"encoding/json"
	"net/http"

	"github.com/brieflab/brief-analyzer/internal/model"
	"github.com/rs/zerolog/log"
)

// Response envelopes match what the Streamlit frontend reads.

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type PingResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type ProjectsResponse struct {
	Success  bool            `json:"success"`
	Projects []model.Project `json:"projects"`
}

type UsersResponse struct {
	Success bool         `json:"success"`
	Users   []model.User `json:"users"`
}

// ReportDetail is the expandable report object the frontend renders from the
// top-level content_writer_report / designer_report keys.
type ReportDetail struct {
	FullReport string `json:"full_report"`
}

func reportDetail(report string) *ReportDetail {
	if report == "" {
		return nil
	}
	return &ReportDetail{FullReport: report}
}

type ReportData struct {
	ProjectBriefID      string `json:"project_brief_id"`
	ProjectSummary      string `json:"project_summary,omitempty"`
	ContentWriterReport string `json:"content_writer_report,omitempty"`
	DesignerReport      string `json:"designer_report,omitempty"`
}

type UploadResponse struct {
	Success             bool                  `json:"success"`
	ProcessingTime      float64               `json:"processing_time"`
	TokensUsed          int                   `json:"tokens_used"`
	AnalysisType        string                `json:"analysis_type"`
	Stage               string                `json:"stage"`
	ContentWriterID     string                `json:"content_writer_id"`
	ProjectBrief        model.StructuredBrief `json:"project_brief"`
	ContentWriterReport *ReportDetail         `json:"content_writer_report,omitempty"`
	ReportData          ReportData            `json:"report_data"`
	Basecamp            model.DeliveryState   `json:"basecamp_integration"`
}

type SubmitResponse struct {
	Success             bool                `json:"success"`
	ProcessingTime      float64             `json:"processing_time"`
	TokensUsed          int                 `json:"tokens_used"`
	Stage               string              `json:"stage"`
	ProjectBriefID      string              `json:"project_brief_id"`
	ContentWriterReport *ReportDetail       `json:"content_writer_report,omitempty"`
	DesignerReport      *ReportDetail       `json:"designer_report,omitempty"`
	ReportData          ReportData          `json:"report_data"`
	Basecamp            model.DeliveryState `json:"basecamp_integration"`
}

type BriefResponse struct {
	Success bool         `json:"success"`
	Brief   *model.Brief `json:"brief"`
}

type StatsResponse struct {
	Success       bool `json:"success"`
	Briefs        int  `json:"briefs"`
	Reports       int  `json:"reports"`
	RetryQueue    int  `json:"retry_queue"`
	RetryQueueCap int  `json:"retry_queue_capacity"`
	RetryWorkers  int  `json:"retry_workers"`
}

func newUploadResponse(result *model.UploadResult) UploadResponse {
	brief := result.Brief
	return UploadResponse{
		Success:             true,
		ProcessingTime:      result.ProcessingTime,
		TokensUsed:          brief.TokensUsed,
		AnalysisType:        brief.AnalysisType,
		Stage:               brief.Stage,
		ContentWriterID:     brief.ContentWriterID,
		ProjectBrief:        brief.Structured,
		ContentWriterReport: reportDetail(brief.ContentWriterReport),
		ReportData: ReportData{
			ProjectBriefID:      brief.ID,
			ProjectSummary:      brief.Structured.AnalysisSummary,
			ContentWriterReport: brief.ContentWriterReport,
		},
		Basecamp: brief.Delivery,
	}
}

func newSubmitResponse(result *model.SubmitResult) SubmitResponse {
	brief := result.Brief
	return SubmitResponse{
		Success:             true,
		ProcessingTime:      result.ProcessingTime,
		TokensUsed:          brief.TokensUsed,
		Stage:               brief.Stage,
		ProjectBriefID:      brief.ID,
		ContentWriterReport: reportDetail(brief.ContentWriterReport),
		DesignerReport:      reportDetail(brief.DesignerReport),
		ReportData: ReportData{
			ProjectBriefID: brief.ID,
			DesignerReport: brief.DesignerReport,
		},
		Basecamp: brief.Delivery,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Success: false, Error: message})
}
