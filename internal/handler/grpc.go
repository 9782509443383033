package handler

import (
	"context"
	"errors"

	"github.com/brieflab/brief-analyzer/internal/proto"
	"github.com/brieflab/brief-analyzer/internal/storage"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
)

// AnalyzerGRPCServer exposes the read side of the workflow for internal
// tooling.
type AnalyzerGRPCServer struct {
	proto.UnimplementedAnalyzerServiceServer
	briefService BriefService
}

func NewAnalyzerGRPCServer(briefService BriefService) *AnalyzerGRPCServer {
	return &AnalyzerGRPCServer{
		briefService: briefService,
	}
}

func (s *AnalyzerGRPCServer) GetBrief(ctx context.Context, req *proto.GetBriefRequest) (*proto.GetBriefResponse, error) {
	if req.Id == "" {
		return nil, status.Error(codes.InvalidArgument, "brief id is required")
	}

	brief, err := s.briefService.GetBrief(ctx, req.Id)
	if err != nil {
		if errors.Is(err, storage.ErrBriefNotFound) {
			return nil, status.Error(codes.NotFound, "brief not found")
		}
		return nil, status.Errorf(codes.Internal, "failed to get brief: %v", err)
	}

	return &proto.GetBriefResponse{
		Brief: &proto.BriefData{
			Id:                  brief.ID,
			FileName:            brief.FileName,
			ProjectId:           brief.ProjectID,
			ProjectName:         brief.Structured.ProjectName,
			ContentWriterId:     brief.ContentWriterID,
			DesignerId:          brief.DesignerID,
			AnalysisType:        brief.AnalysisType,
			Stage:               brief.Stage,
			AnalysisSummary:     brief.Structured.AnalysisSummary,
			ContentWriterReport: brief.ContentWriterReport,
			DesignerReport:      brief.DesignerReport,
			TokensUsed:          int64(brief.TokensUsed),
		},
	}, nil
}

func (s *AnalyzerGRPCServer) ListProjects(ctx context.Context, _ *emptypb.Empty) (*proto.ProjectsResponse, error) {
	projects, err := s.briefService.ListProjects(ctx)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to list projects: %v", err)
	}

	resp := &proto.ProjectsResponse{
		Projects: make([]*proto.ProjectData, 0, len(projects)),
	}

	for _, p := range projects {
		resp.Projects = append(resp.Projects, &proto.ProjectData{
			Id:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Status:      p.Status,
		})
	}

	return resp, nil
}

func (s *AnalyzerGRPCServer) ListUsers(ctx context.Context, _ *emptypb.Empty) (*proto.UsersResponse, error) {
	users, err := s.briefService.ListUsers(ctx)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to list users: %v", err)
	}

	resp := &proto.UsersResponse{
		Users: make([]*proto.UserData, 0, len(users)),
	}

	for _, u := range users {
		resp.Users = append(resp.Users, &proto.UserData{
			Id:             u.ID,
			Name:           u.Name,
			Email:          u.Email,
			BasecampUserId: u.BasecampUserID,
		})
	}

	return resp, nil
}
