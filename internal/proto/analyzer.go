package proto

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
)

type GetBriefRequest struct {
	Id string
}

type GetBriefResponse struct {
	Brief *BriefData
}

type BriefData struct {
	Id                  string
	FileName            string
	ProjectId           string
	ProjectName         string
	ContentWriterId     string
	DesignerId          string
	AnalysisType        string
	Stage               string
	AnalysisSummary     string
	ContentWriterReport string
	DesignerReport      string
	TokensUsed          int64
}

type ProjectsResponse struct {
	Projects []*ProjectData
}

type ProjectData struct {
	Id          string
	Name        string
	Description string
	Status      string
}

type UsersResponse struct {
	Users []*UserData
}

type UserData struct {
	Id             string
	Name           string
	Email          string
	BasecampUserId string
}

// AnalyzerServiceServer is the server API for AnalyzerService service.
type AnalyzerServiceServer interface {
	GetBrief(context.Context, *GetBriefRequest) (*GetBriefResponse, error)
	ListProjects(context.Context, *emptypb.Empty) (*ProjectsResponse, error)
	ListUsers(context.Context, *emptypb.Empty) (*UsersResponse, error)
}

// UnimplementedAnalyzerServiceServer can be embedded to have forward compatible implementations.
type UnimplementedAnalyzerServiceServer struct{}

func (*UnimplementedAnalyzerServiceServer) GetBrief(context.Context, *GetBriefRequest) (*GetBriefResponse, error) {
	return nil, nil
}
func (*UnimplementedAnalyzerServiceServer) ListProjects(context.Context, *emptypb.Empty) (*ProjectsResponse, error) {
	return nil, nil
}
func (*UnimplementedAnalyzerServiceServer) ListUsers(context.Context, *emptypb.Empty) (*UsersResponse, error) {
	return nil, nil
}

func RegisterAnalyzerServiceServer(s *grpc.Server, srv AnalyzerServiceServer) {
	s.RegisterService(&_AnalyzerService_serviceDesc, srv)
}

func _AnalyzerService_GetBrief_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(GetBriefRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AnalyzerServiceServer).GetBrief(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/analyzer.AnalyzerService/GetBrief",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(AnalyzerServiceServer).GetBrief(ctx, req.(*GetBriefRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _AnalyzerService_ListProjects_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AnalyzerServiceServer).ListProjects(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/analyzer.AnalyzerService/ListProjects",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(AnalyzerServiceServer).ListProjects(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _AnalyzerService_ListUsers_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AnalyzerServiceServer).ListUsers(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/analyzer.AnalyzerService/ListUsers",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(AnalyzerServiceServer).ListUsers(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

var _AnalyzerService_serviceDesc = grpc.ServiceDesc{
	ServiceName: "analyzer.AnalyzerService",
	HandlerType: (*AnalyzerServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetBrief",
			Handler:    _AnalyzerService_GetBrief_Handler,
		},
		{
			MethodName: "ListProjects",
			Handler:    _AnalyzerService_ListProjects_Handler,
		},
		{
			MethodName: "ListUsers",
			Handler:    _AnalyzerService_ListUsers_Handler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "analyzer.proto",
}
