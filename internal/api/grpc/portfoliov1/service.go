// Package portfoliov1 describes the portfolio.v1.Portfolio gRPC service.
//
// Every message is a google.protobuf.Struct so clients can call the service
// with the well-known types alone.
package portfoliov1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "portfolio.v1.Portfolio"

// Method names.
const (
	MethodLogin         = "Login"
	MethodGetProfile    = "GetProfile"
	MethodSaveProfile   = "SaveProfile"
	MethodListSkills    = "ListSkills"
	MethodCreateSkill   = "CreateSkill"
	MethodUpdateSkill   = "UpdateSkill"
	MethodDeleteSkill   = "DeleteSkill"
	MethodListProjects  = "ListProjects"
	MethodGetProject    = "GetProject"
	MethodCreateProject = "CreateProject"
	MethodUpdateProject = "UpdateProject"
	MethodDeleteProject = "DeleteProject"
	MethodRefresh       = "Refresh"
	MethodListAlerts    = "ListAlerts"
	MethodWatchAlerts   = "WatchAlerts"
)

// FullMethod returns the gRPC path of method.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// PortfolioServer is the server API for the Portfolio service.
type PortfolioServer interface {
	Login(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetProfile(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SaveProfile(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListSkills(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CreateSkill(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateSkill(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteSkill(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListProjects(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetProject(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CreateProject(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateProject(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteProject(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Refresh(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListAlerts(context.Context, *structpb.Struct) (*structpb.Struct, error)
	WatchAlerts(*structpb.Struct, Portfolio_WatchAlertsServer) error
}

// Portfolio_WatchAlertsServer is the server side of the WatchAlerts stream.
type Portfolio_WatchAlertsServer interface {
	Send(*structpb.Struct) error
	grpc.ServerStream
}

type watchAlertsServer struct {
	grpc.ServerStream
}

func (x *watchAlertsServer) Send(m *structpb.Struct) error {
	return x.ServerStream.SendMsg(m)
}

// UnimplementedPortfolioServer answers every call with codes.Unimplemented.
type UnimplementedPortfolioServer struct{}

func unimplemented(method string) error {
	return status.Errorf(codes.Unimplemented, "method %s not implemented", method)
}

func (UnimplementedPortfolioServer) Login(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodLogin)
}
func (UnimplementedPortfolioServer) GetProfile(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodGetProfile)
}
func (UnimplementedPortfolioServer) SaveProfile(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodSaveProfile)
}
func (UnimplementedPortfolioServer) ListSkills(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodListSkills)
}
func (UnimplementedPortfolioServer) CreateSkill(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodCreateSkill)
}
func (UnimplementedPortfolioServer) UpdateSkill(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodUpdateSkill)
}
func (UnimplementedPortfolioServer) DeleteSkill(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodDeleteSkill)
}
func (UnimplementedPortfolioServer) ListProjects(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodListProjects)
}
func (UnimplementedPortfolioServer) GetProject(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodGetProject)
}
func (UnimplementedPortfolioServer) CreateProject(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodCreateProject)
}
func (UnimplementedPortfolioServer) UpdateProject(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodUpdateProject)
}
func (UnimplementedPortfolioServer) DeleteProject(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodDeleteProject)
}
func (UnimplementedPortfolioServer) Refresh(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodRefresh)
}
func (UnimplementedPortfolioServer) ListAlerts(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodListAlerts)
}
func (UnimplementedPortfolioServer) WatchAlerts(*structpb.Struct, Portfolio_WatchAlertsServer) error {
	return unimplemented(MethodWatchAlerts)
}

type unaryCall func(srv PortfolioServer, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)

func unaryMethod(name string, call unaryCall) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(PortfolioServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: FullMethod(name),
			}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(srv.(PortfolioServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

func watchAlertsHandler(srv interface{}, stream grpc.ServerStream) error {
	in := new(structpb.Struct)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(PortfolioServer).WatchAlerts(in, &watchAlertsServer{stream})
}

// Portfolio_ServiceDesc is the grpc.ServiceDesc for the Portfolio service.
var Portfolio_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PortfolioServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod(MethodLogin, PortfolioServer.Login),
		unaryMethod(MethodGetProfile, PortfolioServer.GetProfile),
		unaryMethod(MethodSaveProfile, PortfolioServer.SaveProfile),
		unaryMethod(MethodListSkills, PortfolioServer.ListSkills),
		unaryMethod(MethodCreateSkill, PortfolioServer.CreateSkill),
		unaryMethod(MethodUpdateSkill, PortfolioServer.UpdateSkill),
		unaryMethod(MethodDeleteSkill, PortfolioServer.DeleteSkill),
		unaryMethod(MethodListProjects, PortfolioServer.ListProjects),
		unaryMethod(MethodGetProject, PortfolioServer.GetProject),
		unaryMethod(MethodCreateProject, PortfolioServer.CreateProject),
		unaryMethod(MethodUpdateProject, PortfolioServer.UpdateProject),
		unaryMethod(MethodDeleteProject, PortfolioServer.DeleteProject),
		unaryMethod(MethodRefresh, PortfolioServer.Refresh),
		unaryMethod(MethodListAlerts, PortfolioServer.ListAlerts),
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    MethodWatchAlerts,
			Handler:       watchAlertsHandler,
			ServerStreams: true,
		},
	},
	Metadata: "portfolio/v1/portfolio.proto",
}

// RegisterPortfolioServer registers srv with s.
func RegisterPortfolioServer(s grpc.ServiceRegistrar, srv PortfolioServer) {
	s.RegisterService(&Portfolio_ServiceDesc, srv)
}
