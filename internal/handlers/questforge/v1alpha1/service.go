// Package v1alpha1 handles the grpc service interface
package v1alpha1

import (
	"context"

	"google.golang.org/grpc"

	"github.com/KirkDiggler/quest-forge/internal/pkg/jsoncodec"
)

// Service names
const (
	AuthServiceName = "questforge.api.v1alpha1.AuthService"
	GameServiceName = "questforge.api.v1alpha1.GameService"
)

// Full method names
const (
	AuthService_SignUp_FullMethodName         = "/" + AuthServiceName + "/SignUp"
	AuthService_SignIn_FullMethodName         = "/" + AuthServiceName + "/SignIn"
	AuthService_SignOut_FullMethodName        = "/" + AuthServiceName + "/SignOut"
	AuthService_GetCurrentUser_FullMethodName = "/" + AuthServiceName + "/GetCurrentUser"

	GameService_CreateCharacter_FullMethodName     = "/" + GameServiceName + "/CreateCharacter"
	GameService_GetSession_FullMethodName          = "/" + GameServiceName + "/GetSession"
	GameService_GetLatestSession_FullMethodName    = "/" + GameServiceName + "/GetLatestSession"
	GameService_ListSessions_FullMethodName        = "/" + GameServiceName + "/ListSessions"
	GameService_MakeChoice_FullMethodName          = "/" + GameServiceName + "/MakeChoice"
	GameService_StreamChoice_FullMethodName        = "/" + GameServiceName + "/StreamChoice"
	GameService_UpdateStats_FullMethodName         = "/" + GameServiceName + "/UpdateStats"
	GameService_ClearPendingLevelUp_FullMethodName = "/" + GameServiceName + "/ClearPendingLevelUp"
	GameService_AcknowledgeLevelUp_FullMethodName  = "/" + GameServiceName + "/AcknowledgeLevelUp"
	GameService_WatchSession_FullMethodName        = "/" + GameServiceName + "/WatchSession"
	GameService_GenerateBackstory_FullMethodName   = "/" + GameServiceName + "/GenerateBackstory"
)

// AuthServiceServer is the server API for AuthService
type AuthServiceServer interface {
	SignUp(context.Context, *SignUpRequest) (*SignInResponse, error)
	SignIn(context.Context, *SignInRequest) (*SignInResponse, error)
	SignOut(context.Context, *Empty) (*Empty, error)
	GetCurrentUser(context.Context, *Empty) (*GetCurrentUserResponse, error)
}

// GameServiceServer is the server API for GameService
type GameServiceServer interface {
	CreateCharacter(context.Context, *CreateCharacterRequest) (*CreateCharacterResponse, error)
	GetSession(context.Context, *GetSessionRequest) (*SessionResponse, error)
	GetLatestSession(context.Context, *Empty) (*SessionResponse, error)
	ListSessions(context.Context, *ListSessionsRequest) (*ListSessionsResponse, error)
	MakeChoice(context.Context, *MakeChoiceRequest) (*MakeChoiceResponse, error)
	StreamChoice(*MakeChoiceRequest, grpc.ServerStreamingServer[StreamChoiceEvent]) error
	UpdateStats(context.Context, *UpdateStatsRequest) (*SessionOnlyResponse, error)
	ClearPendingLevelUp(context.Context, *SessionIDRequest) (*SessionOnlyResponse, error)
	AcknowledgeLevelUp(context.Context, *SessionIDRequest) (*Empty, error)
	WatchSession(*SessionIDRequest, grpc.ServerStreamingServer[WatchSessionEvent]) error
	GenerateBackstory(*GenerateBackstoryRequest, grpc.ServerStreamingServer[BackstoryEvent]) error
}

// AuthService_ServiceDesc is the grpc.ServiceDesc for AuthService
var AuthService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: AuthServiceName,
	HandlerType: (*AuthServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "SignUp", Handler: unaryHandler(AuthService_SignUp_FullMethodName, AuthServiceServer.SignUp)},
		{MethodName: "SignIn", Handler: unaryHandler(AuthService_SignIn_FullMethodName, AuthServiceServer.SignIn)},
		{MethodName: "SignOut", Handler: unaryHandler(AuthService_SignOut_FullMethodName, AuthServiceServer.SignOut)},
		{MethodName: "GetCurrentUser", Handler: unaryHandler(AuthService_GetCurrentUser_FullMethodName, AuthServiceServer.GetCurrentUser)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "questforge/api/v1alpha1/auth.proto",
}

// GameService_ServiceDesc is the grpc.ServiceDesc for GameService
var GameService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: GameServiceName,
	HandlerType: (*GameServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreateCharacter", Handler: unaryHandler(GameService_CreateCharacter_FullMethodName, GameServiceServer.CreateCharacter)},
		{MethodName: "GetSession", Handler: unaryHandler(GameService_GetSession_FullMethodName, GameServiceServer.GetSession)},
		{MethodName: "GetLatestSession", Handler: unaryHandler(GameService_GetLatestSession_FullMethodName, GameServiceServer.GetLatestSession)},
		{MethodName: "ListSessions", Handler: unaryHandler(GameService_ListSessions_FullMethodName, GameServiceServer.ListSessions)},
		{MethodName: "MakeChoice", Handler: unaryHandler(GameService_MakeChoice_FullMethodName, GameServiceServer.MakeChoice)},
		{MethodName: "UpdateStats", Handler: unaryHandler(GameService_UpdateStats_FullMethodName, GameServiceServer.UpdateStats)},
		{MethodName: "ClearPendingLevelUp", Handler: unaryHandler(GameService_ClearPendingLevelUp_FullMethodName, GameServiceServer.ClearPendingLevelUp)},
		{MethodName: "AcknowledgeLevelUp", Handler: unaryHandler(GameService_AcknowledgeLevelUp_FullMethodName, GameServiceServer.AcknowledgeLevelUp)},
	},
	Streams: []grpc.StreamDesc{
		{StreamName: "StreamChoice", Handler: serverStreamHandler(GameServiceServer.StreamChoice), ServerStreams: true},
		{StreamName: "WatchSession", Handler: serverStreamHandler(GameServiceServer.WatchSession), ServerStreams: true},
		{StreamName: "GenerateBackstory", Handler: serverStreamHandler(GameServiceServer.GenerateBackstory), ServerStreams: true},
	},
	Metadata: "questforge/api/v1alpha1/game.proto",
}

// RegisterAuthServiceServer registers srv on s
func RegisterAuthServiceServer(s grpc.ServiceRegistrar, srv AuthServiceServer) {
	s.RegisterService(&AuthService_ServiceDesc, srv)
}

// RegisterGameServiceServer registers srv on s
func RegisterGameServiceServer(s grpc.ServiceRegistrar, srv GameServiceServer) {
	s.RegisterService(&GameService_ServiceDesc, srv)
}

func unaryHandler[S, Req, Res any](fullMethod string, call func(S, context.Context, *Req) (*Res, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(S), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(S), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

func serverStreamHandler[S, Req, Res any](call func(S, *Req, grpc.ServerStreamingServer[Res]) error) grpc.StreamHandler {
	return func(srv any, stream grpc.ServerStream) error {
		in := new(Req)
		if err := stream.RecvMsg(in); err != nil {
			return err
		}
		return call(srv.(S), in, &grpc.GenericServerStream[Req, Res]{ServerStream: stream})
	}
}

// AuthServiceClient calls AuthService over the JSON codec
type AuthServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewAuthServiceClient creates an AuthService client
func NewAuthServiceClient(cc grpc.ClientConnInterface) *AuthServiceClient {
	return &AuthServiceClient{cc: cc}
}

func (c *AuthServiceClient) SignUp(ctx context.Context, in *SignUpRequest, opts ...grpc.CallOption) (*SignInResponse, error) {
	return invoke[SignInResponse](ctx, c.cc, AuthService_SignUp_FullMethodName, in, opts)
}

func (c *AuthServiceClient) SignIn(ctx context.Context, in *SignInRequest, opts ...grpc.CallOption) (*SignInResponse, error) {
	return invoke[SignInResponse](ctx, c.cc, AuthService_SignIn_FullMethodName, in, opts)
}

func (c *AuthServiceClient) SignOut(ctx context.Context, opts ...grpc.CallOption) error {
	_, err := invoke[Empty](ctx, c.cc, AuthService_SignOut_FullMethodName, &Empty{}, opts)
	return err
}

func (c *AuthServiceClient) GetCurrentUser(ctx context.Context, opts ...grpc.CallOption) (*GetCurrentUserResponse, error) {
	return invoke[GetCurrentUserResponse](ctx, c.cc, AuthService_GetCurrentUser_FullMethodName, &Empty{}, opts)
}

// GameServiceClient calls GameService over the JSON codec
type GameServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewGameServiceClient creates a GameService client
func NewGameServiceClient(cc grpc.ClientConnInterface) *GameServiceClient {
	return &GameServiceClient{cc: cc}
}

func (c *GameServiceClient) CreateCharacter(ctx context.Context, in *CreateCharacterRequest, opts ...grpc.CallOption) (*CreateCharacterResponse, error) {
	return invoke[CreateCharacterResponse](ctx, c.cc, GameService_CreateCharacter_FullMethodName, in, opts)
}

func (c *GameServiceClient) GetSession(ctx context.Context, in *GetSessionRequest, opts ...grpc.CallOption) (*SessionResponse, error) {
	return invoke[SessionResponse](ctx, c.cc, GameService_GetSession_FullMethodName, in, opts)
}

func (c *GameServiceClient) GetLatestSession(ctx context.Context, opts ...grpc.CallOption) (*SessionResponse, error) {
	return invoke[SessionResponse](ctx, c.cc, GameService_GetLatestSession_FullMethodName, &Empty{}, opts)
}

func (c *GameServiceClient) ListSessions(ctx context.Context, in *ListSessionsRequest, opts ...grpc.CallOption) (*ListSessionsResponse, error) {
	return invoke[ListSessionsResponse](ctx, c.cc, GameService_ListSessions_FullMethodName, in, opts)
}

func (c *GameServiceClient) MakeChoice(ctx context.Context, in *MakeChoiceRequest, opts ...grpc.CallOption) (*MakeChoiceResponse, error) {
	return invoke[MakeChoiceResponse](ctx, c.cc, GameService_MakeChoice_FullMethodName, in, opts)
}

func (c *GameServiceClient) UpdateStats(ctx context.Context, in *UpdateStatsRequest, opts ...grpc.CallOption) (*SessionOnlyResponse, error) {
	return invoke[SessionOnlyResponse](ctx, c.cc, GameService_UpdateStats_FullMethodName, in, opts)
}

func (c *GameServiceClient) ClearPendingLevelUp(ctx context.Context, in *SessionIDRequest, opts ...grpc.CallOption) (*SessionOnlyResponse, error) {
	return invoke[SessionOnlyResponse](ctx, c.cc, GameService_ClearPendingLevelUp_FullMethodName, in, opts)
}

func (c *GameServiceClient) AcknowledgeLevelUp(ctx context.Context, in *SessionIDRequest, opts ...grpc.CallOption) error {
	_, err := invoke[Empty](ctx, c.cc, GameService_AcknowledgeLevelUp_FullMethodName, in, opts)
	return err
}

func (c *GameServiceClient) StreamChoice(ctx context.Context, in *MakeChoiceRequest, opts ...grpc.CallOption) (grpc.ServerStreamingClient[StreamChoiceEvent], error) {
	return openStream[MakeChoiceRequest, StreamChoiceEvent](ctx, c.cc, 0, GameService_StreamChoice_FullMethodName, in, opts)
}

func (c *GameServiceClient) WatchSession(ctx context.Context, in *SessionIDRequest, opts ...grpc.CallOption) (grpc.ServerStreamingClient[WatchSessionEvent], error) {
	return openStream[SessionIDRequest, WatchSessionEvent](ctx, c.cc, 1, GameService_WatchSession_FullMethodName, in, opts)
}

func (c *GameServiceClient) GenerateBackstory(ctx context.Context, in *GenerateBackstoryRequest, opts ...grpc.CallOption) (grpc.ServerStreamingClient[BackstoryEvent], error) {
	return openStream[GenerateBackstoryRequest, BackstoryEvent](ctx, c.cc, 2, GameService_GenerateBackstory_FullMethodName, in, opts)
}

func callOptions(opts []grpc.CallOption) []grpc.CallOption {
	return append([]grpc.CallOption{grpc.CallContentSubtype(jsoncodec.Name)}, opts...)
}

func invoke[Res any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Res, error) {
	out := new(Res)
	if err := cc.Invoke(ctx, method, in, out, callOptions(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func openStream[Req, Res any](ctx context.Context, cc grpc.ClientConnInterface, index int, method string, in *Req, opts []grpc.CallOption) (grpc.ServerStreamingClient[Res], error) {
	stream, err := cc.NewStream(ctx, &GameService_ServiceDesc.Streams[index], method, callOptions(opts)...)
	if err != nil {
		return nil, err
	}
	x := &grpc.GenericClientStream[Req, Res]{ClientStream: stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}
