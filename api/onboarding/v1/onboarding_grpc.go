package onboardingv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	OnboardingService_RegisterProfessional_FullMethodName = "/craftconnect.onboarding.v1.OnboardingService/RegisterProfessional"
	OnboardingService_SendOTP_FullMethodName              = "/craftconnect.onboarding.v1.OnboardingService/SendOTP"
	OnboardingService_VerifyOTP_FullMethodName            = "/craftconnect.onboarding.v1.OnboardingService/VerifyOTP"
	OnboardingService_CompleteProfile_FullMethodName      = "/craftconnect.onboarding.v1.OnboardingService/CompleteProfile"
	OnboardingService_RegisterCustomer_FullMethodName     = "/craftconnect.onboarding.v1.OnboardingService/RegisterCustomer"
	OnboardingService_Login_FullMethodName                = "/craftconnect.onboarding.v1.OnboardingService/Login"
	DevService_GetOTP_FullMethodName                      = "/craftconnect.onboarding.v1.DevService/GetOTP"
)

// OnboardingServiceServer is the server API for OnboardingService.
type OnboardingServiceServer interface {
	RegisterProfessional(context.Context, *RegisterRequest) (*RegisterProfessionalResponse, error)
	SendOTP(context.Context, *SendOTPRequest) (*SendOTPResponse, error)
	VerifyOTP(context.Context, *VerifyOTPRequest) (*AuthResponse, error)
	CompleteProfile(context.Context, *CompleteProfileRequest) (*CompleteProfileResponse, error)
	RegisterCustomer(context.Context, *RegisterRequest) (*AuthResponse, error)
	Login(context.Context, *LoginRequest) (*AuthResponse, error)
}

// UnimplementedOnboardingServiceServer returns Unimplemented for every method.
type UnimplementedOnboardingServiceServer struct{}

func (UnimplementedOnboardingServiceServer) RegisterProfessional(context.Context, *RegisterRequest) (*RegisterProfessionalResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method RegisterProfessional not implemented")
}

func (UnimplementedOnboardingServiceServer) SendOTP(context.Context, *SendOTPRequest) (*SendOTPResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method SendOTP not implemented")
}

func (UnimplementedOnboardingServiceServer) VerifyOTP(context.Context, *VerifyOTPRequest) (*AuthResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method VerifyOTP not implemented")
}

func (UnimplementedOnboardingServiceServer) CompleteProfile(context.Context, *CompleteProfileRequest) (*CompleteProfileResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CompleteProfile not implemented")
}

func (UnimplementedOnboardingServiceServer) RegisterCustomer(context.Context, *RegisterRequest) (*AuthResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method RegisterCustomer not implemented")
}

func (UnimplementedOnboardingServiceServer) Login(context.Context, *LoginRequest) (*AuthResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Login not implemented")
}

// RegisterOnboardingServiceServer registers srv with s.
func RegisterOnboardingServiceServer(s grpc.ServiceRegistrar, srv OnboardingServiceServer) {
	s.RegisterService(&OnboardingService_ServiceDesc, srv)
}

// unaryHandler builds a grpc.MethodHandler for one method of a service.
func unaryHandler[Srv any, Req any, Resp any](fullMethod string, call func(Srv, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(Srv), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(Srv), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// OnboardingService_ServiceDesc is the grpc.ServiceDesc for OnboardingService.
var OnboardingService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "craftconnect.onboarding.v1.OnboardingService",
	HandlerType: (*OnboardingServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "RegisterProfessional",
			Handler:    unaryHandler(OnboardingService_RegisterProfessional_FullMethodName, OnboardingServiceServer.RegisterProfessional),
		},
		{
			MethodName: "SendOTP",
			Handler:    unaryHandler(OnboardingService_SendOTP_FullMethodName, OnboardingServiceServer.SendOTP),
		},
		{
			MethodName: "VerifyOTP",
			Handler:    unaryHandler(OnboardingService_VerifyOTP_FullMethodName, OnboardingServiceServer.VerifyOTP),
		},
		{
			MethodName: "CompleteProfile",
			Handler:    unaryHandler(OnboardingService_CompleteProfile_FullMethodName, OnboardingServiceServer.CompleteProfile),
		},
		{
			MethodName: "RegisterCustomer",
			Handler:    unaryHandler(OnboardingService_RegisterCustomer_FullMethodName, OnboardingServiceServer.RegisterCustomer),
		},
		{
			MethodName: "Login",
			Handler:    unaryHandler(OnboardingService_Login_FullMethodName, OnboardingServiceServer.Login),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "craftconnect/onboarding/v1/onboarding.proto",
}

// OnboardingServiceClient is the client API for OnboardingService. Calls use the JSON codec.
type OnboardingServiceClient interface {
	RegisterProfessional(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterProfessionalResponse, error)
	SendOTP(ctx context.Context, in *SendOTPRequest, opts ...grpc.CallOption) (*SendOTPResponse, error)
	VerifyOTP(ctx context.Context, in *VerifyOTPRequest, opts ...grpc.CallOption) (*AuthResponse, error)
	CompleteProfile(ctx context.Context, in *CompleteProfileRequest, opts ...grpc.CallOption) (*CompleteProfileResponse, error)
	RegisterCustomer(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*AuthResponse, error)
	Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*AuthResponse, error)
}

type onboardingServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewOnboardingServiceClient(cc grpc.ClientConnInterface) OnboardingServiceClient {
	return &onboardingServiceClient{cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *onboardingServiceClient) RegisterProfessional(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterProfessionalResponse, error) {
	return invoke[RegisterProfessionalResponse](ctx, c.cc, OnboardingService_RegisterProfessional_FullMethodName, in, opts)
}

func (c *onboardingServiceClient) SendOTP(ctx context.Context, in *SendOTPRequest, opts ...grpc.CallOption) (*SendOTPResponse, error) {
	return invoke[SendOTPResponse](ctx, c.cc, OnboardingService_SendOTP_FullMethodName, in, opts)
}

func (c *onboardingServiceClient) VerifyOTP(ctx context.Context, in *VerifyOTPRequest, opts ...grpc.CallOption) (*AuthResponse, error) {
	return invoke[AuthResponse](ctx, c.cc, OnboardingService_VerifyOTP_FullMethodName, in, opts)
}

func (c *onboardingServiceClient) CompleteProfile(ctx context.Context, in *CompleteProfileRequest, opts ...grpc.CallOption) (*CompleteProfileResponse, error) {
	return invoke[CompleteProfileResponse](ctx, c.cc, OnboardingService_CompleteProfile_FullMethodName, in, opts)
}

func (c *onboardingServiceClient) RegisterCustomer(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*AuthResponse, error) {
	return invoke[AuthResponse](ctx, c.cc, OnboardingService_RegisterCustomer_FullMethodName, in, opts)
}

func (c *onboardingServiceClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*AuthResponse, error) {
	return invoke[AuthResponse](ctx, c.cc, OnboardingService_Login_FullMethodName, in, opts)
}

// DevServiceServer is the server API for the dev-only DevService.
type DevServiceServer interface {
	GetOTP(context.Context, *GetOTPRequest) (*GetOTPResponse, error)
}

// UnimplementedDevServiceServer returns Unimplemented for every method.
type UnimplementedDevServiceServer struct{}

func (UnimplementedDevServiceServer) GetOTP(context.Context, *GetOTPRequest) (*GetOTPResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetOTP not implemented")
}

// RegisterDevServiceServer registers srv with s.
func RegisterDevServiceServer(s grpc.ServiceRegistrar, srv DevServiceServer) {
	s.RegisterService(&DevService_ServiceDesc, srv)
}

// DevService_ServiceDesc is the grpc.ServiceDesc for DevService.
var DevService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "craftconnect.onboarding.v1.DevService",
	HandlerType: (*DevServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetOTP",
			Handler:    unaryHandler(DevService_GetOTP_FullMethodName, DevServiceServer.GetOTP),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "craftconnect/onboarding/v1/dev.proto",
}

// DevServiceClient is the client API for DevService.
type DevServiceClient interface {
	GetOTP(ctx context.Context, in *GetOTPRequest, opts ...grpc.CallOption) (*GetOTPResponse, error)
}

type devServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewDevServiceClient(cc grpc.ClientConnInterface) DevServiceClient {
	return &devServiceClient{cc}
}

func (c *devServiceClient) GetOTP(ctx context.Context, in *GetOTPRequest, opts ...grpc.CallOption) (*GetOTPResponse, error) {
	return invoke[GetOTPResponse](ctx, c.cc, DevService_GetOTP_FullMethodName, in, opts)
}
