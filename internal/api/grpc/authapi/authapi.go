// Package authapi defines the hurtle.auth.v1.Auth gRPC service: its
// messages, service descriptor and client. Messages travel as JSON.
package authapi

import (
	"context"
	"errors"
	"time"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"

	"github.com/dtroode/hurtle-auth/internal/api/grpc/codec"
	"github.com/dtroode/hurtle-auth/internal/model"
)

const (
	ServiceName = "hurtle.auth.v1.Auth"

	RegisterMethod = "/" + ServiceName + "/Register"
	LoginMethod    = "/" + ServiceName + "/Login"
	ValidateMethod = "/" + ServiceName + "/Validate"
	ProfileMethod  = "/" + ServiceName + "/Profile"

	// ErrorDomain is the errdetails.ErrorInfo domain of failures whose
	// reason is a model.Kind.
	ErrorDomain = "auth.hurtle"
)

type RegisterRequest struct {
	Identifier  string `json:"identifier"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name,omitempty"`
}

type RegisterResponse struct {
	AccountID string `json:"account_id"`
}

type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	AccountID string    `json:"account_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

type ValidateRequest struct {
	Token string `json:"token"`
}

type ValidateResponse struct {
	AccountID string `json:"account_id"`
}

type ProfileRequest struct{}

type ProfileResponse struct {
	AccountID   string    `json:"account_id"`
	Identifier  string    `json:"identifier"`
	DisplayName string    `json:"display_name,omitempty"`
	HasPassword bool      `json:"has_password"`
	Providers   []string  `json:"providers,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// AuthServer is the server API for the Auth service.
type AuthServer interface {
	Register(context.Context, *RegisterRequest) (*RegisterResponse, error)
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	Validate(context.Context, *ValidateRequest) (*ValidateResponse, error)
	Profile(context.Context, *ProfileRequest) (*ProfileResponse, error)
}

// RegisterAuthServer registers srv on s.
func RegisterAuthServer(s grpc.ServiceRegistrar, srv AuthServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// ServiceDesc describes the Auth service for grpc.Server.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AuthServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Register", Handler: unaryHandler(RegisterMethod, AuthServer.Register)},
		{MethodName: "Login", Handler: unaryHandler(LoginMethod, AuthServer.Login)},
		{MethodName: "Validate", Handler: unaryHandler(ValidateMethod, AuthServer.Validate)},
		{MethodName: "Profile", Handler: unaryHandler(ProfileMethod, AuthServer.Profile)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "hurtle/auth/v1/auth.proto",
}

func unaryHandler[Req, Resp any](
	fullMethod string,
	call func(AuthServer, context.Context, *Req) (*Resp, error),
) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(AuthServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(AuthServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// AuthClient is the client API for the Auth service.
type AuthClient struct {
	cc grpc.ClientConnInterface
}

func NewAuthClient(cc grpc.ClientConnInterface) *AuthClient {
	return &AuthClient{cc: cc}
}

func (c *AuthClient) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterResponse, error) {
	out := new(RegisterResponse)
	if err := c.invoke(ctx, RegisterMethod, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *AuthClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	out := new(LoginResponse)
	if err := c.invoke(ctx, LoginMethod, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *AuthClient) Validate(ctx context.Context, in *ValidateRequest, opts ...grpc.CallOption) (*ValidateResponse, error) {
	out := new(ValidateResponse)
	if err := c.invoke(ctx, ValidateMethod, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *AuthClient) Profile(ctx context.Context, in *ProfileRequest, opts ...grpc.CallOption) (*ProfileResponse, error) {
	out := new(ProfileResponse)
	if err := c.invoke(ctx, ProfileMethod, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *AuthClient) invoke(ctx context.Context, method string, in, out any, opts []grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(codec.Name)}, opts...)
	return c.cc.Invoke(ctx, method, in, out, opts...)
}

// KindOf extracts the failure kind from a status error returned by the
// service. It returns the empty kind when err carries none.
func KindOf(err error) model.Kind {
	if err == nil {
		return ""
	}
	st, ok := status.FromError(err)
	if !ok {
		var modelErr *model.Error
		if errors.As(err, &modelErr) {
			return modelErr.Kind
		}
		return ""
	}
	for _, d := range st.Details() {
		if info, ok := d.(*errdetails.ErrorInfo); ok && info.GetDomain() == ErrorDomain {
			return model.Kind(info.GetReason())
		}
	}
	return ""
}
