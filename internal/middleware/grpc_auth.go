package middleware

import (
	"context"

	"github.com/brieflab/brief-analyzer/internal/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// GRPCAuthMiddleware validates bearer tokens on the admin gRPC surface.
type GRPCAuthMiddleware struct {
	jwtService *auth.JWTService
}

// NewGRPCAuthMiddleware creates a GRPCAuthMiddleware with the provided JWT service.
func NewGRPCAuthMiddleware(jwtService *auth.JWTService) *GRPCAuthMiddleware {
	return &GRPCAuthMiddleware{
		jwtService: jwtService,
	}
}

// UnaryInterceptor extracts the user identity from request metadata when
// present. Invalid tokens are ignored, matching the HTTP cookie behavior.
func (m *GRPCAuthMiddleware) UnaryInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "metadata is missing")
	}

	authHeader := md.Get("authorization")
	if len(authHeader) == 0 {
		return handler(ctx, req)
	}

	claims, err := m.jwtService.ValidateToken(authHeader[0])
	if err != nil {
		return handler(ctx, req)
	}

	ctx = context.WithValue(ctx, UserIDKey, claims.UserID)
	ctx = context.WithValue(ctx, RoleKey, claims.Role)
	return handler(ctx, req)
}
