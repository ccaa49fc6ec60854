package grpc

import (
	"context"
	"strings"

	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const accessTokenMetadataKey = "x-access-token"

type accessTokenChecker interface {
	HasValidToken(token string) bool
}

// Methods that change data. Reads stay open like the HTTP API.
var guardedMethods = map[string]bool{
	MethodDeleteReading: true,
}

func AccessUnaryInterceptor(verifier accessTokenChecker) gogrpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *gogrpc.UnaryServerInfo, handler gogrpc.UnaryHandler) (any, error) {
		if info == nil || !guardedMethods[info.FullMethod] {
			return handler(ctx, req)
		}

		token := incomingAccessTokenFromMetadata(ctx)
		if token == "" || !verifier.HasValidToken(token) {
			return nil, status.Error(codes.Unauthenticated, "unauthorized")
		}

		return handler(ctx, req)
	}
}

func incomingAccessTokenFromMetadata(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	values := md.Get(accessTokenMetadataKey)
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0])
}
