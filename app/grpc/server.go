package grpc

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	dto "github.com/vibast-solutions/ms-go-glucose/app/dto/http"
	"github.com/vibast-solutions/ms-go-glucose/app/service"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

type ReadingServer struct {
	UnimplementedReadingServiceServer
	readings *service.ReadingService
}

func NewReadingServer(readings *service.ReadingService) *ReadingServer {
	return &ReadingServer{readings: readings}
}

func (s *ReadingServer) ListReadings(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	readings, err := s.readings.List(ctx, limitFromRequest(req))
	if err != nil {
		logrus.WithError(err).Error("List readings failed (grpc)")
		return nil, status.Error(codes.Internal, "internal server error")
	}

	return toStruct(dto.ReadingsResponse{Readings: dto.NewReadingResponses(readings)})
}

func (s *ReadingServer) GetSummary(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	readings, err := s.readings.List(ctx, limitFromRequest(req))
	if err != nil {
		logrus.WithError(err).Error("Get summary failed (grpc)")
		return nil, status.Error(codes.Internal, "internal server error")
	}

	summary := service.Summarize(readings)
	if summary == nil {
		return toStruct(dto.SummaryResponse{})
	}
	return toStruct(dto.SummaryResponse{
		Count:   summary.Count,
		Min:     summary.Min,
		Max:     summary.Max,
		Average: summary.Average,
	})
}

func (s *ReadingServer) DeleteReading(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	id := strings.TrimSpace(req.GetFields()["id"].GetStringValue())
	if id == "" {
		return nil, status.Error(codes.InvalidArgument, "id is required")
	}

	if err := s.readings.Delete(ctx, id); err != nil {
		if errors.Is(err, service.ErrReadingNotFound) {
			return nil, status.Error(codes.NotFound, "reading not found")
		}
		logrus.WithError(err).WithField("reading_id", id).Error("Delete reading failed (grpc)")
		return nil, status.Error(codes.Internal, "internal server error")
	}

	logrus.WithField("reading_id", id).Info("Reading deleted (grpc)")
	return &emptypb.Empty{}, nil
}

func limitFromRequest(req *structpb.Struct) int {
	return int(req.GetFields()["limit"].GetNumberValue())
}

// toStruct reuses the HTTP JSON shape for gRPC responses.
func toStruct(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, status.Error(codes.Internal, "internal server error")
	}

	out := &structpb.Struct{}
	if err := protojson.Unmarshal(data, out); err != nil {
		return nil, status.Error(codes.Internal, "internal server error")
	}
	return out, nil
}
