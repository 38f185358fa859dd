package grpc

// proto.go is the hand-written service descriptor for credit_risk.v1.RiskService.
// Messages are plain structs carried by the JSON codec.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/JWang8249/credit-risk-pipeline/internal/application/dto"
)

// ServiceName is the fully-qualified gRPC service name.
const ServiceName = "credit_risk.v1.RiskService"

// PredictMethod is the full method path of Predict.
const PredictMethod = "/" + ServiceName + "/Predict"

// RiskServiceServer is the server API for RiskService.
type RiskServiceServer interface {
	Predict(context.Context, *dto.PredictRequest) (*dto.PredictionResponse, error)
	mustEmbedUnimplementedRiskServiceServer()
}

// UnimplementedRiskServiceServer provides forward-compatible default implementations.
type UnimplementedRiskServiceServer struct{}

func (UnimplementedRiskServiceServer) Predict(context.Context, *dto.PredictRequest) (*dto.PredictionResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Predict not implemented")
}
func (UnimplementedRiskServiceServer) mustEmbedUnimplementedRiskServiceServer() {}

// RegisterRiskServiceServer registers the RiskServiceServer with the gRPC server.
func RegisterRiskServiceServer(s *grpclib.Server, srv RiskServiceServer) {
	s.RegisterService(&_RiskService_serviceDesc, srv)
}

var _RiskService_serviceDesc = grpclib.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*RiskServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "Predict", Handler: _RiskService_Predict_Handler},
	},
	Streams: []grpclib.StreamDesc{},
}

func _RiskService_Predict_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	req := new(dto.PredictRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RiskServiceServer).Predict(ctx, req)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: PredictMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(RiskServiceServer).Predict(ctx, req.(*dto.PredictRequest))
	}
	return interceptor(ctx, req, info, handler)
}
