package grpc

import (
	"context"
	"errors"
	"math"
	"strings"

	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/simaogato/wealthflow-planner/internal/adapter/wire"
	"github.com/simaogato/wealthflow-planner/internal/domain"
	"github.com/simaogato/wealthflow-planner/internal/usecase/planner"
)

// ServiceName is the fully qualified name of the projection service
const ServiceName = "wealthflow.planner.v1.ProjectionService"

// ProjectionServer is the server API of the projection service.
// Every method takes and returns a google.protobuf.Struct.
type ProjectionServer interface {
	GetTimeline(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetAccountHealth(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetAutopayRisks(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetFundingPlan(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetCardCycles(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetBudgetPerformance(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetForecast(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetBillVariance(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetBillStatuses(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetNetLiquidity(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(ProjectionServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

// unaryHandler adapts a server method to grpc.MethodHandler, running the
// configured interceptor chain around it
func unaryHandler(method string, call unaryCall) grpc.MethodHandler {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(ProjectionServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: "/" + ServiceName + "/" + method,
		}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(ProjectionServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// ServiceDesc describes the projection service for grpc.Server.RegisterService
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ProjectionServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetTimeline", Handler: unaryHandler("GetTimeline", ProjectionServer.GetTimeline)},
		{MethodName: "GetAccountHealth", Handler: unaryHandler("GetAccountHealth", ProjectionServer.GetAccountHealth)},
		{MethodName: "GetAutopayRisks", Handler: unaryHandler("GetAutopayRisks", ProjectionServer.GetAutopayRisks)},
		{MethodName: "GetFundingPlan", Handler: unaryHandler("GetFundingPlan", ProjectionServer.GetFundingPlan)},
		{MethodName: "GetCardCycles", Handler: unaryHandler("GetCardCycles", ProjectionServer.GetCardCycles)},
		{MethodName: "GetBudgetPerformance", Handler: unaryHandler("GetBudgetPerformance", ProjectionServer.GetBudgetPerformance)},
		{MethodName: "GetForecast", Handler: unaryHandler("GetForecast", ProjectionServer.GetForecast)},
		{MethodName: "GetBillVariance", Handler: unaryHandler("GetBillVariance", ProjectionServer.GetBillVariance)},
		{MethodName: "GetBillStatuses", Handler: unaryHandler("GetBillStatuses", ProjectionServer.GetBillStatuses)},
		{MethodName: "GetNetLiquidity", Handler: unaryHandler("GetNetLiquidity", ProjectionServer.GetNetLiquidity)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "wealthflow/planner/v1/projection.proto",
}

// RegisterProjectionServer registers srv on the given registrar
func RegisterProjectionServer(s grpc.ServiceRegistrar, srv ProjectionServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// Server implements ProjectionServer over the planner service
type Server struct {
	Planner *planner.PlannerService
}

// NewServer creates a new gRPC server instance
func NewServer(plannerService *planner.PlannerService) *Server {
	return &Server{Planner: plannerService}
}

// GetTimeline handles the GetTimeline RPC.
// Accepts an optional "window_days" number; zero or absent uses the configured window.
func (s *Server) GetTimeline(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	windowDays, err := optionalInt(req, "window_days")
	if err != nil {
		return nil, err
	}

	tl, err := s.Planner.Timeline(ctx, windowDays)
	if err != nil {
		return nil, mapError(err)
	}
	return encoded(wire.Timeline(tl))
}

// GetAccountHealth handles the GetAccountHealth RPC
func (s *Server) GetAccountHealth(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	rows, err := s.Planner.AccountHealth(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return encoded(wire.AccountHealth(rows))
}

// GetAutopayRisks handles the GetAutopayRisks RPC
func (s *Server) GetAutopayRisks(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	risks, err := s.Planner.AutopayRisks(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return encoded(wire.AutopayRisks(risks))
}

// GetFundingPlan handles the GetFundingPlan RPC
func (s *Server) GetFundingPlan(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	plan, err := s.Planner.FundingPlan(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return encoded(wire.FundingPlan(plan))
}

// GetCardCycles handles the GetCardCycles RPC
func (s *Server) GetCardCycles(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	cards, err := s.Planner.CardCycles(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return encoded(wire.CardCycles(cards))
}

// GetBudgetPerformance handles the GetBudgetPerformance RPC
func (s *Server) GetBudgetPerformance(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	report, err := s.Planner.BudgetPerformance(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return encoded(wire.BudgetPerformance(report))
}

// GetForecast handles the GetForecast RPC
func (s *Server) GetForecast(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	forecast, err := s.Planner.Forecast(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return encoded(wire.Forecast(forecast))
}

// GetBillVariance handles the GetBillVariance RPC
func (s *Server) GetBillVariance(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	bills, err := s.Planner.BillVariance(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return encoded(wire.BillVariance(bills))
}

// GetBillStatuses handles the GetBillStatuses RPC
func (s *Server) GetBillStatuses(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	bills, err := s.Planner.BillStatuses(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return encoded(wire.BillStatuses(bills))
}

// GetNetLiquidity handles the GetNetLiquidity RPC
func (s *Server) GetNetLiquidity(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	result, err := s.Planner.NetLiquidity(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return encoded(wire.NetLiquidity(result))
}

// optionalInt reads a non-negative whole number field; absent yields zero
func optionalInt(req *structpb.Struct, field string) (int, error) {
	value, ok := req.GetFields()[field]
	if !ok {
		return 0, nil
	}
	if _, isNull := value.GetKind().(*structpb.Value_NullValue); isNull {
		return 0, nil
	}

	number, isNumber := value.GetKind().(*structpb.Value_NumberValue)
	if !isNumber {
		return 0, status.Errorf(codes.InvalidArgument, "invalid %s: must be a number", field)
	}
	n := number.NumberValue
	if n < 0 || n != math.Trunc(n) || n > math.MaxInt32 {
		return 0, status.Errorf(codes.InvalidArgument, "invalid %s: must be a non-negative whole number", field)
	}
	return int(n), nil
}

// encoded turns an encoding failure into an Internal status
func encoded(msg *structpb.Struct, err error) (*structpb.Struct, error) {
	if err != nil {
		log.WithError(err).Error("failed to encode response")
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	return msg, nil
}

// mapError converts domain errors to gRPC status errors
func mapError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		return status.Errorf(codes.NotFound, "%s", err.Error())
	case errors.Is(err, context.Canceled):
		return status.Errorf(codes.Canceled, "%s", err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Errorf(codes.DeadlineExceeded, "%s", err.Error())
	}

	errorMsg := err.Error()

	// Map common validation errors to InvalidArgument
	if strings.Contains(errorMsg, "cannot be") ||
		strings.Contains(errorMsg, "invalid") ||
		strings.Contains(errorMsg, "must reference") ||
		strings.Contains(errorMsg, "must have") {
		return status.Errorf(codes.InvalidArgument, "%s", errorMsg)
	}

	// Default to Internal error for unknown errors
	log.WithError(err).Error("projection request failed")
	return status.Errorf(codes.Internal, "%s", errorMsg)
}
