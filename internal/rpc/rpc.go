package rpc

import (
	"context"
	"errors"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/go-skc/skc/internal/classifier"
	"github.com/go-skc/skc/internal/dispatcher"
	"github.com/go-skc/skc/internal/geom"
	"github.com/go-skc/skc/internal/observability"
)

const serviceName = "skc.Classifier"

type ClassifyRequest struct {
	Dataset string    `json:"dataset"`
	Vector  []float64 `json:"vector"`
	K       int       `json:"k"`
}

type ClassifyResponse struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

type ClassifierServer interface {
	Classify(context.Context, *ClassifyRequest) (*ClassifyResponse, error)
}

// Server answers Classify calls with the dispatcher behind it.
type Server struct {
	classifier dispatcher.Classifier
}

func NewServer(c dispatcher.Classifier) *Server {
	return &Server{classifier: c}
}

// Register attaches the service to srv under skc.Classifier.
func Register(srv *grpc.Server, s *Server) {
	srv.RegisterService(&serviceDesc, s)
}

type point struct {
	vec       geom.Point
	createdAt time.Time
}

func (p point) Vector() classifier.Vector { return p.vec }

func (p point) Label() string { return "" }

func (p point) Time() time.Time { return p.createdAt }

// Classify assigns a label to the request vector. A bad k is an
// InvalidArgument, a vector whose length disagrees with the dataset is a
// FailedPrecondition and a dataset without training data is NotFound.
func (s *Server) Classify(ctx context.Context, req *ClassifyRequest) (*ClassifyResponse, error) {
	if !observability.ValidDatasetName(req.Dataset) {
		return nil, status.Error(codes.InvalidArgument, "invalid dataset name")
	}
	if len(req.Vector) == 0 {
		return nil, status.Error(codes.InvalidArgument, "empty vector")
	}
	prediction, err := s.classifier.Classify(ctx, req.Dataset, point{vec: geom.New(req.Vector), createdAt: time.Now()}, req.K)
	if err != nil {
		return nil, rpcError(err)
	}
	return &ClassifyResponse{
		Label:      prediction.Label,
		Confidence: prediction.Confidence,
	}, nil
}

func rpcError(err error) error {
	var dimErr *classifier.ErrDimensionMismatch
	switch {
	case errors.Is(err, classifier.ErrInvalidK):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.As(err, &dimErr):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, classifier.ErrEmptyDataset):
		return status.Error(codes.NotFound, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

func classifyHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(ClassifyRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ClassifierServer).Classify(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/" + serviceName + "/Classify",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ClassifierServer).Classify(ctx, req.(*ClassifyRequest))
	}
	return interceptor(ctx, in, info, handler)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*ClassifierServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Classify",
			Handler:    classifyHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "skc",
}
