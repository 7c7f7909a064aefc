package v1alpha1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "progression.v1alpha1.ProgressionService"

// Method names of the progression service
const (
	MethodStartProgression     = "StartProgression"
	MethodGetProgression       = "GetProgression"
	MethodSubmitHPChoice       = "SubmitHPChoice"
	MethodSubmitFeatureChoices = "SubmitFeatureChoices"
	MethodSubmitSpellChoices   = "SubmitSpellChoices"
	MethodBack                 = "Back"
	MethodConfirm              = "Confirm"
	MethodCancelProgression    = "CancelProgression"
	MethodPreviewProgression   = "PreviewProgression"

	MethodListResources   = "ListResources"
	MethodSpendResource   = "SpendResource"
	MethodRecoverResource = "RecoverResource"
	MethodRest            = "Rest"
	MethodSpendHitDice    = "SpendHitDice"

	MethodCreateCharacter = "CreateCharacter"
	MethodGetCharacter    = "GetCharacter"
	MethodListCharacters  = "ListCharacters"
	MethodDeleteCharacter = "DeleteCharacter"
)

// ProgressionServiceServer is the server API for the progression service.
// Requests and responses are google.protobuf.Struct messages whose fields
// follow the JSON shape of the request and response types in this package.
type ProgressionServiceServer interface {
	StartProgression(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetProgression(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SubmitHPChoice(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SubmitFeatureChoices(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SubmitSpellChoices(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Back(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Confirm(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CancelProgression(context.Context, *structpb.Struct) (*structpb.Struct, error)
	PreviewProgression(context.Context, *structpb.Struct) (*structpb.Struct, error)

	ListResources(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SpendResource(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RecoverResource(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Rest(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SpendHitDice(context.Context, *structpb.Struct) (*structpb.Struct, error)

	CreateCharacter(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetCharacter(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListCharacters(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteCharacter(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(ProgressionServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

// unary builds the method descriptor for one Struct-in Struct-out method
func unary(name string, call unaryCall) grpc.MethodDesc {
	fullMethod := "/" + ServiceName + "/" + name
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			server := srv.(ProgressionServiceServer)
			if interceptor == nil {
				return call(server, ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: fullMethod,
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(server, ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// ProgressionServiceDesc is the grpc.ServiceDesc for the progression service
var ProgressionServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ProgressionServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(MethodStartProgression, ProgressionServiceServer.StartProgression),
		unary(MethodGetProgression, ProgressionServiceServer.GetProgression),
		unary(MethodSubmitHPChoice, ProgressionServiceServer.SubmitHPChoice),
		unary(MethodSubmitFeatureChoices, ProgressionServiceServer.SubmitFeatureChoices),
		unary(MethodSubmitSpellChoices, ProgressionServiceServer.SubmitSpellChoices),
		unary(MethodBack, ProgressionServiceServer.Back),
		unary(MethodConfirm, ProgressionServiceServer.Confirm),
		unary(MethodCancelProgression, ProgressionServiceServer.CancelProgression),
		unary(MethodPreviewProgression, ProgressionServiceServer.PreviewProgression),

		unary(MethodListResources, ProgressionServiceServer.ListResources),
		unary(MethodSpendResource, ProgressionServiceServer.SpendResource),
		unary(MethodRecoverResource, ProgressionServiceServer.RecoverResource),
		unary(MethodRest, ProgressionServiceServer.Rest),
		unary(MethodSpendHitDice, ProgressionServiceServer.SpendHitDice),

		unary(MethodCreateCharacter, ProgressionServiceServer.CreateCharacter),
		unary(MethodGetCharacter, ProgressionServiceServer.GetCharacter),
		unary(MethodListCharacters, ProgressionServiceServer.ListCharacters),
		unary(MethodDeleteCharacter, ProgressionServiceServer.DeleteCharacter),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "progression/v1alpha1/progression.proto",
}

// RegisterProgressionServiceServer registers the handler with a gRPC server
func RegisterProgressionServiceServer(s grpc.ServiceRegistrar, srv ProgressionServiceServer) {
	s.RegisterService(&ProgressionServiceDesc, srv)
}

// Client calls the progression service over a client connection
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient creates a client for the progression service
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Call invokes a method with a raw Struct request
func (c *Client) Call(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// Do encodes req, invokes the method and decodes the response into resp.
// Status errors are converted back to *errors.Error.
func (c *Client) Do(ctx context.Context, method string, req, resp any, opts ...grpc.CallOption) error {
	in, err := encode(req)
	if err != nil {
		return err
	}
	out, err := c.Call(ctx, method, in, opts...)
	if err != nil {
		return fromStatus(err)
	}
	if resp == nil {
		return nil
	}
	return decodeResponse(out, resp)
}
