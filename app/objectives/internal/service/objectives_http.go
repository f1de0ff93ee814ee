package service

import (
	"context"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/transport/http"
)

const OperationObjectivesGenerate = "/objectives.v1.Objectives/Generate"

type ObjectivesHTTPServer interface {
	Generate(context.Context, *GenerateRequest) (*GenerateReply, error)
}

// RegisterObjectivesHTTPServer 注册 POST /generate
func RegisterObjectivesHTTPServer(s *http.Server, srv ObjectivesHTTPServer) {
	r := s.Route("/")
	r.POST("/generate", _Objectives_Generate_HTTP_Handler(srv))
}

func _Objectives_Generate_HTTP_Handler(srv ObjectivesHTTPServer) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in GenerateRequest
		if err := ctx.Bind(&in); err != nil {
			return validationError(errors.FromError(err).Message)
		}
		http.SetOperation(ctx, OperationObjectivesGenerate)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.Generate(ctx, req.(*GenerateRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		reply := out.(*GenerateReply)
		return ctx.Result(200, reply)
	}
}
