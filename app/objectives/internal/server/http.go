package server

import (
	nethttp "net/http"

	"github.com/go-kratos/kratos/v2/encoding"
	"github.com/go-kratos/kratos/v2/encoding/json"
	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/logging"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/transport/http"

	"github.com/iWorld-y/loyalty_objectives/app/objectives/internal/conf"
	"github.com/iWorld-y/loyalty_objectives/app/objectives/internal/service"
)

const defaultAddr = "0.0.0.0:8000"

// NewHTTPServer 未配置 timeout 时不设置请求截止时间，生成调用的超时由 generator.timeout 控制
func NewHTTPServer(c *conf.Server, s *service.ObjectivesService, logger log.Logger) (*http.Server, error) {
	var opts = []http.ServerOption{
		http.Middleware(
			recovery.Recovery(),
			logging.Server(logger),
		),
		http.ErrorEncoder(detailErrorEncoder),
	}
	addr, timeout := defaultAddr, ""
	if c != nil && c.Http != nil {
		if c.Http.Addr != "" {
			addr = c.Http.Addr
		}
		timeout = c.Http.Timeout
	}
	d, err := parseTimeout("server.http.timeout", timeout)
	if err != nil {
		return nil, err
	}
	opts = append(opts, http.Address(addr), http.Timeout(d))

	srv := http.NewServer(opts...)
	service.RegisterObjectivesHTTPServer(srv, s)

	return srv, nil
}

type errorBody struct {
	Detail string `json:"detail"`
}

// detailErrorEncoder 错误统一输出为 {"detail": "..."}
func detailErrorEncoder(w nethttp.ResponseWriter, r *nethttp.Request, err error) {
	se := errors.FromError(err)
	body, mErr := encoding.GetCodec(json.Name).Marshal(&errorBody{Detail: se.Message})
	if mErr != nil {
		w.WriteHeader(nethttp.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(int(se.Code))
	_, _ = w.Write(body)
}
