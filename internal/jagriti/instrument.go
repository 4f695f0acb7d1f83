package jagriti

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/JustJay7/consumer-case-tracker/pkg/logger"
	"github.com/go-resty/resty/v2"
)

type reqCtxKeyType int

var reqCtxKey reqCtxKeyType

type reqCtx struct {
	id        uint64
	startTime time.Time
}

type instrumentCtx struct {
	logger    *logger.Logger
	idcounter *uint64
}

// instrumentClient logs every outbound request with its latency and status
func instrumentClient(client *resty.Client, log *logger.Logger) {
	var idcounter uint64
	i := instrumentCtx{logger: log, idcounter: &idcounter}

	client.OnBeforeRequest(i.onBeforeRequest)
	client.OnAfterResponse(i.onAfterResponse)
	client.OnError(i.onError)
}

func (i instrumentCtx) onBeforeRequest(_ *resty.Client, req *resty.Request) error {
	id := atomic.AddUint64(i.idcounter, 1)
	ctx := context.WithValue(req.Context(), reqCtxKey, reqCtx{
		id:        id,
		startTime: time.Now(),
	})
	req.SetContext(ctx)

	i.logger.Debug("Upstream request", "id", id, "method", req.Method, "url", req.URL)
	return nil
}

func (i instrumentCtx) onAfterResponse(_ *resty.Client, res *resty.Response) error {
	rc, ok := res.Request.Context().Value(reqCtxKey).(reqCtx)
	if !ok {
		return nil
	}

	i.logger.Debug("Upstream response",
		"id", rc.id,
		"status", res.StatusCode(),
		"bytes", len(res.Body()),
		"latency", time.Since(rc.startTime).String(),
	)
	return nil
}

func (i instrumentCtx) onError(req *resty.Request, err error) {
	rc, ok := req.Context().Value(reqCtxKey).(reqCtx)
	if !ok {
		i.logger.Warn("Upstream request failed", "method", req.Method, "url", req.URL, "error", err)
		return
	}

	i.logger.Warn("Upstream request failed",
		"id", rc.id,
		"method", req.Method,
		"url", req.URL,
		"latency", time.Since(rc.startTime).String(),
		"error", err,
	)
}
