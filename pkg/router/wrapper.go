package router

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mitchellh/mapstructure"
	"github.com/questx-lab/tileset/pkg/errorx"
	"github.com/questx-lab/tileset/pkg/xcontext"
)

func wrapHandler[Request, Response any](
	router *Router,
	method string,
	handler HandlerFunc[Request, Response],
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, ok := router.before(w, r)
		if !ok {
			return
		}
		defer func() { router.runClosers(ctx) }()

		var req Request
		if err := parseRequest(r, method, &req); err != nil {
			xcontext.Logger(ctx).Debugf("Cannot parse request: %v", err)
			ctx = xcontext.WithError(ctx, errorx.New(errorx.BadRequest, "Invalid request"))
			writeResponse(ctx)
			return
		}

		resp, err := handler(ctx, &req)
		if err != nil {
			ctx = xcontext.WithError(ctx, err)
		} else {
			ctx = xcontext.WithResponse(ctx, resp)
		}

		writeResponse(ctx)
	}
}

func parseRequest(r *http.Request, method string, req any) error {
	switch method {
	case http.MethodGet:
		return decodeValues(r, req)
	case http.MethodPost:
		if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			// Multipart handlers read the form from xcontext.HTTPRequest.
			return decodeValues(r, req)
		}

		if r.ContentLength == 0 {
			return nil
		}

		return json.NewDecoder(r.Body).Decode(req)
	default:
		return errUnsupported(method)
	}
}

// decodeValues fills req from the query string and chi url params, matching the
// json tags of req.
func decodeValues(r *http.Request, req any) error {
	values := map[string]any{}
	for k, v := range r.URL.Query() {
		if len(v) == 1 {
			values[k] = v[0]
		} else {
			values[k] = v
		}
	}

	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		for i, k := range rctx.URLParams.Keys {
			values[k] = rctx.URLParams.Values[i]
		}
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           req,
	})
	if err != nil {
		return err
	}

	return decoder.Decode(values)
}

// mergeCancel returns parent whose cancellation also follows the request context.
func mergeCancel(parent, req context.Context) context.Context {
	return &requestContext{Context: parent, req: req}
}

type requestContext struct {
	context.Context
	req context.Context
}

func (c *requestContext) Deadline() (time.Time, bool) { return c.req.Deadline() }
func (c *requestContext) Done() <-chan struct{}       { return c.req.Done() }
func (c *requestContext) Err() error                  { return c.req.Err() }
