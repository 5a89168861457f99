package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/questx-lab/tileset/pkg/errorx"
	"github.com/questx-lab/tileset/pkg/xcontext"
)

type response struct {
	Code  int64  `json:"code"`
	Error string `json:"error,omitempty"`
	Data  any    `json:"data,omitempty"`
}

func newResponse(data any) response {
	return response{
		Code: 0,
		Data: data,
	}
}

func newErrorResponse(err error) (response, int) {
	errx := errorx.Error{}
	if errors.As(err, &errx) {
		return response{
			Code:  int64(errx.Code),
			Error: errx.Message,
		}, httpStatus(errx.Code)
	}

	return response{
		Code:  int64(errorx.Unknown.Code),
		Error: errorx.Unknown.Message,
	}, http.StatusInternalServerError
}

func httpStatus(code errorx.Code) int {
	switch code {
	case errorx.BadRequest, errorx.InvalidTileset, errorx.NoWangMatch:
		return http.StatusBadRequest
	case errorx.Unauthenticated:
		return http.StatusUnauthorized
	case errorx.PermissionDenied:
		return http.StatusForbidden
	case errorx.NotFound:
		return http.StatusNotFound
	case errorx.AlreadyExists:
		return http.StatusConflict
	case errorx.TooManyRequests:
		return http.StatusTooManyRequests
	case errorx.NotImplemented:
		return http.StatusNotImplemented
	case errorx.Unavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeResponse(ctx context.Context) {
	w := xcontext.HTTPWriter(ctx)
	if w == nil {
		return
	}

	status := http.StatusOK
	var resp response
	if err := xcontext.Error(ctx); err != nil {
		resp, status = newErrorResponse(err)
	} else {
		resp = newResponse(xcontext.Response(ctx))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := WriteJson(w, resp); err != nil {
		xcontext.Logger(ctx).Errorf("cannot write the response: %v", err)
	}
}

func WriteJson(w http.ResponseWriter, resp any) error {
	b, err := json.Marshal(resp)
	if err != nil {
		return err
	}

	if _, err := w.Write(b); err != nil {
		return err
	}

	return nil
}
