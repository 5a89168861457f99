package router

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/questx-lab/tileset/config"
	"github.com/questx-lab/tileset/pkg/errorx"
	"github.com/questx-lab/tileset/pkg/ws"
	"github.com/questx-lab/tileset/pkg/xcontext"
	"github.com/rs/cors"
)

type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

// MiddlewareFunc runs before the handler. It may enrich the context or stop the
// request by returning an error.
type MiddlewareFunc func(ctx context.Context) (context.Context, error)

// CloserFunc runs after the handler, whatever its result.
type CloserFunc func(ctx context.Context)

type WebsocketHandleFunc func(ctx context.Context, conn *ws.Connection) error

type Router struct {
	ctx      context.Context
	mux      chi.Router
	befores  []MiddlewareFunc
	afters   []CloserFunc
	upgrader *websocket.Upgrader
}

func New(ctx context.Context) *Router {
	return &Router{
		ctx: ctx,
		mux: chi.NewRouter(),
		upgrader: &websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// Branch returns a router sharing the same routes but with its own copy of the
// middleware chain.
func (r *Router) Branch() *Router {
	clone := *r
	clone.befores = append([]MiddlewareFunc{}, r.befores...)
	clone.afters = append([]CloserFunc{}, r.afters...)
	return &clone
}

func (r *Router) Before(m MiddlewareFunc) {
	r.befores = append(r.befores, m)
}

func (r *Router) AddCloser(c CloserFunc) {
	r.afters = append(r.afters, c)
}

func (r *Router) Handler(cfg config.APIServerConfigs) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	return c.Handler(r.mux)
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.mux.Get(pattern, wrapHandler(r, http.MethodGet, handler))
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.mux.Post(pattern, wrapHandler(r, http.MethodPost, handler))
}

func Websocket(r *Router, pattern string, handler WebsocketHandleFunc) {
	r.mux.Get(pattern, func(w http.ResponseWriter, req *http.Request) {
		ctx, ok := r.before(w, req)
		if !ok {
			return
		}

		conn, err := r.upgrader.Upgrade(w, req, nil)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot upgrade websocket: %v", err)
			return
		}

		wsConn := ws.NewConn(conn)
		defer wsConn.Close()

		if err := handler(ctx, wsConn); err != nil {
			xcontext.Logger(ctx).Warnf("Websocket session ended: %v", err)
		}
	})
}

// before builds the request context and runs the middleware chain. On failure the
// error response is already written.
func (r *Router) before(w http.ResponseWriter, req *http.Request) (context.Context, bool) {
	ctx := r.newContext(w, req)

	for _, m := range r.befores {
		var err error
		ctx, err = m(ctx)
		if err != nil {
			ctx = xcontext.WithError(ctx, err)
			writeResponse(ctx)
			r.runClosers(ctx)
			return ctx, false
		}
	}

	return ctx, true
}

func (r *Router) newContext(w http.ResponseWriter, req *http.Request) context.Context {
	ctx := r.ctx
	ctx = xcontext.WithHTTPRequest(ctx, req)
	ctx = xcontext.WithHTTPWriter(ctx, w)
	return mergeCancel(ctx, req.Context())
}

func (r *Router) runClosers(ctx context.Context) {
	for _, c := range r.afters {
		c(ctx)
	}
}

func errUnsupported(method string) error {
	return errorx.New(errorx.BadRequest, "Unsupported method %s", method)
}
