// Package router dispatches requests over a fixed table of routes.
//
// Patterns are written with literal segments and at most one named
// wildcard, e.g. "/book/{id}". Matching is delegated to httprouter's radix
// trees with every redirect and 405 fallback switched off. Routes are
// consulted in registration order: the first one that matches serves the
// request, and a request nothing matches goes to Config.NotFound.
//
// Before a handler runs the dispatcher coerces declared path parameters,
// collects the query string and, for routes that declare a Body, decodes
// the JSON request body. Any failure there goes to Config.BadRequest and the
// handler is never called.
package router

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/julienschmidt/httprouter"

	"github.com/aoideee/bookdemo/internal/validator"
)

// Kind is the declared type of a path parameter.
type Kind int

const (
	String Kind = iota
	Uint32
)

// Checker is implemented by body types that verify their own shape after
// decoding, e.g. that every required key was present.
type Checker interface {
	Check(v *validator.Validator)
}

// Route is one entry of the route table.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc

	// Params declares the kind of each wildcard. Undeclared wildcards are
	// passed through as String.
	Params map[string]Kind

	// Body returns a pointer to decode the JSON request body into.
	// Only allowed on POST, PUT and PATCH.
	Body func() any
}

// Config holds the responders used when dispatch stops before a handler.
type Config struct {
	NotFound   http.HandlerFunc
	BadRequest func(w http.ResponseWriter, r *http.Request, message any)
}

// Router is an immutable route table. It is safe for concurrent use.
//
// A single httprouter tree cannot hold a literal and a wildcard at the same
// position, so routes are spread over as many trees as needed. Trees are
// searched in order, and a route is never placed in an earlier tree than any
// earlier-registered route it overlaps with, so the first registered match
// always wins.
type Router struct {
	cfg   Config
	trees []*tree
}

// tree is one httprouter tree plus the routes placed in it.
type tree struct {
	mux    *httprouter.Router
	routes []placed
}

type placed struct {
	route Route
	path  string // httprouter syntax
}

// New validates routes and builds the table in registration order.
func New(cfg Config, routes ...Route) (*Router, error) {
	if cfg.NotFound == nil {
		cfg.NotFound = http.NotFound
	}
	if cfg.BadRequest == nil {
		cfg.BadRequest = func(w http.ResponseWriter, _ *http.Request, message any) {
			http.Error(w, fmt.Sprint(message), http.StatusBadRequest)
		}
	}

	keys := make([]string, 0, len(routes))
	for _, route := range routes {
		keys = append(keys, route.Method+" "+route.Pattern)
	}
	if dup, ok := validator.FirstDuplicate(keys); ok {
		return nil, fmt.Errorf("router: duplicate route %s", dup)
	}

	rt := &Router{cfg: cfg}
	index := make([]int, len(routes)) // tree index of each route

	for i, route := range routes {
		path, err := compile(route)
		if err != nil {
			return nil, err
		}

		lowest := 0
		for j := 0; j < i; j++ {
			if overlaps(routes[j], route) && index[j] >= lowest {
				lowest = index[j] + 1
			}
		}

		p := placed{route: route, path: path}
		t := lowest
		for ; t < len(rt.trees); t++ {
			if fits(rt.trees[t].routes, p) {
				break
			}
		}
		if t == len(rt.trees) {
			rt.trees = append(rt.trees, &tree{})
		}
		rt.trees[t].routes = append(rt.trees[t].routes, p)
		index[i] = t
	}

	for _, t := range rt.trees {
		mux, err := build(t.routes, rt.dispatch)
		if err != nil {
			return nil, err
		}
		t.mux = mux
	}
	return rt, nil
}

// build registers routes on a fresh httprouter tree. httprouter reports
// conflicting paths by panicking; that comes back as an error.
func build(routes []placed, handle func(Route) httprouter.Handle) (mux *httprouter.Router, err error) {
	defer func() {
		if v := recover(); v != nil {
			mux, err = nil, fmt.Errorf("router: %v", v)
		}
	}()

	mux = httprouter.New()
	mux.RedirectTrailingSlash = false
	mux.RedirectFixedPath = false
	mux.HandleMethodNotAllowed = false
	mux.HandleOPTIONS = false
	for _, p := range routes {
		mux.Handle(p.route.Method, p.path, handle(p.route))
	}
	return mux, nil
}

// fits reports whether p can join routes in one httprouter tree.
func fits(routes []placed, p placed) bool {
	noop := func(Route) httprouter.Handle {
		return func(http.ResponseWriter, *http.Request, httprouter.Params) {}
	}
	_, err := build(append(slices.Clone(routes), p), noop)
	return err == nil
}

// overlaps reports whether some request could match both a and b.
func overlaps(a, b Route) bool {
	if a.Method != b.Method {
		return false
	}
	as, bs := segments(a.Pattern), segments(b.Pattern)
	if len(as) != len(bs) {
		return false
	}
	for i := range as {
		if as[i] != bs[i] && !isWildcard(as[i]) && !isWildcard(bs[i]) {
			return false
		}
	}
	return true
}

func segments(pattern string) []string {
	if pattern == "/" {
		return nil
	}
	return strings.Split(pattern[1:], "/")
}

func isWildcard(seg string) bool {
	return strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}")
}

// compile checks a route and translates its pattern to httprouter syntax.
func compile(route Route) (string, error) {
	where := route.Method + " " + route.Pattern

	if route.Method == "" || route.Handler == nil {
		return "", fmt.Errorf("router: %s: method and handler are required", where)
	}
	if route.Body != nil && !validator.WriteMethod(route.Method) {
		return "", fmt.Errorf("router: %s: body is only allowed on write methods", where)
	}
	if !strings.HasPrefix(route.Pattern, "/") {
		return "", fmt.Errorf("router: %s: pattern must start with /", where)
	}

	segs := segments(route.Pattern)
	wildcard := ""
	for i, seg := range segs {
		switch {
		case seg == "":
			return "", fmt.Errorf("router: %s: empty path segment", where)
		case isWildcard(seg):
			name := seg[1 : len(seg)-1]
			if !validator.ParamName(name) {
				return "", fmt.Errorf("router: %s: invalid parameter name %q", where, name)
			}
			if wildcard != "" {
				return "", fmt.Errorf("router: %s: at most one wildcard segment", where)
			}
			wildcard = name
			segs[i] = ":" + name
		case strings.ContainsAny(seg, "{}:*"):
			return "", fmt.Errorf("router: %s: malformed segment %q", where, seg)
		}
	}

	for name := range route.Params {
		if name != wildcard {
			return "", fmt.Errorf("router: %s: declared parameter %q not in pattern", where, name)
		}
	}

	return "/" + strings.Join(segs, "/"), nil
}

// lookup finds the route serving method and path.
func (rt *Router) lookup(method, path string) (httprouter.Handle, httprouter.Params) {
	for _, t := range rt.trees {
		if handle, ps, _ := t.mux.Lookup(method, path); handle != nil {
			return handle, ps
		}
	}
	return nil, nil
}

// ServeHTTP dispatches r to the first registered route that matches it.
func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	handle, ps := rt.lookup(r.Method, r.URL.Path)
	if handle == nil {
		rt.cfg.NotFound(w, r)
		return
	}
	handle(w, r, ps)
}

// Match reports whether some route serves method and path, and the raw
// wildcard values it would bind.
func (rt *Router) Match(method, path string) (map[string]string, bool) {
	handle, ps := rt.lookup(method, path)
	if handle == nil {
		return nil, false
	}
	params := make(map[string]string, len(ps))
	for _, p := range ps {
		params[p.Key] = p.Value
	}
	return params, true
}

func (rt *Router) dispatch(route Route) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		vals := &Values{
			Path:  make(map[string]any, len(ps)),
			Query: queryMap(r),
		}

		for _, p := range ps {
			v, err := coerce(route.Params[p.Key], p.Value)
			if err != nil {
				rt.cfg.BadRequest(w, r, fmt.Sprintf("invalid %s parameter", p.Key))
				return
			}
			vals.Path[p.Key] = v
		}

		if route.Body != nil {
			dst := route.Body()
			if err := readJSON(w, r, dst); err != nil {
				rt.cfg.BadRequest(w, r, err.Error())
				return
			}
			if c, ok := dst.(Checker); ok {
				v := validator.New()
				c.Check(v)
				if !v.Valid() {
					rt.cfg.BadRequest(w, r, v.Errors)
					return
				}
			}
			vals.body = dst
		}

		route.Handler(w, r.WithContext(context.WithValue(r.Context(), valuesKey{}, vals)))
	}
}

func coerce(kind Kind, raw string) (any, error) {
	switch kind {
	case Uint32:
		n, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return nil, err
		}
		return uint32(n), nil
	default:
		return raw, nil
	}
}

// queryMap flattens the query string; for repeated keys the last one wins.
func queryMap(r *http.Request) map[string]string {
	qs := r.URL.Query()
	out := make(map[string]string, len(qs))
	for key, values := range qs {
		out[key] = values[len(values)-1]
	}
	return out
}
