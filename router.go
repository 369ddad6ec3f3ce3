package hbridge

import (
	"maps"
	"net/http"
	"net/url"
	"strings"

	"github.com/advdv/hbridge/internal/pathpattern"
	"github.com/cockroachdb/errors"
	"github.com/gorilla/mux"
	"github.com/samber/lo"
)

// Route is a registered method and pattern with its ordered candidate handlers.
type Route struct {
	router   *Router
	method   string
	pattern  string
	handlers []Handler
	mr       *mux.Route
}

// Name names the route so its url can be built with [Router.Reverse]. It panics when the name is taken.
func (r *Route) Name(name string) *Route {
	if err := r.router.name(name, r); err != nil {
		panic("hbridge: " + err.Error())
	}

	return r
}

// Method returns the method the route matches.
func (r *Route) Method() string { return r.method }

// Pattern returns the pattern the route was registered with.
func (r *Route) Pattern() string { return r.pattern }

// Router keeps the route table. Matching is done by gorilla/mux, the router adds ordered candidate lists per
// method and pattern. Registration must be complete before lookups start.
type Router struct {
	mux     *mux.Router
	entries map[string]*Route
	byMux   map[*mux.Route]*Route
	named   map[string]*Route
}

// NewRouter inits an empty router.
func NewRouter() *Router {
	return &Router{
		mux:     mux.NewRouter(),
		entries: map[string]*Route{},
		byMux:   map[*mux.Route]*Route{},
		named:   map[string]*Route{},
	}
}

// Add registers handlers for an exact method match on pattern. Adding to a method and pattern that is
// already registered appends to its candidate list.
func (rt *Router) Add(method, pattern string, handlers ...Handler) (*Route, error) {
	if method == "" {
		return nil, errors.Newf("no method for pattern %q", pattern)
	}

	method = strings.ToUpper(method)

	tmpl, err := pathpattern.Translate(pattern)
	if err != nil {
		return nil, errors.Wrap(err, "failed to translate pattern")
	}

	key := method + " " + tmpl
	if route, ok := rt.entries[key]; ok {
		route.handlers = append(route.handlers, handlers...)
		return route, nil
	}

	mr := rt.mux.NewRoute().Path(tmpl).Methods(method)
	if err := mr.GetError(); err != nil {
		return nil, errors.Wrapf(err, "invalid pattern %q", pattern)
	}

	route := &Route{router: rt, method: method, pattern: pattern, handlers: handlers, mr: mr}
	rt.entries[key] = route
	rt.byMux[mr] = route

	return route, nil
}

// Lookup returns the candidate handlers and route parameters for method and path. An empty list means no
// route matched.
func (rt *Router) Lookup(method, path string) ([]Handler, map[string]string) {
	route, params := rt.match(method, path)
	if route == nil {
		return nil, nil
	}

	return append([]Handler(nil), route.handlers...), params
}

func (rt *Router) match(method, path string) (*Route, map[string]string) {
	req := &http.Request{Method: method, URL: &url.URL{Path: path}}

	var match mux.RouteMatch
	if !rt.mux.Match(req, &match) || match.MatchErr != nil {
		return nil, nil
	}

	route, ok := rt.byMux[match.Route]
	if !ok || len(route.handlers) < 1 {
		return nil, nil
	}

	return route, maps.Clone(match.Vars)
}

// Reverse builds the path of a named route, vals fill the route parameters in order.
func (rt *Router) Reverse(name string, vals ...string) (string, error) {
	route, ok := rt.named[name]
	if !ok {
		return "", errors.Newf("no route named: %q, got: %v", name, lo.Keys(rt.named))
	}

	names, err := route.mr.GetVarNames()
	if err != nil {
		return "", errors.Wrap(err, "failed to get parameter names")
	}

	if len(names) != len(vals) {
		return "", errors.Newf("route %q has %d parameters, got %d values", name, len(names), len(vals))
	}

	u, err := route.mr.URLPath(lo.Interleave(names, vals)...)
	if err != nil {
		return "", errors.Wrap(err, "failed to build")
	}

	return u.Path, nil
}

// Routes returns all registered routes keyed by method and pattern template.
func (rt *Router) Routes() map[string]*Route {
	return lo.Assign(rt.entries)
}

func (rt *Router) name(name string, route *Route) error {
	if _, exists := rt.named[name]; exists {
		return errors.Newf("route with name %q already exists", name)
	}

	route.mr.Name(name)
	rt.named[name] = route

	return nil
}
