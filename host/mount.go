package host

import (
	"net/http"
	"net/url"
	"strings"
)

// Mount mounts h on a sub-path pattern such as "GET /admin". The handler receives events with the mount
// prefix stripped from the path. Middleware sees the original path; the strip happens after middleware.
func (a *App) Mount(pattern string, h HandlerFunc) {
	method, path := splitMethodPattern(pattern)
	stripped := stripPrefix(path, h)

	a.On(method+path, stripped)
	a.On(method+path+"/", stripped)
}

func splitMethodPattern(pattern string) (method, path string) {
	if idx := strings.LastIndex(pattern, "/"); idx > 0 {
		prefix := pattern[:idx]
		if spaceIdx := strings.Index(prefix, " "); spaceIdx >= 0 {
			return pattern[:spaceIdx+1], pattern[spaceIdx+1:]
		}
	}

	return "", pattern
}

func stripPrefix(prefix string, h HandlerFunc) HandlerFunc {
	return func(ev *Event) (any, error) {
		p := strings.TrimPrefix(ev.path, prefix)
		if p == "" {
			p = "/"
		}

		ev2 := new(Event)
		*ev2 = *ev
		ev2.path = p

		if ev.r != nil {
			r2 := new(http.Request)
			*r2 = *ev.r
			r2.URL = new(url.URL)
			*r2.URL = *ev.r.URL
			r2.URL.Path = p
			r2.URL.RawPath = ""
			ev2.r = r2
		}

		return h(ev2)
	}
}
