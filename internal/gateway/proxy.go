package gateway

import (
	"net/http"
	"net/http/httputil"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	resp "shop-microservices/internal/transport/http/response"
)

const keyRoute = "route"

var upstreamRequests = prometheus.NewCounterVec(
	prometheus.CounterOpts{Name: "gateway_upstream_requests_total", Help: "Requests forwarded by the gateway"},
	[]string{"route", "code"},
)

func init() { prometheus.MustRegister(upstreamRequests) }

type Proxy struct {
	table     *Table
	transport http.RoundTripper
	log       *zap.Logger
	proxies   map[*Route]*httputil.ReverseProxy
}

func NewProxy(t *Table, timeout time.Duration, l *zap.Logger) *Proxy {
	tr := http.DefaultTransport.(*http.Transport).Clone()
	if timeout > 0 {
		tr.ResponseHeaderTimeout = timeout
	}
	p := &Proxy{table: t, transport: tr, log: l, proxies: map[*Route]*httputil.ReverseProxy{}}
	for _, r := range t.routes {
		p.proxies[r] = p.reverseProxy(r)
	}
	return p
}

func (p *Proxy) reverseProxy(route *Route) *httputil.ReverseProxy {
	return &httputil.ReverseProxy{
		Transport: p.transport,
		Rewrite: func(pr *httputil.ProxyRequest) {
			target := route.Pick()
			pr.SetURL(target)
			path := Rewrite(pr.In.URL.Path)
			pr.Out.URL.Path = singleJoin(target.Path, path)
			pr.Out.URL.RawPath = ""
			pr.SetXForwarded()
		},
		ModifyResponse: func(res *http.Response) error {
			upstreamRequests.WithLabelValues(route.Name, strconv.Itoa(res.StatusCode)).Inc()
			return nil
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			upstreamRequests.WithLabelValues(route.Name, "error").Inc()
			p.log.Warn("upstream unreachable",
				zap.String("route", route.Name),
				zap.String("path", r.URL.Path),
				zap.Error(err))
			if gw, ok := w.(gin.ResponseWriter); ok && gw.Written() {
				return
			}
			writeJSON(w, http.StatusBadGateway, resp.Error(http.StatusBadGateway, route.Name+" unavailable", r.URL.Path))
		},
	}
}

// Handle 作为 NoRoute 处理器：匹配路由后转发，没有匹配返回 404
func (p *Proxy) Handle(c *gin.Context) {
	route, ok := p.table.Match(c.Request.URL.Path)
	if !ok {
		resp.Abort(c, http.StatusNotFound, "no route for "+c.Request.URL.Path)
		return
	}
	c.Set(keyRoute, route.Name)
	p.proxies[route].ServeHTTP(c.Writer, c.Request)
}

func singleJoin(base, path string) string {
	switch {
	case base == "" || base == "/":
		return path
	case base[len(base)-1] == '/':
		return base + path[1:]
	}
	return base + path
}
