package middleware

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type observation struct {
	method, path string
	status       int
}

type observerStub struct{ seen []observation }

func (o *observerStub) ObserveHTTPRequest(method, path string, status int, _ time.Duration) {
	o.seen = append(o.seen, observation{method, path, status})
}

func TestMetricsUsesRouteTemplate(t *testing.T) {
	obs := &observerStub{}
	r := newEngine()
	r.Use(Metrics(obs))
	r.GET("/children/:id", ok)

	serve(r, http.MethodGet, "/children/17")
	serve(r, http.MethodGet, "/nowhere")

	assert.Equal(t, []observation{
		{http.MethodGet, "/children/:id", http.StatusOK},
		{http.MethodGet, "unmatched", http.StatusNotFound},
	}, obs.seen)
}
