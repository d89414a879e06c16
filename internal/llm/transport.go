package llm

import (
	"context"
	"net/http"
	"sync/atomic"
)

type probeKey struct{}

// probe carries the provider's HTTP status back out of the langchaingo
// client, which only reports failures as formatted strings.
type probe struct {
	status atomic.Int32
}

func withProbe(ctx context.Context) (context.Context, *probe) {
	p := &probe{}
	return context.WithValue(ctx, probeKey{}, p), p
}

func (p *probe) Status() int {
	return int(p.status.Load())
}

type statusTransport struct {
	base http.RoundTripper
}

func (t *statusTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if p, ok := req.Context().Value(probeKey{}).(*probe); ok && resp != nil {
		p.status.Store(int32(resp.StatusCode))
	}
	return resp, err
}

func newProbingClient(base http.RoundTripper) *http.Client {
	if base == nil {
		base = http.DefaultTransport
	}
	return &http.Client{Transport: &statusTransport{base: base}}
}
