package testutil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
)

// Forwarder is an in-process forwarding endpoint: /raw?url=<target> relays
// a GET to target. When Status is non-zero it answers with that status
// without contacting the target.
type Forwarder struct {
	Server *httptest.Server
	Status int

	hits    atomic.Int64
	lock    sync.Mutex
	targets []string
}

func NewForwarder(t testing.TB) *Forwarder {
	f := &Forwarder{}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Server.Close)
	return f
}

func NewFailingForwarder(t testing.TB, status int) *Forwarder {
	f := NewForwarder(t)
	f.Status = status
	return f
}

func (f *Forwarder) serve(w http.ResponseWriter, r *http.Request) {
	f.hits.Add(1)
	target := r.URL.Query().Get("url")

	f.lock.Lock()
	f.targets = append(f.targets, target)
	f.lock.Unlock()

	if f.Status != 0 {
		w.WriteHeader(f.Status)
		return
	}

	res, err := http.Get(target)
	if err != nil {
		w.WriteHeader(http.StatusBadGateway)
		return
	}
	defer res.Body.Close()
	w.WriteHeader(res.StatusCode)
	io.Copy(w, res.Body)
}

// Template is the endpoint template to hand to forwarding.Endpoint.
func (f *Forwarder) Template() string {
	return f.Server.URL + "/raw?url="
}

func (f *Forwarder) Hits() int {
	return int(f.hits.Load())
}

func (f *Forwarder) Targets() []string {
	f.lock.Lock()
	defer f.lock.Unlock()
	return append([]string(nil), f.targets...)
}
