package restyutil

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

type memoryOutput struct {
	lock     sync.Mutex
	messages map[string]string
}

func (o *memoryOutput) Write(id, contents string) {
	o.lock.Lock()
	defer o.lock.Unlock()
	o.messages[id] = contents
}

func TestInstrumentClient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<p>hello</p>"))
	}))
	defer server.Close()

	out := &memoryOutput{messages: map[string]string{}}
	client := resty.New()
	InstrumentClient(client, out)

	_, err := client.R().Get(server.URL + "/page")
	require.NoError(t, err)
	_, err = client.R().Get(server.URL + "/missing")
	require.NoError(t, err)

	require.Len(t, out.messages, 2)
	require.Contains(t, out.messages["1"], "GET "+server.URL+"/page")
	require.Contains(t, out.messages["1"], "<p>hello</p>")
	require.True(t, strings.Contains(out.messages["2"], "404"))
}

func TestInstrumentClientNilOutput(t *testing.T) {
	client := resty.New()
	InstrumentClient(client, nil)
}

func TestFilesystemOutput(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "dumps")
	out, err := NewFilesystemOutput(dir)
	require.NoError(t, err)

	require.Equal(t, dir, filepath.Dir(out.Dir()))

	out.Write("7", "contents")
	written, err := os.ReadFile(filepath.Join(out.Dir(), "7.txt"))
	require.NoError(t, err)
	require.Equal(t, "contents", string(written))
}
