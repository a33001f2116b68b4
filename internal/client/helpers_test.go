package client

import (
	"html"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"sync"
	"testing"

	"laximo/catalog/internal/protocol"

	"github.com/stretchr/testify/require"
)

var requestPattern = regexp.MustCompile(`<(?:ns:)?request>(.*?)</(?:ns:)?request>`)

// fakeUpstream answers each command verb with a canned payload and records
// every command string it receives.
type fakeUpstream struct {
	mu       sync.Mutex
	payloads map[string]string
	commands []string
	server   *httptest.Server
}

func newFakeUpstream(t *testing.T, payloads map[string]string) *fakeUpstream {
	t.Helper()
	f := &fakeUpstream{payloads: payloads}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		m := requestPattern.FindStringSubmatch(string(body))
		if m == nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		command := html.UnescapeString(m[1])
		verb, _, _ := strings.Cut(command, ":")

		f.mu.Lock()
		f.commands = append(f.commands, command)
		payload, ok := f.payloads[verb]
		f.mu.Unlock()

		if !ok {
			_, _ = w.Write([]byte(wrap("<response/>")))
			return
		}
		_, _ = w.Write([]byte(wrap(payload)))
	}))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeUpstream) Commands() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.commands...)
}

func (f *fakeUpstream) querier(t *testing.T, name string) *protocol.CommandClient {
	t.Helper()
	c, err := protocol.NewCommandClient(protocol.ServiceConfig{
		Name:        name,
		Endpoints:   []protocol.Endpoint{{URL: f.server.URL, Dialect: protocol.DialectLegacy}},
		Namespace:   "http://WebCatalog.Kito.ec",
		Credentials: protocol.Credentials{Login: "user", Secret: "secret"},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func wrap(payload string) string {
	return `<?xml version="1.0" encoding="UTF-8"?><soapenv:Envelope xmlns:soapenv="http://schemas.xmlsoap.org/soap/envelope/">` +
		`<soapenv:Body><ns:QueryDataLoginResponse xmlns:ns="http://WebCatalog.Kito.ec"><ns:return>` +
		html.EscapeString(payload) +
		`</ns:return></ns:QueryDataLoginResponse></soapenv:Body></soapenv:Envelope>`
}
