package mock

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
)

type mockResponse struct {
	status int
	body   any
}

// ApiMock stands in for third-party HTTP APIs such as the email provider.
// Requests are recorded per method and path; replies come from per-index
// responses, then the default response, then an empty 200.
type ApiMock struct {
	mu               sync.Mutex
	server           *httptest.Server
	requestsReceived map[string][]map[string]any
	headersReceived  map[string][]http.Header
	responses        map[string]map[int]mockResponse
	defaults         map[string]mockResponse
}

func NewApiServer() *ApiMock {
	return &ApiMock{
		requestsReceived: map[string][]map[string]any{},
		headersReceived:  map[string][]http.Header{},
		responses:        map[string]map[int]mockResponse{},
		defaults:         map[string]mockResponse{},
	}
}

func (a *ApiMock) Start() {
	a.server = httptest.NewServer(http.HandlerFunc(a.handle))
}

func (a *ApiMock) Close() {
	if a.server != nil {
		a.server.Close()
	}
}

func (a *ApiMock) GetUrl() string {
	return a.server.URL
}

func (a *ApiMock) handle(w http.ResponseWriter, r *http.Request) {
	key := r.Method + r.URL.Path

	body, _ := io.ReadAll(r.Body)
	var request map[string]any
	_ = json.Unmarshal(body, &request)
	if request == nil {
		request = map[string]any{}
	}

	a.mu.Lock()
	index := len(a.requestsReceived[key])
	a.requestsReceived[key] = append(a.requestsReceived[key], request)
	a.headersReceived[key] = append(a.headersReceived[key], r.Header.Clone())
	response := a.responseFor(key, index)
	a.mu.Unlock()

	payload, _ := json.Marshal(response.body)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(response.status)
	_, _ = w.Write(payload)
}

// responseFor must be called with a.mu held.
func (a *ApiMock) responseFor(key string, index int) mockResponse {
	if response, ok := a.responses[key][index]; ok {
		return response
	}
	if response, ok := a.defaults[key]; ok {
		return response
	}
	return mockResponse{status: http.StatusOK, body: map[string]any{}}
}

// SetResponse registers the reply for the index-th request to method and path.
// An index of -1 sets the default reply.
func (a *ApiMock) SetResponse(index int, method, path string, status int, response map[string]any) {
	a.mu.Lock()
	defer a.mu.Unlock()

	key := method + path
	if index == -1 {
		a.defaults[key] = mockResponse{status: status, body: response}
		return
	}
	if a.responses[key] == nil {
		a.responses[key] = map[int]mockResponse{}
	}
	a.responses[key][index] = mockResponse{status: status, body: response}
}

func (a *ApiMock) RequestCount(method, path string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.requestsReceived[method+path])
}

func (a *ApiMock) GetRequestBody(method, path string, index int) map[string]any {
	a.mu.Lock()
	defer a.mu.Unlock()

	requests := a.requestsReceived[method+path]
	if index < 0 || index >= len(requests) {
		return nil
	}
	return requests[index]
}

func (a *ApiMock) GetRequestHeader(method, path string, index int, name string) (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	headers := a.headersReceived[method+path]
	if index < 0 || index >= len(headers) {
		return "", false
	}
	values, ok := headers[index][http.CanonicalHeaderKey(name)]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}

// ClearResponses forgets recorded requests and configured replies for method and path.
func (a *ApiMock) ClearResponses(method, path string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	key := method + path
	delete(a.requestsReceived, key)
	delete(a.headersReceived, key)
	delete(a.responses, key)
	delete(a.defaults, key)
}
