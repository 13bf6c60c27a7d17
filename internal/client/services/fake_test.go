package services

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/municollect/internal/client/apiclient"
)

type apiCall struct {
	Method   string
	Endpoint string
	Body     any
	Params   apiclient.Params
}

// fakeAPI records calls and answers from canned responses keyed by
// "METHOD /path" (query string excluded).
type fakeAPI struct {
	mu        sync.Mutex
	Calls     []apiCall
	Responses map[string]any
	Errs      map[string]error

	Authenticated bool
	StoredRefresh string

	LastSetAccess  string
	LastSetRefresh string
	LastSetExpiry  time.Time
	SetCount       int
	ClearCount     int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{Responses: map[string]any{}, Errs: map[string]error{}}
}

func key(method, endpoint string) string {
	path, _, _ := strings.Cut(endpoint, "?")
	return method + " " + path
}

func (f *fakeAPI) do(method, endpoint string, body any, params apiclient.Params, out any) error {
	f.mu.Lock()
	f.Calls = append(f.Calls, apiCall{Method: method, Endpoint: endpoint, Body: body, Params: params})
	resp := f.Responses[key(method, endpoint)]
	err := f.Errs[key(method, endpoint)]
	f.mu.Unlock()

	if err != nil {
		return err
	}
	if out == nil || resp == nil {
		return nil
	}
	b, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}

func (f *fakeAPI) Get(_ context.Context, endpoint string, params apiclient.Params, out any, _ ...apiclient.CallOption) error {
	return f.do(http.MethodGet, endpoint, nil, params, out)
}

func (f *fakeAPI) Post(_ context.Context, endpoint string, body any, params apiclient.Params, out any, _ ...apiclient.CallOption) error {
	return f.do(http.MethodPost, endpoint, body, params, out)
}

func (f *fakeAPI) Put(_ context.Context, endpoint string, body any, params apiclient.Params, out any, _ ...apiclient.CallOption) error {
	return f.do(http.MethodPut, endpoint, body, params, out)
}

func (f *fakeAPI) Delete(_ context.Context, endpoint string, params apiclient.Params, out any, _ ...apiclient.CallOption) error {
	return f.do(http.MethodDelete, endpoint, nil, params, out)
}

func (f *fakeAPI) SetTokens(_ context.Context, access, refresh string, expiresAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastSetAccess, f.LastSetRefresh, f.LastSetExpiry = access, refresh, expiresAt
	f.SetCount++
	return nil
}

func (f *fakeAPI) ClearTokens(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ClearCount++
	return nil
}

func (f *fakeAPI) IsAuthenticated(context.Context) bool { return f.Authenticated }

func (f *fakeAPI) RefreshTokenValue(context.Context) string { return f.StoredRefresh }

func (f *fakeAPI) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Calls)
}
