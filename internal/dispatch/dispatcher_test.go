package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uzbridge/hemis-mcp/pkg/hemis"
)

// fakeUpstream scripts login and data answers and counts every call.
type fakeUpstream struct {
	mu       sync.Mutex
	logins   int
	data     int
	requests []hemis.Request

	loginResp func(n int) (*hemis.Response, error)
	dataResp  func(n int, r hemis.Request) (*hemis.Response, error)
}

func newFakeUpstream() *fakeUpstream {
	return &fakeUpstream{
		loginResp: func(n int) (*hemis.Response, error) {
			return envelopeOK(fmt.Sprintf(`{"token":"tok%d"}`, n)), nil
		},
		dataResp: func(n int, r hemis.Request) (*hemis.Response, error) {
			return envelopeOK(`{"id":1}`), nil
		},
	}
}

func envelopeOK(data string) *hemis.Response {
	return &hemis.Response{Status: http.StatusOK, Body: []byte(`{"success":true,"data":` + data + `}`)}
}

func (f *fakeUpstream) Do(ctx context.Context, r hemis.Request) (*hemis.Response, error) {
	f.mu.Lock()
	f.requests = append(f.requests, r)
	login := r.Path == "auth/login"
	var n int
	if login {
		f.logins++
		n = f.logins
	} else {
		f.data++
		n = f.data
	}
	f.mu.Unlock()

	if login {
		return f.loginResp(n)
	}
	return f.dataResp(n, r)
}

func (f *fakeUpstream) counts() (logins, data int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.logins, f.data
}

func (f *fakeUpstream) request(i int) hemis.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[i]
}

func newTestDispatcher(f *fakeUpstream) *Dispatcher {
	session := hemis.NewSession(hemis.Credentials{Login: "123412341234", Password: "12345678"}, f)
	return New(f, session, "en-US")
}

func TestInvoke_UnknownTool(t *testing.T) {
	f := newFakeUpstream()
	d := newTestDispatcher(f)

	_, err := d.Invoke(context.Background(), "get_student_grades", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, hemis.ErrUnknownTool))

	logins, data := f.counts()
	assert.Zero(t, logins, "unknown tool must cause no login")
	assert.Zero(t, data, "unknown tool must cause no upstream call")
}

func TestInvoke_InvalidArguments(t *testing.T) {
	f := newFakeUpstream()
	d := newTestDispatcher(f)

	_, err := d.Invoke(context.Background(), "get_subject_details", map[string]any{"semester": "14"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, hemis.ErrInvalidArguments))

	_, err = d.Invoke(context.Background(), "get_student_profile", map[string]any{"bogus": "x"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, hemis.ErrInvalidArguments))

	logins, data := f.counts()
	assert.Zero(t, logins, "argument errors must cause no login")
	assert.Zero(t, data, "argument errors must cause no upstream call")
}

func TestInvoke_Success(t *testing.T) {
	f := newFakeUpstream()
	d := newTestDispatcher(f)

	payload, err := d.Invoke(context.Background(), "get_student_profile", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1}`, string(payload))

	logins, data := f.counts()
	assert.Equal(t, 1, logins)
	assert.Equal(t, 1, data)

	dataReq := f.request(1)
	assert.Equal(t, "account/me", dataReq.Path)
	assert.Equal(t, "tok1", dataReq.Token, "data call carries the session token")
	assert.Equal(t, "en-US", dataReq.Query.Get("l"))
}

func TestInvoke_PublicToolSkipsLogin(t *testing.T) {
	f := newFakeUpstream()
	f.dataResp = func(n int, r hemis.Request) (*hemis.Response, error) {
		return envelopeOK(`[{"code":"1"}]`), nil
	}
	d := newTestDispatcher(f)

	payload, err := d.Invoke(context.Background(), "get_universities", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"code":"1"}]`, string(payload))

	logins, _ := f.counts()
	assert.Zero(t, logins, "public endpoints must not trigger a login")
	assert.Empty(t, f.request(0).Token)
}

func TestInvoke_RetriesOnceAfter401(t *testing.T) {
	f := newFakeUpstream()
	f.dataResp = func(n int, r hemis.Request) (*hemis.Response, error) {
		if n == 1 {
			return &hemis.Response{Status: http.StatusUnauthorized, Body: []byte(`{"success":false}`)}, nil
		}
		return envelopeOK(`{"name":"x"}`), nil
	}
	d := newTestDispatcher(f)

	payload, err := d.Invoke(context.Background(), "get_student_profile", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"x"}`, string(payload))

	logins, data := f.counts()
	assert.Equal(t, 2, logins, "one re-login after the rejection")
	assert.Equal(t, 2, data, "one replay after the rejection")

	// login, data(tok1), login, data(tok2)
	assert.Equal(t, "tok1", f.request(1).Token)
	assert.Equal(t, "tok2", f.request(3).Token, "replay carries the fresh token")
}

func TestInvoke_PersistentRejectionStopsAfterTwoLogins(t *testing.T) {
	f := newFakeUpstream()
	f.dataResp = func(n int, r hemis.Request) (*hemis.Response, error) {
		return &hemis.Response{Status: http.StatusUnauthorized, Body: []byte(`{"success":false,"error":"token expired"}`)}, nil
	}
	d := newTestDispatcher(f)

	_, err := d.Invoke(context.Background(), "get_student_profile", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, hemis.ErrAuthFailed))

	var herr *hemis.Error
	require.True(t, errors.As(err, &herr))
	assert.Equal(t, http.StatusUnauthorized, herr.Status)

	logins, data := f.counts()
	assert.Equal(t, 2, logins, "exactly two logins, never a loop")
	assert.Equal(t, 2, data, "exactly two data attempts, never a loop")
}

func TestInvoke_ConcurrentCallersShareOneLogin(t *testing.T) {
	f := newFakeUpstream()
	f.loginResp = func(n int) (*hemis.Response, error) {
		time.Sleep(30 * time.Millisecond)
		return envelopeOK(`{"token":"abc"}`), nil
	}
	d := newTestDispatcher(f)

	var wg sync.WaitGroup
	errs := make([]error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = d.Invoke(context.Background(), "get_student_profile", nil)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "caller %d", i)
	}
	logins, data := f.counts()
	assert.Equal(t, 1, logins, "concurrent invocations collapse into one login")
	assert.Equal(t, 10, data)
}

func TestInvoke_TransportFailureNeverRetried(t *testing.T) {
	f := newFakeUpstream()
	f.dataResp = func(n int, r hemis.Request) (*hemis.Response, error) {
		return nil, &hemis.Error{Sentinel: hemis.ErrTransport, Operation: r.Op, Err: errors.New("timeout awaiting response")}
	}
	d := newTestDispatcher(f)

	_, err := d.Invoke(context.Background(), "generate_student_reference", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, hemis.ErrTransport))

	_, data := f.counts()
	assert.Equal(t, 1, data, "a timed-out mutating call must never be re-issued")
}

func TestInvoke_UpstreamFailures(t *testing.T) {
	tests := []struct {
		name    string
		tool    string
		resp    *hemis.Response
		message string
	}{
		{
			"http error with envelope message",
			"get_universities",
			&hemis.Response{Status: http.StatusServiceUnavailable, Body: []byte(`{"success":false,"error":"maintenance"}`)},
			"maintenance",
		},
		{
			"http error with opaque body",
			"get_universities",
			&hemis.Response{Status: http.StatusBadGateway, Body: []byte(`<html>Bad Gateway</html>`)},
			"Bad Gateway",
		},
		{
			"success false",
			"get_universities",
			envelopeFail("no data available"),
			"no data available",
		},
		{
			"undecodable body",
			"get_universities",
			&hemis.Response{Status: http.StatusOK, Body: []byte(`not json at all`)},
			"",
		},
		{
			"null data",
			"get_universities",
			&hemis.Response{Status: http.StatusOK, Body: []byte(`{"success":true,"data":null}`)},
			"no data",
		},
		{
			"object where list expected",
			"get_universities",
			envelopeOK(`{"id":1}`),
			"expected a list",
		},
		{
			"list where object expected",
			"get_university_profile",
			envelopeOK(`[1,2]`),
			"expected an object",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFakeUpstream()
			f.dataResp = func(n int, r hemis.Request) (*hemis.Response, error) { return tt.resp, nil }
			d := newTestDispatcher(f)

			_, err := d.Invoke(context.Background(), tt.tool, nil)
			require.Error(t, err)
			assert.True(t, errors.Is(err, hemis.ErrUpstream), "got %v", err)
			if tt.message != "" {
				assert.Contains(t, err.Error(), tt.message)
			}
		})
	}
}

func TestInvoke_PaginatedKeepsWrapper(t *testing.T) {
	f := newFakeUpstream()
	f.dataResp = func(n int, r hemis.Request) (*hemis.Response, error) {
		return envelopeOK(`{"items":[{"id":7}],"attributes":{"total":1}}`), nil
	}
	d := newTestDispatcher(f)

	payload, err := d.Invoke(context.Background(), "get_student_contract_list", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[{"id":7}],"attributes":{"total":1}}`, string(payload))
}

func envelopeFail(message string) *hemis.Response {
	body, _ := json.Marshal(map[string]any{"success": false, "error": message})
	return &hemis.Response{Status: http.StatusOK, Body: body}
}

func TestInvoke_EndToEnd(t *testing.T) {
	var mu sync.Mutex
	loginCalls := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			require.Equal(t, http.MethodPost, r.Method)
			var creds map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
			assert.Equal(t, "123412341234", creds["login"])
			assert.Equal(t, "12345678", creds["password"])

			mu.Lock()
			loginCalls++
			mu.Unlock()

			fmt.Fprintf(w, `{"success":true,"data":{"token":"abc","expires_at":%d}}`, time.Now().Add(time.Hour).Unix())
		case "/account/me":
			assert.Equal(t, "Bearer abc", r.Header.Get("Authorization"))
			assert.Equal(t, "en-US", r.URL.Query().Get("l"))
			fmt.Fprint(w, `{"success":true,"data":{"first_name":"Aziz","university":"TUIT"}}`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := hemis.NewClient(server.URL+"/", 5*time.Second)
	session := hemis.NewSession(hemis.Credentials{
		BaseURL:  server.URL + "/",
		Login:    "123412341234",
		Password: "12345678",
	}, client)
	d := New(client, session, "en-US")

	payload, err := d.Invoke(context.Background(), "get_student_profile", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"first_name":"Aziz","university":"TUIT"}`, string(payload))

	// A second invocation reuses the token.
	_, err = d.Invoke(context.Background(), "get_student_profile", nil)
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, loginCalls)
}
