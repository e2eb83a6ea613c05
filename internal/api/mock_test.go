package api

import (
	"bytes"
	"io"
	"sync"

	fhttp "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
)

// fakeHTTP stands in for the tls-client transport. Only Do is
// implemented; the clients use nothing else.
type fakeHTTP struct {
	tls_client.HttpClient

	status int
	body   []byte
	err    error
	// do replaces the canned answer when set
	do func(req *fhttp.Request) (*fhttp.Response, error)

	mu       sync.Mutex
	Requests []*fhttp.Request
	Bodies   [][]byte
}

// replyWith answers every request with status and body
func replyWith(status int, body string) *fakeHTTP {
	return &fakeHTTP{status: status, body: []byte(body)}
}

// failWith fails every request before a response arrives
func failWith(err error) *fakeHTTP {
	return &fakeHTTP{err: err}
}

func (f *fakeHTTP) Do(req *fhttp.Request) (*fhttp.Response, error) {
	var sent []byte
	if req.Body != nil {
		sent, _ = io.ReadAll(req.Body)
	}

	f.mu.Lock()
	f.Requests = append(f.Requests, req)
	f.Bodies = append(f.Bodies, sent)
	f.mu.Unlock()

	switch {
	case f.do != nil:
		return f.do(req)
	case f.err != nil:
		return nil, f.err
	}
	return &fhttp.Response{
		StatusCode: f.status,
		Header:     make(fhttp.Header),
		Body:       io.NopCloser(bytes.NewReader(f.body)),
		Request:    req,
	}, nil
}

// Calls returns how many requests went through Do
func (f *fakeHTTP) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Requests)
}
