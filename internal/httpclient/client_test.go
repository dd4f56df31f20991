package httpclient_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fd1az/sui-swap-bot/internal/httpclient"
)

func TestRequest_GetDecodesResultAndEncodesQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/leaderboard" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("address"); got != "0xabc&x" {
			t.Errorf("address = %q", got)
		}
		if r.Header.Get("X-Test") != "1" {
			t.Errorf("missing default header")
		}
		w.Write([]byte(`{"status":200}`))
	}))
	defer srv.Close()

	client, err := httpclient.New(
		httpclient.WithBaseURL(srv.URL),
		httpclient.WithHeaders(map[string]string{"X-Test": "1"}),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var out struct {
		Status int `json:"status"`
	}
	resp, err := client.NewRequest().
		SetQueryParam("address", "0xabc&x").
		SetResult(&out).
		Get(context.Background(), "/leaderboard")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if resp.IsError() || out.Status != 200 {
		t.Errorf("unexpected response %d / %+v", resp.StatusCode, out)
	}
}

func TestRequest_ErrorHandler(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client, err := httpclient.New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	sentinel := errors.New("bad gateway")
	_, err = client.NewRequest(httpclient.WithResponseErrorHandler(func(status int, _ []byte) error {
		if status >= 500 {
			return sentinel
		}
		return nil
	})).Post(context.Background(), srv.URL)

	if !errors.Is(err, sentinel) {
		t.Fatalf("expected handler error, got %v", err)
	}
}
