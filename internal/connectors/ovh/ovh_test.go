package ovh

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/time", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, time.Now().Unix())
	})
	mux.HandleFunc("/me/api/credential", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Ovh-Application") != "app-key" {
			w.WriteHeader(http.StatusForbidden)
			fmt.Fprint(w, `{"message":"missing application key"}`)
			return
		}
		fmt.Fprint(w, `[11,12]`)
	})
	mux.HandleFunc("/me/api/credential/11", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"credentialId":11,"applicationId":7,"creation":"2024-01-15T10:30:00Z","expiration":null,"lastUse":"2024-02-01T08:00:00+01:00","status":" validated ","rules":[{"method":"GET","path":"/me/*"}]}`)
	})
	mux.HandleFunc("/me/api/credential/12", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message":"The requested object (credentialId = 12) does not exist"}`)
	})
	mux.HandleFunc("/me/api/application", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[7,8]`)
	})
	mux.HandleFunc("/me/api/application/7", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"applicationId":7,"applicationKey":"ak","name":"billing-export","description":"nightly export","status":"active"}`)
	})
	mux.HandleFunc("/me/api/application/8", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message":"The requested object (applicationId = 8) does not exist"}`)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T) *Client {
	t.Helper()
	srv := newTestServer(t)
	c, err := New(Config{
		Endpoint:          srv.URL,
		ApplicationKey:    "app-key",
		ApplicationSecret: "app-secret",
		ConsumerKey:       "consumer-key",
	})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	return c
}

func TestNewRequiresAllSettings(t *testing.T) {
	t.Parallel()

	_, err := New(Config{Endpoint: "ovh-eu", ApplicationKey: "ak", ApplicationSecret: "as"})
	if err == nil {
		t.Fatal("expected missing consumer key error")
	}
}

func TestNewRequiresEndpoint(t *testing.T) {
	t.Parallel()

	_, err := New(Config{ApplicationKey: "ak", ApplicationSecret: "as", ConsumerKey: "ck"})
	if err == nil {
		t.Fatal("expected missing endpoint error")
	}
}

func TestListCredentialIDs(t *testing.T) {
	c := newTestClient(t)

	ids, err := c.ListCredentialIDs(context.Background())
	if err != nil {
		t.Fatalf("ListCredentialIDs error: %v", err)
	}
	if len(ids) != 2 || ids[0] != 11 || ids[1] != 12 {
		t.Fatalf("unexpected ids: %v", ids)
	}
}

func TestGetCredentialDecodesOptionalTimestamps(t *testing.T) {
	c := newTestClient(t)

	cred, err := c.GetCredential(context.Background(), 11)
	if err != nil {
		t.Fatalf("GetCredential error: %v", err)
	}
	if cred.ID != 11 || cred.ApplicationID != 7 || cred.Status != "validated" {
		t.Fatalf("unexpected credential: %#v", cred)
	}
	if cred.Creation == nil || *cred.Creation != "2024-01-15T10:30:00Z" {
		t.Fatalf("unexpected creation: %v", cred.Creation)
	}
	if cred.Expiration != nil {
		t.Fatalf("expected nil expiration, got %q", *cred.Expiration)
	}
	if len(cred.Rules) != 1 || cred.Rules[0].Method != "GET" || cred.Rules[0].Path != "/me/*" {
		t.Fatalf("unexpected rules: %#v", cred.Rules)
	}
}

func TestGetCredentialMissingIsNotFound(t *testing.T) {
	c := newTestClient(t)

	_, err := c.GetCredential(context.Background(), 12)
	if err == nil {
		t.Fatal("expected error for unknown credential")
	}
	if !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestGetApplication(t *testing.T) {
	c := newTestClient(t)

	app, err := c.GetApplication(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetApplication error: %v", err)
	}
	if app.ID != 7 || app.Name != "billing-export" || app.Description != "nightly export" || app.Status != "active" {
		t.Fatalf("unexpected application: %#v", app)
	}

	_, err = c.GetApplication(context.Background(), 8)
	if !IsNotFound(err) {
		t.Fatalf("expected not found for deleted application, got %v", err)
	}
}

func TestListApplicationIDs(t *testing.T) {
	c := newTestClient(t)

	ids, err := c.ListApplicationIDs(context.Background())
	if err != nil {
		t.Fatalf("ListApplicationIDs error: %v", err)
	}
	if len(ids) != 2 || ids[0] != 7 || ids[1] != 8 {
		t.Fatalf("unexpected ids: %v", ids)
	}
}

func TestIsNotFoundIgnoresOtherErrors(t *testing.T) {
	t.Parallel()

	if IsNotFound(nil) {
		t.Fatal("nil must not be not found")
	}
	if IsNotFound(errors.New("connection reset")) {
		t.Fatal("transport error must not be not found")
	}
}
