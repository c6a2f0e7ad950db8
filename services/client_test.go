// ABOUTME: Tests for the upstream API client core
// ABOUTME: Envelope decoding, error surfacing, and proxy forwarding

package services

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestAPIClient_CallDecodesEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer token-1" {
			t.Errorf("Authorization = %q, want Bearer token-1", r.Header.Get("Authorization"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"success","data":{"name":"Sunrise Court"}}`))
	}))
	defer server.Close()

	client := NewAPIClient(server.URL, 5*time.Second)

	var out struct {
		Name string `json:"name"`
	}
	if err := client.get(context.Background(), "/properties/p1", "token-1", &out); err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if out.Name != "Sunrise Court" {
		t.Errorf("Name = %q, want Sunrise Court", out.Name)
	}
}

func TestAPIClient_CallSurfacesErrorEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"status":"error","message":"Invalid credentials"}`))
	}))
	defer server.Close()

	client := NewAPIClient(server.URL, 5*time.Second)

	err := client.get(context.Background(), "/properties", "", nil)
	if err == nil {
		t.Fatal("expected error for error envelope")
	}

	var upErr *UpstreamError
	if !errors.As(err, &upErr) {
		t.Fatalf("error type = %T, want *UpstreamError", err)
	}
	if upErr.Message != "Invalid credentials" {
		t.Errorf("Message = %q, want the backend message verbatim", upErr.Message)
	}
	if upErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("StatusCode = %d, want 401", upErr.StatusCode)
	}
}

func TestAPIClient_CallRejectsMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json at all`))
	}))
	defer server.Close()

	client := NewAPIClient(server.URL, 5*time.Second)

	if err := client.get(context.Background(), "/properties", "", nil); err == nil {
		t.Error("expected decode error for non-JSON body")
	}
}

func TestAPIClient_CallNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	client := NewAPIClient(server.URL, time.Second)

	if err := client.get(context.Background(), "/properties", "", nil); err == nil {
		t.Error("expected error when the upstream is unreachable")
	}
}

func TestAPIClient_Forward(t *testing.T) {
	var gotMethod, gotAuth, gotQuery, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.RawQuery
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"status":"success","data":{"id":"b1"}}`))
	}))
	defer server.Close()

	client := NewAPIClient(server.URL, 5*time.Second)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bills?propertyId=p1",
		strings.NewReader(`{"tenantId":"t1"}`))
	rec := httptest.NewRecorder()

	client.Forward(rec, req, "/bills", "token-1")

	if gotMethod != http.MethodPost {
		t.Errorf("upstream method = %q, want POST", gotMethod)
	}
	if gotAuth != "Bearer token-1" {
		t.Errorf("upstream Authorization = %q, want Bearer token-1", gotAuth)
	}
	if gotQuery != "propertyId=p1" {
		t.Errorf("upstream query = %q, want propertyId=p1", gotQuery)
	}
	if gotBody != `{"tenantId":"t1"}` {
		t.Errorf("upstream body = %q", gotBody)
	}

	if rec.Code != http.StatusCreated {
		t.Errorf("proxied status = %d, want 201", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"id":"b1"`) {
		t.Errorf("proxied body = %q, want upstream payload streamed through", rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("proxied Content-Type = %q, want application/json", ct)
	}
}

func TestAPIClient_ForwardUnreachableUpstream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewAPIClient(server.URL, time.Second)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bills", nil)
	rec := httptest.NewRecorder()

	client.Forward(rec, req, "/bills", "token-1")

	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
}
