package cloud

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const appliancesResponse = `[
  {"id": "a1", "device": {"id": "d1", "name": "Living Room"}, "nickname": "Aircon", "type": "AC", "signals": []},
  {"id": "a2", "device": {"id": "d1", "name": "Living Room"}, "nickname": "Light", "type": "LIGHT", "signals": []}
]`

const devicesResponse = `[
  {
    "id": "d1",
    "name": "Living Room",
    "firmware_version": "Remo/1.0.69-gbbcc0de",
    "newest_events": {
      "te": {"val": 22.5, "created_at": "2019-05-01T10:00:00Z"},
      "hu": {"val": 45, "created_at": "2019-05-01T10:00:00Z"},
      "il": {"val": 120, "created_at": "2019-05-01T10:00:00Z"}
    }
  }
]`

// newTestServer serves canned responses and requires the given token
func newTestServer(t *testing.T, token string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+token {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		switch r.URL.Path {
		case "/1/appliances":
			fmt.Fprint(w, appliancesResponse)
		case "/1/devices":
			fmt.Fprint(w, devicesResponse)
		case "/1/users/me":
			fmt.Fprint(w, `{"id": "u1", "nickname": "uetchy"}`)
		case "/1/broken":
			fmt.Fprint(w, `{"id": `)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestGetAppliances(t *testing.T) {
	server := newTestServer(t, "secret")
	client := New("secret", WithBaseURL(server.URL))

	apps, err := client.FetchAppliances(context.Background())
	if err != nil {
		t.Fatalf("FetchAppliances failed: %v", err)
	}

	if len(apps) != 2 {
		t.Fatalf("Expected 2 appliances, got %d", len(apps))
	}
	if apps[0].Nickname != "Aircon" || apps[1].Nickname != "Light" {
		t.Errorf("Order not preserved: %q, %q", apps[0].Nickname, apps[1].Nickname)
	}
	if apps[0].Device.Name != "Living Room" {
		t.Errorf("Device.Name = %q, want Living Room", apps[0].Device.Name)
	}
}

func TestUnauthenticatedClient(t *testing.T) {
	var sawHeader bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawHeader = r.Header["Authorization"]
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := New("", WithBaseURL(server.URL))
	_, err := client.GetUser(context.Background())

	if err == nil {
		t.Fatal("Expected error for unauthenticated request")
	}
	if sawHeader {
		t.Error("Unauthenticated client should not send an Authorization header")
	}
	if !IsAuthError(err) {
		t.Errorf("Expected auth error, got %v", err)
	}
}

func TestGetUser(t *testing.T) {
	server := newTestServer(t, "secret")
	client := New("secret", WithBaseURL(server.URL))

	user, err := client.GetUser(context.Background())
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if user.Nickname != "uetchy" {
		t.Errorf("Nickname = %q, want uetchy", user.Nickname)
	}
}

func TestGetSensorValue(t *testing.T) {
	server := newTestServer(t, "secret")
	client := New("secret", WithBaseURL(server.URL))

	v, err := client.GetSensorValue(context.Background())
	if err != nil {
		t.Fatalf("GetSensorValue failed: %v", err)
	}
	if v.Temperature != 22.5 || v.Humidity != 45 || v.Illumination != 120 {
		t.Errorf("GetSensorValue() = %+v", v)
	}
}

func TestErrorClassification(t *testing.T) {
	server := newTestServer(t, "secret")
	client := New("secret", WithBaseURL(server.URL))
	ctx := context.Background()

	t.Run("status", func(t *testing.T) {
		var out struct{}
		err := client.get(ctx, "/1/missing", &out)
		apiErr, ok := err.(*APIError)
		if !ok {
			t.Fatalf("Expected *APIError, got %T", err)
		}
		if apiErr.Kind != KindStatus || apiErr.StatusCode != http.StatusNotFound {
			t.Errorf("Got %v (status %d), want KindStatus/404", apiErr.Kind, apiErr.StatusCode)
		}
	})

	t.Run("decode", func(t *testing.T) {
		var out struct{}
		err := client.get(ctx, "/1/broken", &out)
		if !IsDecodeError(err) {
			t.Errorf("Expected decode error, got %v", err)
		}
	})

	t.Run("connectivity", func(t *testing.T) {
		dead := httptest.NewServer(http.NotFoundHandler())
		url := dead.URL
		dead.Close()

		c := New("secret", WithBaseURL(url), WithTimeout(time.Second))
		_, err := c.GetAppliances(ctx)
		if !IsConnectivityError(err) {
			t.Errorf("Expected connectivity error, got %v", err)
		}
	})
}

func TestAPIErrorMessage(t *testing.T) {
	err := &APIError{Kind: KindStatus, Path: "/1/appliances", StatusCode: 503}
	want := "unexpected status: /1/appliances returned 503"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	auth := &APIError{Kind: KindAuth, Path: "/1/users/me"}
	if got := auth.Error(); got != "authorization failed: /1/users/me" {
		t.Errorf("Error() = %q", got)
	}
}
