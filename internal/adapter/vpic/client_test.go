package vpic_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/openrental/fleetd/internal/adapter/vpic"
	"github.com/openrental/fleetd/internal/domain"
)

func decodeServer(t *testing.T, attrs map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"Results": []map[string]string{attrs}})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClientDecode(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		json.NewEncoder(w).Encode(map[string]any{"Results": []map[string]string{{
			"ErrorCode": "0",
			"Make":      "TOYOTA",
			"Model":     "Corolla",
			"ModelYear": "2021",
		}}})
	}))
	defer srv.Close()

	client := vpic.New(vpic.Config{BaseURL: srv.URL})

	attrs, err := client.Decode(context.Background(), "JTDEPRAE0LJ012345", 2021)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if gotPath != "/vehicles/DecodeVinValues/JTDEPRAE0LJ012345" {
		t.Errorf("request path = %q", gotPath)
	}
	if gotQuery != "format=json&modelyear=2021" {
		t.Errorf("request query = %q", gotQuery)
	}
	if attrs["Make"] != "TOYOTA" || attrs["Model"] != "Corolla" {
		t.Errorf("attrs = %v", attrs)
	}
}

func TestClientDecodePartialSuccess(t *testing.T) {
	srv := decodeServer(t, map[string]string{
		"ErrorCode": "0,6",
		"Make":      "HONDA",
	})

	client := vpic.New(vpic.Config{BaseURL: srv.URL})

	attrs, err := client.Decode(context.Background(), "1HGCM82633A004352", 0)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if attrs["Make"] != "HONDA" {
		t.Errorf("Make = %q", attrs["Make"])
	}
}

func TestClientDecodeHardError(t *testing.T) {
	srv := decodeServer(t, map[string]string{
		"ErrorCode": "11",
		"ErrorText": "11 - Incorrect Model Year",
	})

	client := vpic.New(vpic.Config{BaseURL: srv.URL})

	_, err := client.Decode(context.Background(), "1HGCM82633A004352", 1800)
	var upstream *domain.UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if upstream.Service != "vin-decoder" {
		t.Errorf("Service = %q", upstream.Service)
	}
}

func TestClientDecodeUpstreamFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}},
		{"empty results", func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{"Results": []map[string]string{}})
		}},
		{"malformed body", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json"))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			client := vpic.New(vpic.Config{BaseURL: srv.URL})

			_, err := client.Decode(context.Background(), "1HGCM82633A004352", 0)
			var upstream *domain.UpstreamError
			if !errors.As(err, &upstream) {
				t.Fatalf("expected UpstreamError, got %v", err)
			}
		})
	}
}

func TestClientDecodeEmptyVIN(t *testing.T) {
	client := vpic.New(vpic.Config{BaseURL: "http://unreachable.invalid"})

	_, err := client.Decode(context.Background(), "", 0)
	var invalid *domain.InvalidDocumentError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidDocumentError, got %v", err)
	}
}
