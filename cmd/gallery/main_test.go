package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestParseIDs(t *testing.T) {
	cases := []struct {
		in      []string
		want    []uint32
		wantErr bool
	}{
		{in: []string{"1", "22"}, want: []uint32{1, 22}},
		{in: []string{"x"}, wantErr: true},
		{in: []string{"-1"}, wantErr: true},
		{in: []string{"4294967296"}, wantErr: true},
	}
	for _, tc := range cases {
		got, err := parseIDs(tc.in)
		if (err != nil) != tc.wantErr {
			t.Fatalf("parseIDs(%v) err = %v", tc.in, err)
		}
		if tc.wantErr {
			continue
		}
		if len(got) != len(tc.want) {
			t.Fatalf("parseIDs(%v) = %v", tc.in, got)
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Fatalf("parseIDs(%v) = %v", tc.in, got)
			}
		}
	}
}

func TestListCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/second/1" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"image_id":7,"foreign_id":1,"path":"01J/G0/M004KYHATX7J2W7MB28X4.webp","title":"dune","user":"user"}]`))
	}))
	defer srv.Close()
	t.Setenv("GALLERY_FOREIGN_ID", "")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"list", "--server", srv.URL, "--collection", "second"})
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("execute: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "7") || !strings.Contains(got, "dune") ||
		!strings.Contains(got, srv.URL+"/thumbs/01J/G0/M004KYHATX7J2W7MB28X4.webp") {
		t.Fatalf("output:\n%s", got)
	}
}

