package quotes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-diary/internal/domain/entity"
)

func serve(t *testing.T, status int, body string) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return NewClient(srv.URL)
}

func TestRandom(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    entity.Quote
		wantErr bool
	}{
		{"array", 200, `[{"q":"Keep going.","a":"Anon","h":"<b>"}]`, entity.Quote{Text: "Keep going.", Author: "Anon"}, false},
		{"object", 200, `{"q":"Be here.","a":""}`, entity.Quote{Text: "Be here.", Author: "Unknown"}, false},
		{"empty array", 200, `[]`, entity.Quote{}, true},
		{"missing text", 200, `[{"a":"x"}]`, entity.Quote{}, true},
		{"garbage", 200, `nope`, entity.Quote{}, true},
		{"upstream error", 503, `[]`, entity.Quote{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := serve(t, tt.status, tt.body).Random(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
