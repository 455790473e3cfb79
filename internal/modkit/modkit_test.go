package modkit

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"disasterresponse/internal/modkit/httpkit"
	"disasterresponse/internal/platform/config"
	phttp "disasterresponse/internal/platform/net/http"
	"disasterresponse/internal/platform/store"
)

func TestBuild_DefaultsThenOverrides(t *testing.T) {
	t.Parallel()

	b := Build(
		[]Option{WithName("classify"), WithPrefix("/classify")},
		WithPrefix("/predict"), WithPorts(struct{ N int }{7}),
	)
	if b.Name != "classify" || b.Prefix != "/predict" {
		t.Fatalf("built %+v", b)
	}
	if p, ok := b.Ports.(struct{ N int }); !ok || p.N != 7 {
		t.Fatalf("ports %+v", b.Ports)
	}
}

func TestBuilt_MountPrefixedAndGrouped(t *testing.T) {
	t.Parallel()

	srv := phttp.NewServer(config.New())
	prefixed := Build(nil, WithPrefix("meta"))
	prefixed.Mount(srv.Router(), func(r httpkit.Router) {
		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) { _, _ = io.WriteString(w, "ok") })
	})
	root := Build(nil)
	root.Mount(srv.Router(), func(r httpkit.Router) {
		r.Get("/", func(w http.ResponseWriter, _ *http.Request) { _, _ = io.WriteString(w, "index") })
	})

	for path, want := range map[string]string{"/meta/health": "ok", "/": "index"} {
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Body.String() != want {
			t.Fatalf("%s: got %q want %q", path, rec.Body.String(), want)
		}
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("/health outside the prefix = %d", rec.Code)
	}
}

func TestFromStore(t *testing.T) {
	t.Parallel()

	cfg := config.New()
	if d := FromStore(cfg, nil); d.DB != nil || d.CH != nil {
		t.Fatalf("nil store should give empty deps")
	}
	st, err := store.Open(context.Background(), store.Config{SQLite: store.SQLiteConfig{Enabled: true, Path: ":memory:"}})
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close(context.Background())
	d := FromStore(cfg, st)
	if d.DB == nil || d.Dialect != store.SQLite || d.CH != nil {
		t.Fatalf("deps %+v", d)
	}
}
