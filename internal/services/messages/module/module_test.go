package module

import (
	"context"
	"testing"
	"time"

	"disasterresponse/internal/modkit"
	"disasterresponse/internal/modkit/module"
	"disasterresponse/internal/platform/config"
	perr "disasterresponse/internal/platform/errors"
	"disasterresponse/internal/services/messages/domain"
	"disasterresponse/internal/services/messages/service"
)

func TestFromConfig(t *testing.T) {
	if got := FromConfig(config.New()); got != service.DefaultOptions() {
		t.Fatalf("defaults = %+v", got)
	}

	t.Setenv("MESSAGES_STATEMENT_TIMEOUT", "30s")
	t.Setenv("MESSAGES_RETRIES", "-4")
	t.Setenv("MESSAGES_RETRY_WAIT", "250ms")
	got := FromConfig(config.New())
	want := service.Options{StatementTimeout: 30 * time.Second, Retries: 0, RetryWait: 250 * time.Millisecond}
	if got != want {
		t.Fatalf("FromConfig = %+v, want %+v", got, want)
	}
}

func TestNew_WithoutDatabase(t *testing.T) {
	t.Parallel()

	m := New(modkit.Deps{Cfg: config.New()})
	w := module.MustPortsOf[domain.WriterPort](m)
	if _, err := w.Replace(context.Background(), domain.Messages{}); perr.CodeOf(err) != perr.ErrorCodeUnavailable {
		t.Fatalf("want unavailable, got %v", err)
	}
}
