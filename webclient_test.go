package webclient_test

import (
	"errors"
	"testing"

	"github.com/adamwoolhether/webclient"
	"github.com/adamwoolhether/webclient/client"
)

func TestNew(t *testing.T) {
	wc, err := webclient.New()
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if wc.RequestCount() != 0 {
		t.Errorf("expected idle client, count=%d", wc.RequestCount())
	}

	if _, err := webclient.New(client.WithThrottle(0, 0)); err == nil {
		t.Error("expected invalid option to fail")
	}

	if err := wc.CancelAsync(); !errors.Is(err, client.ErrNotImplemented) {
		t.Errorf("expected ErrNotImplemented, got: %v", err)
	}
}
