package testserver

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
)

// The record middleware stashes the request body under bodyKey so
// handlers can read a body that has already been consumed.
type ctxKey int

const bodyKey ctxKey = iota + 1

func bodyFrom(ctx context.Context) []byte {
	b, _ := ctx.Value(bodyKey).([]byte)
	return b
}

func echo(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	body := bodyFrom(ctx)

	if ct := r.Header.Get("Content-Type"); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	w.WriteHeader(http.StatusOK)
	_, err := io.Copy(w, bytes.NewReader(body))
	return err
}

func capture(_ context.Context, w http.ResponseWriter, _ *http.Request) error {
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func status(_ context.Context, w http.ResponseWriter, r *http.Request) error {
	code, err := strconv.Atoi(r.PathValue("code"))
	if err != nil || code < 100 || code > 999 {
		http.Error(w, "bad status code", http.StatusBadRequest)
		return nil
	}

	w.WriteHeader(code)
	_, err = fmt.Fprintf(w, "status %d", code)
	return err
}

func redirect(_ context.Context, w http.ResponseWriter, r *http.Request) error {
	http.Redirect(w, r, "/data", http.StatusFound)
	return nil
}
