package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_Subcommands(t *testing.T) {
	cmd := rootCmd()

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.ElementsMatch(t, []string{"serve", "migrate", "seed", "create-admin"}, names)

	seedSub, _, err := cmd.Find([]string{"seed"})
	require.NoError(t, err)
	assert.NotNil(t, seedSub.Flags().Lookup("file"))

	admin, _, err := cmd.Find([]string{"create-admin"})
	require.NoError(t, err)
	assert.Equal(t, "admin", admin.Flags().Lookup("username").DefValue)
}

func TestLoadSeed_Default(t *testing.T) {
	f, err := loadSeed("")
	require.NoError(t, err)
	assert.NotEmpty(t, f.Menu)

	_, err = loadSeed("/does/not/exist.yaml")
	assert.Error(t, err)
}

func TestRun_StopsOnCancel(t *testing.T) {
	srv := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- run(ctx, srv, logger) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
