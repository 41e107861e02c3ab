package main

import (
	"net"
	"net/http"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServe_ListenFailureReturns(t *testing.T) {
	// Hold a port so the server cannot bind it
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	server := &http.Server{Addr: ln.Addr().String(), Handler: http.NotFoundHandler()}
	quit := make(chan os.Signal, 1)

	done := make(chan error, 1)
	go func() { done <- serve(server, quit, time.Second) }()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.Contains(t, err.Error(), "server failed")
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after the listener failed")
	}
}

func TestServe_SignalShutsDown(t *testing.T) {
	server := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}
	quit := make(chan os.Signal, 1)
	quit <- syscall.SIGTERM

	done := make(chan error, 1)
	go func() { done <- serve(server, quit, time.Second) }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after the signal")
	}
}
