package main

import (
	"errors"
	"fmt"
	"net"
	"os"
	"syscall"
	"testing"
)

func TestIsConnRefused(t *testing.T) {
	refused := &net.OpError{Op: "dial", Err: os.NewSyscallError("connect", syscall.ECONNREFUSED)}
	if !isConnRefused(fmt.Errorf("ping: %w", refused)) {
		t.Error("connection refused not recognized")
	}

	reset := &net.OpError{Op: "read", Err: os.NewSyscallError("read", syscall.ECONNRESET)}
	if isConnRefused(reset) {
		t.Error("connection reset treated as not-yet-listening")
	}
	if isConnRefused(errors.New("port in use by another service")) {
		t.Error("unrelated error treated as not-yet-listening")
	}
}
