package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCartAddRejectsBadQuantity(t *testing.T) {
	// The quantity is validated before any backend call, so empty deps are
	// safe here.
	for _, bad := range []string{"abc", "0", "-2", "1.5"} {
		err := run(context.Background(), "cart-add", []string{"p1", bad}, deps{})
		require.Error(t, err, "qty %q", bad)
		require.Contains(t, err.Error(), "usage: cart-add")
	}
}

func TestUnknownCommand(t *testing.T) {
	err := run(context.Background(), "frobnicate", nil, deps{})
	require.Error(t, err)
}
