//go:build e2e && unix

package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSearchAndAddFriend(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	require.NoError(t, tf.StartApp())
	require.True(t, tf.Ready(), "Should draw the search screen")

	require.NoError(t, tf.Type("cedric"))
	if !tf.SeePlain("Found cedric (123)") {
		tf.DumpTailOnFail(t, "search-found", 4096)
		t.Fatal("Should resolve cedric")
	}

	tf.Reset()
	require.NoError(t, tf.Enter())
	if !tf.SeePlain("Friend added id: 123") {
		tf.DumpTailOnFail(t, "add-friend", 4096)
		t.Fatal("Should confirm the friend request")
	}
	require.True(t, tf.SeePlain("Type at least 3 characters"), "Input should be cleared after adding")
}

func TestFriendRequestFailureKeepsInput(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	require.NoError(t, tf.StartApp())
	require.True(t, tf.Ready(), "Should draw the search screen")

	require.NoError(t, tf.Type("jon"))
	require.True(t, tf.SeePlain("Found cedric (456)"), "jon resolves to user 456")

	tf.Reset()
	require.NoError(t, tf.Enter())
	require.True(t, tf.SeePlain("ERROR: Friend not added"), "Should report the failed request")
	require.True(t, tf.SeePlain("Found cedric (456)"), "User stays resolved")
}

func TestUnknownNameAndShortInput(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	require.NoError(t, tf.StartApp())
	require.True(t, tf.Ready(), "Should draw the search screen")

	require.NoError(t, tf.Type("zed"))
	require.True(t, tf.SeePlain("No user named zed"), "Unknown names resolve to nobody")

	tf.Reset()
	require.NoError(t, tf.SendKeys(KeyBackspace))
	require.True(t, tf.SeePlain("Type at least 3 characters"), "Short input returns to idle")
}

func TestApplicationExit(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	require.NoError(t, tf.StartApp())
	require.True(t, tf.Ready(), "Should draw the search screen")

	done := make(chan error, 1)
	go func() {
		done <- tf.cmd.Wait()
	}()

	require.NoError(t, tf.SendCtrlC())

	select {
	case exitErr := <-done:
		require.NoError(t, exitErr, "Process should exit cleanly")
	case <-time.After(2 * time.Second):
		tf.DumpTailOnFail(t, "exit-failure", 4096)
		t.Fatal("Application did not exit within timeout")
	}
}
