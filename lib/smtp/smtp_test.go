package smtp

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildMessage(t *testing.T) {
	msg := buildMessage("stock@lab.local", "user@lab.local", "Request approved", "line1\nline2")
	require.True(t, strings.HasPrefix(msg, "From: stock@lab.local\r\nTo: user@lab.local\r\n"))
	require.Contains(t, msg, "Subject: LabStock - Request approved\r\n")
	require.Contains(t, msg, "\r\n\r\nline1\r\nline2\r\n")
}

func TestSendSkippedWhenNotConfigured(t *testing.T) {
	require.NoError(t, Connect("", "", "", "", "", false))
	require.False(t, Instance.Enabled())
	require.NoError(t, Instance.SendEMail("user@lab.local", "subject", "body"))
}

func TestConnectValidation(t *testing.T) {
	require.Error(t, Connect("user", "pass", "smtp.lab.local", "smtp", "stock@lab.local", true))
	require.Error(t, Connect("user", "pass", "smtp.lab.local", "465", "not an address", true))
	require.NoError(t, Connect("stock@lab.local", "pass", "smtp.lab.local", "465", "", true))
	require.True(t, Instance.Enabled())
}
