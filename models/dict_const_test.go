package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRequestStatusIsAllowChange(t *testing.T) {
	for _, to := range []RequestStatus{RequestStatusApproved, RequestStatusPartiallyApproved, RequestStatusRejected} {
		require.True(t, RequestStatusPending.IsAllowChange(to), to)
		require.False(t, to.IsAllowChange(RequestStatusRejected), to)
		require.False(t, to.IsAllowChange(RequestStatusApproved), to)
	}
	require.False(t, RequestStatusPending.IsAllowChange(RequestStatusPending))
}
