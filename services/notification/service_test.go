package notification

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gyansultanat-platform/services/testutil"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func newTestService(t *testing.T) *Service {
	t.Helper()

	db := testutil.NewTestDB(t, &Notification{})

	return NewService(ServiceParams{DB: db, Node: testutil.NewSnowflakeNode(t)})
}

func TestCreateRequiresUserID(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Create(context.Background(), CreateParams{Title: "Hi"})
	require.Error(t, err)
}

func TestMarkReadIsIdempotent(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	n, err := svc.Create(ctx, CreateParams{
		UserID:  "user-1",
		Title:   "Deposit received",
		Message: "500 coins were added to your wallet.",
		Type:    "deposit",
	})
	require.NoError(t, err)
	require.False(t, n.IsRead)

	read, err := svc.MarkRead(ctx, "user-1", n.ID)
	require.NoError(t, err)
	require.True(t, read.IsRead)

	again, err := svc.MarkRead(ctx, "user-1", n.ID)
	require.NoError(t, err)
	require.True(t, again.IsRead)
}

func TestMarkReadScopedToOwner(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	n, err := svc.Create(ctx, CreateParams{UserID: "user-1", Title: "Hello"})
	require.NoError(t, err)

	_, err = svc.MarkRead(ctx, "user-2", n.ID)
	require.Error(t, err)
}

func TestMarkAllRead(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, CreateParams{UserID: "user-1", Title: "Hello"})
		require.NoError(t, err)
	}
	_, err := svc.Create(ctx, CreateParams{UserID: "user-2", Title: "Hello"})
	require.NoError(t, err)

	affected, err := svc.MarkAllRead(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, int64(3), affected)

	unread, err := svc.unreadCount(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, int64(0), unread)

	unread, err = svc.unreadCount(ctx, "user-2")
	require.NoError(t, err)
	require.Equal(t, int64(1), unread)
}
