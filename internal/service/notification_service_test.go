package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Freeeeeet/tutoring_scheduler/internal/apperr"
	"github.com/Freeeeeet/tutoring_scheduler/internal/model"
	"github.com/Freeeeeet/tutoring_scheduler/internal/repository"
)

func TestInboxIsCappedNewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.store.WithTx(ctx, func(tx repository.Tx) error {
		for i := range 45 {
			n := &model.Notification{UserID: f.student.ID, Message: fmt.Sprintf("note %d", i)}
			if err := tx.CreateNotifications(ctx, n); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)

	inbox, err := f.inbox.List(ctx, f.student.ID)
	require.NoError(t, err)
	require.Len(t, inbox.Notifications, model.NotificationFetchLimit)
	assert.Equal(t, "note 44", inbox.Notifications[0].Message)
	assert.Equal(t, 45, inbox.UnreadCount)

	other, err := f.inbox.List(ctx, f.tutor.ID)
	require.NoError(t, err)
	assert.Empty(t, other.Notifications)
	assert.Zero(t, other.UnreadCount)
}

func TestMarkReadIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	slot := f.addSlot(t, f.tutor.ID, "2025-10-27", "14:00")
	_, err := f.request(slot, "Math 150")
	require.NoError(t, err)

	inbox, err := f.inbox.List(ctx, f.tutor.ID)
	require.NoError(t, err)
	require.Len(t, inbox.Notifications, 1)
	assert.Equal(t, 1, inbox.UnreadCount)
	id := inbox.Notifications[0].ID

	require.NoError(t, f.inbox.MarkRead(ctx, id))
	require.NoError(t, f.inbox.MarkRead(ctx, id))

	inbox, err = f.inbox.List(ctx, f.tutor.ID)
	require.NoError(t, err)
	assert.Equal(t, model.NotificationStatusRead, inbox.Notifications[0].Status)
	assert.Zero(t, inbox.UnreadCount)

	err = f.inbox.MarkRead(ctx, 999)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	err = f.inbox.MarkRead(ctx, 0)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}
