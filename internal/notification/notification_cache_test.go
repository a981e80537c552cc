package notification

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestService_UnreadCount_CacheMissFillsRedis(t *testing.T) {
	rdb, redisMock := redismock.NewClientMock()

	repoCalls := 0
	repo := &fakeRepo{
		countUnreadFn: func(ctx context.Context, companyID, recipientID string) (int64, error) {
			repoCalls++
			return 4, nil
		},
	}

	key := unreadCacheKey("emp-1")
	redisMock.ExpectGet(key).RedisNil()
	redisMock.ExpectSet(key, "4", unreadCacheTTL).SetVal("OK")

	svc := NewService(repo, nil, nil, nil, rdb)
	resp, err := svc.UnreadCount(context.Background(), "comp-1", "emp-1")
	assert.NoError(t, err)
	assert.Equal(t, int64(4), resp.Unread)
	assert.Equal(t, 1, repoCalls)
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestService_UnreadCount_CacheHitSkipsRepository(t *testing.T) {
	rdb, redisMock := redismock.NewClientMock()

	repo := &fakeRepo{
		countUnreadFn: func(ctx context.Context, companyID, recipientID string) (int64, error) {
			t.Fatal("repository must not be hit on a warm cache")
			return 0, nil
		},
	}

	redisMock.ExpectGet(unreadCacheKey("emp-1")).SetVal("7")

	svc := NewService(repo, nil, nil, nil, rdb)
	resp, err := svc.UnreadCount(context.Background(), "comp-1", "emp-1")
	assert.NoError(t, err)
	assert.Equal(t, int64(7), resp.Unread)
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestService_MarkRead_InvalidatesUnreadCache(t *testing.T) {
	rdb, redisMock := redismock.NewClientMock()

	n := &Notification{ID: uuid.New(), ReadAt: nil, CreatedAt: time.Now()}
	repo := &fakeRepo{
		findByIDFn: func(ctx context.Context, companyID, recipientID, id string) (*Notification, error) {
			return n, nil
		},
		markReadFn: func(ctx context.Context, companyID, recipientID, id string) error {
			return nil
		},
	}

	redisMock.ExpectDel(unreadCacheKey("emp-1")).SetVal(1)

	svc := NewService(repo, nil, nil, nil, rdb)
	err := svc.MarkRead(context.Background(), "comp-1", "emp-1", n.ID.String())
	assert.NoError(t, err)
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestService_MarkAllRead_InvalidatesUnreadCache(t *testing.T) {
	rdb, redisMock := redismock.NewClientMock()

	repo := &fakeRepo{
		markAllReadFn: func(ctx context.Context, companyID, recipientID string) error { return nil },
	}

	redisMock.ExpectDel(unreadCacheKey("emp-1")).SetVal(1)

	svc := NewService(repo, nil, nil, nil, rdb)
	err := svc.MarkAllRead(context.Background(), "comp-1", "emp-1")
	assert.NoError(t, err)
	assert.NoError(t, redisMock.ExpectationsWereMet())
}
