package flash

import (
	"errors"
	"fmt"
	"time"

	"user-records/internal/cache"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

const (
	idCookieName = "flash_id"
	idKey        = "flash.id"
	keyPrefix    = "flash:"
)

var newID = uuid.NewString

// CacheStore 把訊息存在 Redis，cookie 只帶 uuid
type CacheStore struct {
	cache cache.Cache
	ttl   time.Duration
}

func NewCacheStore(c cache.Cache, ttl time.Duration) *CacheStore {
	return &CacheStore{cache: c, ttl: ttl}
}

func (s *CacheStore) Add(c echo.Context, f Flash) error {
	ctx := c.Request().Context()

	id, _ := c.Get(idKey).(string)
	var flashes []Flash
	if id == "" {
		id = newID()
	} else {
		raw, err := s.cache.Get(ctx, keyPrefix+id).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return fmt.Errorf("flash get: %w", err)
		}
		if raw != "" {
			if flashes, err = decode(raw); err != nil {
				return fmt.Errorf("flash decode: %w", err)
			}
		}
	}

	flashes = append(flashes, f)
	v, err := encode(flashes)
	if err != nil {
		return err
	}
	if err := s.cache.Set(ctx, keyPrefix+id, v, s.ttl).Err(); err != nil {
		return fmt.Errorf("flash set: %w", err)
	}
	c.Set(idKey, id)
	setCookie(c, idCookieName, id)
	return nil
}

// Pop 以 GETDEL 取出訊息，同一筆訊息只會顯示一次
func (s *CacheStore) Pop(c echo.Context) ([]Flash, error) {
	ck, err := c.Cookie(idCookieName)
	if err != nil || ck.Value == "" {
		return nil, nil
	}
	clearCookie(c, idCookieName)
	if _, err := uuid.Parse(ck.Value); err != nil {
		return nil, nil
	}

	raw, err := s.cache.GetDel(c.Request().Context(), keyPrefix+ck.Value).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("flash getdel: %w", err)
	}
	return decode(raw)
}

var _ Store = (*CacheStore)(nil)
