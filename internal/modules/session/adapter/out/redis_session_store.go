package out

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"efforts/internal/modules/session/domain"
	"efforts/internal/platform/config"
	apperrors "efforts/internal/platform/errors"
)

// RedisSessionStore keeps one hash per session, a sorted set of session ids
// scored by start time and a set of active session ids.
type RedisSessionStore struct {
	client *redis.Client
	prefix string
	loc    *time.Location
}

// OpenRedisSessionStore connects and pings the server.
func OpenRedisSessionStore(cfg config.RedisConfig, loc *time.Location) (*RedisSessionStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return NewRedisSessionStore(client, cfg.KeyPrefix, loc), nil
}

func NewRedisSessionStore(client *redis.Client, prefix string, loc *time.Location) *RedisSessionStore {
	if prefix == "" {
		prefix = "efforts"
	}
	if loc == nil {
		loc = time.Local
	}
	return &RedisSessionStore{client: client, prefix: prefix, loc: loc}
}

func (s *RedisSessionStore) Close() error {
	return s.client.Close()
}

func (s *RedisSessionStore) sessionKey(id string) string {
	return fmt.Sprintf("%s:session:%s", s.prefix, id)
}

func (s *RedisSessionStore) byStartKey() string {
	return s.prefix + ":sessions:by_start"
}

func (s *RedisSessionStore) activeKey() string {
	return s.prefix + ":sessions:active"
}

func (s *RedisSessionStore) Put(ctx context.Context, session domain.Session) (string, error) {
	fields := map[string]any{
		"id":               session.ID,
		"schema_version":   domain.SchemaVersion,
		"goals":            session.Goals,
		"planned_duration": session.PlannedDuration,
		"actual_duration":  session.ActualDuration,
		"start_time":       session.StartTime.UnixMilli(),
		"end_time":         "",
		"overtime":         session.Overtime,
		"quality":          string(session.Quality),
		"notes":            session.Notes,
		"status":           string(session.Status),
	}
	if session.EndTime != nil {
		fields["end_time"] = session.EndTime.UnixMilli()
	}

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, s.sessionKey(session.ID), fields)
		pipe.ZAdd(ctx, s.byStartKey(), redis.Z{Score: float64(session.StartTime.UnixMilli()), Member: session.ID})
		if session.Status == domain.StatusActive {
			pipe.SAdd(ctx, s.activeKey(), session.ID)
		} else {
			pipe.SRem(ctx, s.activeKey(), session.ID)
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("put session: %w", err)
	}
	return session.ID, nil
}

func (s *RedisSessionStore) Get(ctx context.Context, id string) (domain.Session, error) {
	data, err := s.client.HGetAll(ctx, s.sessionKey(id)).Result()
	if err != nil {
		return domain.Session{}, fmt.Errorf("get session: %w", err)
	}
	if len(data) == 0 {
		return domain.Session{}, fmt.Errorf("%w: session %s", apperrors.ErrNotFound, id)
	}
	return s.parse(data)
}

func (s *RedisSessionStore) GetAll(ctx context.Context) ([]domain.Session, error) {
	ids, err := s.client.ZRange(ctx, s.byStartKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return s.load(ctx, ids, func(domain.Session) bool { return true })
}

func (s *RedisSessionStore) GetActive(ctx context.Context) (domain.Session, error) {
	ids, err := s.client.SMembers(ctx, s.activeKey()).Result()
	if err != nil {
		return domain.Session{}, fmt.Errorf("get active session: %w", err)
	}
	sessions, err := s.load(ctx, ids, func(session domain.Session) bool {
		return session.Status == domain.StatusActive
	})
	if err != nil {
		return domain.Session{}, err
	}
	if len(sessions) == 0 {
		return domain.Session{}, apperrors.ErrNoActiveSession
	}
	latest := sessions[0]
	for _, session := range sessions[1:] {
		if session.StartTime.After(latest.StartTime) {
			latest = session
		}
	}
	return latest, nil
}

func (s *RedisSessionStore) GetInRange(ctx context.Context, start, end time.Time) ([]domain.Session, error) {
	ids, err := s.client.ZRangeByScore(ctx, s.byStartKey(), &redis.ZRangeBy{
		Min: strconv.FormatInt(start.UnixMilli(), 10),
		Max: strconv.FormatInt(end.UnixMilli(), 10),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("list sessions in range: %w", err)
	}
	return s.load(ctx, ids, func(session domain.Session) bool {
		return session.Status == domain.StatusCompleted
	})
}

func (s *RedisSessionStore) GetForDay(ctx context.Context, date time.Time) ([]domain.Session, error) {
	start, end := domain.DayBounds(date)
	return s.GetInRange(ctx, start, end)
}

func (s *RedisSessionStore) Delete(ctx context.Context, id string) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.sessionKey(id))
		pipe.ZRem(ctx, s.byStartKey(), id)
		pipe.SRem(ctx, s.activeKey(), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// load fetches hashes for ids in order, skipping ids whose hash is gone.
func (s *RedisSessionStore) load(ctx context.Context, ids []string, keep func(domain.Session) bool) ([]domain.Session, error) {
	if len(ids) == 0 {
		return []domain.Session{}, nil
	}
	pipe := s.client.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.HGetAll(ctx, s.sessionKey(id))
	}
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, fmt.Errorf("load sessions: %w", err)
	}

	sessions := make([]domain.Session, 0, len(ids))
	for _, cmd := range cmds {
		data, err := cmd.Result()
		if err != nil || len(data) == 0 {
			continue
		}
		session, err := s.parse(data)
		if err != nil {
			return nil, err
		}
		if keep(session) {
			sessions = append(sessions, session)
		}
	}
	return sessions, nil
}

func (s *RedisSessionStore) parse(data map[string]string) (domain.Session, error) {
	ints := map[string]int64{}
	for _, field := range []string{"planned_duration", "actual_duration", "start_time", "overtime"} {
		v, err := strconv.ParseInt(data[field], 10, 64)
		if err != nil {
			return domain.Session{}, fmt.Errorf("decode session %s field %s: %w", data["id"], field, err)
		}
		ints[field] = v
	}
	session := domain.Session{
		ID:              data["id"],
		Goals:           data["goals"],
		PlannedDuration: int(ints["planned_duration"]),
		ActualDuration:  int(ints["actual_duration"]),
		StartTime:       time.UnixMilli(ints["start_time"]).In(s.loc),
		Overtime:        int(ints["overtime"]),
		Quality:         domain.Quality(data["quality"]),
		Notes:           data["notes"],
		Status:          domain.Status(data["status"]),
	}
	if raw := data["end_time"]; raw != "" {
		ms, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return domain.Session{}, fmt.Errorf("decode session %s field end_time: %w", session.ID, err)
		}
		end := time.UnixMilli(ms).In(s.loc)
		session.EndTime = &end
	}
	return session, nil
}
