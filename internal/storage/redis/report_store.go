package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goodtune/qqhelper/internal/report"
	"github.com/goodtune/qqhelper/internal/storage"
	"github.com/redis/go-redis/v9"
)

type reportStore struct {
	client *redis.Client
	keys   keys
}

// Replace clears the stored report and writes r in one script call
func (s *reportStore) Replace(ctx context.Context, r report.Report) error {
	script := redis.NewScript(replaceReportScript)

	args := []interface{}{
		s.keys.tablePrefix,
		r.GeneratedAt.Format(time.RFC3339Nano),
		len(r.Tables),
	}
	for _, t := range r.Tables {
		targs, err := tableArgs(t)
		if err != nil {
			return fmt.Errorf("table %s: %w", t.ID, err)
		}
		args = append(args, targs...)
	}

	return script.Run(ctx, s.client, []string{s.keys.tables, s.keys.generatedAt}, args...).Err()
}

// Load reads back the stored report
func (s *reportStore) Load(ctx context.Context) (*report.Report, error) {
	ids, err := s.client.LRange(ctx, s.keys.tables, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, storage.ErrNotFound
	}

	stamp, err := s.client.Get(ctx, s.keys.generatedAt).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, err
	}

	out := &report.Report{}
	if stamp != "" {
		generatedAt, err := time.Parse(time.RFC3339Nano, stamp)
		if err != nil {
			return nil, fmt.Errorf("failed to parse generated_at: %w", err)
		}
		out.GeneratedAt = generatedAt
	}

	// Use pipeline for efficient batch retrieval
	pipe := s.client.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.HGetAll(ctx, s.keys.tablePrefix+id)
	}

	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, err
	}

	for i, cmd := range cmds {
		table, err := parseTable(cmd.Val())
		if err != nil {
			return nil, fmt.Errorf("table %s: %w", ids[i], err)
		}
		out.Tables = append(out.Tables, *table)
	}

	return out, nil
}
