package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wansatya/x.com/internal/model"
	"github.com/wansatya/x.com/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Credential operations

func (s *Storage) SaveCredential(ctx context.Context, cred *model.Credential) error {
	data, err := json.Marshal(cred)
	if err != nil {
		return err
	}

	// Use pipeline for atomic save + index update
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, credentialKey(cred.UserID), data, 0)
	pipe.Set(ctx, usernameIndexKey(cred.Username), string(cred.UserID), 0)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetCredential(ctx context.Context, id model.UserID) (*model.Credential, error) {
	data, err := s.client.Get(ctx, credentialKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrCredentialNotFound
		}
		return nil, err
	}

	var cred model.Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		return nil, err
	}
	return &cred, nil
}

func (s *Storage) GetCredentialByUsername(ctx context.Context, username string) (*model.Credential, error) {
	// Look up user ID from username index
	id, err := s.client.Get(ctx, usernameIndexKey(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrCredentialNotFound
		}
		return nil, err
	}
	return s.GetCredential(ctx, model.UserID(id))
}

// Profile operations

func (s *Storage) CreateProfile(ctx context.Context, profile *model.UserProfile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, profileKey(profile.ID), data, 0)
	if profile.HighScore != nil {
		pipe.ZAdd(ctx, leaderboardKey(), redis.Z{Score: float64(*profile.HighScore), Member: string(profile.ID)})
	} else {
		pipe.ZRem(ctx, leaderboardKey(), string(profile.ID))
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetProfile(ctx context.Context, id model.UserID) (*model.UserProfile, error) {
	data, err := s.client.Get(ctx, profileKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrProfileNotFound
		}
		return nil, err
	}

	var profile model.UserProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (s *Storage) UpdateProfile(ctx context.Context, id model.UserID, update model.ProfileUpdate) error {
	return s.modifyProfile(ctx, id, func(p *model.UserProfile, pipe redis.Pipeliner) {
		update.Apply(p)
	})
}

func (s *Storage) SetHighScore(ctx context.Context, id model.UserID, score int) error {
	return s.modifyProfile(ctx, id, func(p *model.UserProfile, pipe redis.Pipeliner) {
		p.HighScore = &score
		pipe.ZAdd(ctx, leaderboardKey(), redis.Z{Score: float64(score), Member: string(id)})
	})
}

func (s *Storage) DeleteProfile(ctx context.Context, id model.UserID) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, profileKey(id))
	pipe.ZRem(ctx, leaderboardKey(), string(id))
	_, err := pipe.Exec(ctx)
	return err
}

// modifyProfile runs a read-modify-write of a profile document under WATCH,
// retrying when another client changes the document in between
func (s *Storage) modifyProfile(
	ctx context.Context,
	id model.UserID,
	modify func(p *model.UserProfile, pipe redis.Pipeliner),
) error {
	key := profileKey(id)

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return model.ErrProfileNotFound
			}
			return err
		}

		var profile model.UserProfile
		if err := json.Unmarshal(data, &profile); err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			modify(&profile, pipe)
			out, err := json.Marshal(&profile)
			if err != nil {
				return err
			}
			pipe.Set(ctx, key, out, 0)
			return nil
		})
		return err
	}

	retries := max(s.cfg.TxRetries, 1)
	for i := 0; i < retries; i++ {
		err := s.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return fmt.Errorf("profile %s: %w", id, redis.TxFailedErr)
}

// Leaderboard operations

func (s *Storage) TopScores(ctx context.Context, limit int) ([]model.ScoreEntry, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}

	ranked, err := s.client.ZRevRangeWithScores(ctx, leaderboardKey(), 0, stop).Result()
	if err != nil {
		return nil, err
	}
	if len(ranked) == 0 {
		return []model.ScoreEntry{}, nil
	}

	// Fetch display names in one round trip
	pipe := s.client.Pipeline()
	cmds := make([]*redis.StringCmd, len(ranked))
	for i, z := range ranked {
		cmds[i] = pipe.Get(ctx, profileKey(model.UserID(z.Member.(string))))
	}
	_, err = pipe.Exec(ctx)
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, err
	}

	entries := make([]model.ScoreEntry, 0, len(ranked))
	for i, z := range ranked {
		data, err := cmds[i].Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue // Profile deleted since
			}
			return nil, err
		}

		var profile model.UserProfile
		if err := json.Unmarshal(data, &profile); err != nil {
			return nil, err
		}
		entries = append(entries, model.ScoreEntry{
			UserID:      profile.ID,
			DisplayName: profile.DisplayName,
			Score:       int(z.Score),
		})
	}
	return entries, nil
}
