package session

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"log/slog"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/quest-forge/internal/entities"
	"github.com/KirkDiggler/quest-forge/internal/errors"
	redisclient "github.com/KirkDiggler/quest-forge/internal/redis"
)

const (
	sessionKeyPrefix      = "game_session:"
	userIndexPrefix       = "game_session:user:"
	sceneKeyPrefix        = "scene:"
	sessionScenesPrefix   = "scene:session:"
	errSessionNil         = "session cannot be nil"
	errSessionIDEmpty     = "session ID cannot be empty"
	errSceneNil           = "scene cannot be nil"
	errUserIDEmpty        = "user ID cannot be empty"
	errSceneWrongSession  = "scene does not belong to session"
	errConcurrentSession  = "session was modified by another request"
	errSceneAlreadyChosen = "scene already has a player choice"
)

type redisRepository struct {
	client redisclient.Client
}

// RedisConfig contains configuration for the Redis session repository
type RedisConfig struct {
	Client redisclient.Client
}

// Validate validates the RedisConfig
func (cfg *RedisConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Client == nil {
		return errors.InvalidArgument("client cannot be nil")
	}
	return nil
}

// NewRedis creates a Redis-backed session repository
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &redisRepository{client: cfg.Client}, nil
}

func sessionKey(id string) string       { return sessionKeyPrefix + id }
func userIndexKey(id string) string     { return userIndexPrefix + id }
func sceneKey(id string) string         { return sceneKeyPrefix + id }
func sessionScenesKey(id string) string { return sessionScenesPrefix + id }

func (r *redisRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	if err := validateSession(input.Session); err != nil {
		return nil, err
	}
	if err := validateScene(input.Scene, input.Session.ID); err != nil {
		return nil, err
	}

	sessionData, err := json.Marshal(input.Session)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal session")
	}
	sceneData, err := json.Marshal(input.Scene)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal scene")
	}

	key := sessionKey(input.Session.ID)
	err = r.client.Watch(ctx, func(tx *redis.Tx) error {
		exists, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return err
		}
		if exists > 0 {
			return errors.AlreadyExists("session already exists").WithMeta("session_id", input.Session.ID)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, sessionData, 0)
			pipe.ZAdd(ctx, userIndexKey(input.Session.UserID), redis.Z{
				Score:  updatedScore(input.Session),
				Member: input.Session.ID,
			})
			pipe.Set(ctx, sceneKey(input.Scene.ID), sceneData, 0)
			pipe.ZAdd(ctx, sessionScenesKey(input.Session.ID), redis.Z{
				Score:  float64(input.Scene.Sequence),
				Member: input.Scene.ID,
			})
			return nil
		})
		return err
	}, key)
	if err != nil {
		return nil, storeError(err, "failed to create session")
	}

	return &CreateOutput{Session: input.Session, Scene: input.Scene}, nil
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errSessionIDEmpty)
	}

	session, err := getSession(ctx, r.client, input.ID)
	if err != nil {
		return nil, err
	}
	return &GetOutput{Session: session}, nil
}

func (r *redisRepository) ListByUser(ctx context.Context, input ListByUserInput) (*ListByUserOutput, error) {
	if input.UserID == "" {
		return nil, errors.InvalidArgument(errUserIDEmpty)
	}

	stop := int64(-1)
	if input.Limit > 0 {
		stop = int64(input.Limit - 1)
	}

	ids, err := r.client.ZRevRange(ctx, userIndexKey(input.UserID), 0, stop).Result()
	if err != nil {
		return nil, errors.Persistence(err, "failed to list sessions")
	}
	if len(ids) == 0 {
		return &ListByUserOutput{Sessions: []*entities.GameSession{}}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = sessionKey(id)
	}
	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, errors.Persistence(err, "failed to load sessions")
	}

	sessions := make([]*entities.GameSession, 0, len(values))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			slog.WarnContext(ctx, "session index points at missing session",
				"user_id", input.UserID,
				"session_id", ids[i])
			continue
		}
		var s entities.GameSession
		if err := json.Unmarshal([]byte(raw), &s); err != nil {
			slog.WarnContext(ctx, "skipping unreadable session",
				"session_id", ids[i],
				"error", err)
			continue
		}
		sessions = append(sessions, &s)
	}

	return &ListByUserOutput{Sessions: sessions}, nil
}

func (r *redisRepository) ListScenes(ctx context.Context, input ListScenesInput) (*ListScenesOutput, error) {
	if input.SessionID == "" {
		return nil, errors.InvalidArgument(errSessionIDEmpty)
	}

	ids, err := r.client.ZRange(ctx, sessionScenesKey(input.SessionID), 0, -1).Result()
	if err != nil {
		return nil, errors.Persistence(err, "failed to list scenes")
	}
	if len(ids) == 0 {
		return &ListScenesOutput{Scenes: []*entities.Scene{}}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = sceneKey(id)
	}
	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, errors.Persistence(err, "failed to load scenes")
	}

	scenes := make([]*entities.Scene, 0, len(values))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			return nil, errors.Internalf("scene %s is indexed but missing", ids[i]).
				WithReason(errors.ReasonPersistence)
		}
		var scene entities.Scene
		if err := json.Unmarshal([]byte(raw), &scene); err != nil {
			return nil, errors.Persistence(err, "failed to unmarshal scene")
		}
		scenes = append(scenes, &scene)
	}

	return &ListScenesOutput{Scenes: scenes}, nil
}

func (r *redisRepository) SaveTurn(ctx context.Context, input SaveTurnInput) (*SaveTurnOutput, error) {
	if err := validateSession(input.Session); err != nil {
		return nil, err
	}
	if err := validateScene(input.ResolvedScene, input.Session.ID); err != nil {
		return nil, err
	}
	if err := validateScene(input.NextScene, input.Session.ID); err != nil {
		return nil, err
	}
	if input.ResolvedScene.PlayerChoice == nil {
		return nil, errors.InvalidArgument("resolved scene must carry the player choice")
	}

	sessionData, err := json.Marshal(input.Session)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal session")
	}
	resolvedData, err := json.Marshal(input.ResolvedScene)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal scene")
	}
	nextData, err := json.Marshal(input.NextScene)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal scene")
	}

	sKey := sessionKey(input.Session.ID)
	resolvedKey := sceneKey(input.ResolvedScene.ID)

	err = r.client.Watch(ctx, func(tx *redis.Tx) error {
		stored, err := getSession(ctx, tx, input.Session.ID)
		if err != nil {
			return err
		}
		if !stored.UpdatedAt.Equal(input.ExpectedUpdatedAt) {
			return errors.ConcurrentUpdate(errConcurrentSession).WithMeta("session_id", input.Session.ID)
		}

		current, err := getScene(ctx, tx, input.ResolvedScene.ID)
		if err != nil {
			return err
		}
		if current.IsResolved() {
			return errors.SceneAlreadyResolved(errSceneAlreadyChosen).
				WithMeta("scene_id", current.ID)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, resolvedKey, resolvedData, 0)
			pipe.Set(ctx, sceneKey(input.NextScene.ID), nextData, 0)
			pipe.ZAdd(ctx, sessionScenesKey(input.Session.ID), redis.Z{
				Score:  float64(input.NextScene.Sequence),
				Member: input.NextScene.ID,
			})
			pipe.Set(ctx, sKey, sessionData, 0)
			pipe.ZAdd(ctx, userIndexKey(input.Session.UserID), redis.Z{
				Score:  updatedScore(input.Session),
				Member: input.Session.ID,
			})
			return nil
		})
		return err
	}, sKey, resolvedKey)
	if err != nil {
		return nil, storeError(err, "failed to save turn")
	}

	return &SaveTurnOutput{Session: input.Session}, nil
}

func (r *redisRepository) Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error) {
	if err := validateSession(input.Session); err != nil {
		return nil, err
	}

	data, err := json.Marshal(input.Session)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal session")
	}

	key := sessionKey(input.Session.ID)
	err = r.client.Watch(ctx, func(tx *redis.Tx) error {
		stored, err := getSession(ctx, tx, input.Session.ID)
		if err != nil {
			return err
		}
		if !stored.UpdatedAt.Equal(input.ExpectedUpdatedAt) {
			return errors.ConcurrentUpdate(errConcurrentSession).WithMeta("session_id", input.Session.ID)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			pipe.ZAdd(ctx, userIndexKey(input.Session.UserID), redis.Z{
				Score:  updatedScore(input.Session),
				Member: input.Session.ID,
			})
			return nil
		})
		return err
	}, key)
	if err != nil {
		return nil, storeError(err, "failed to update session")
	}

	return &UpdateOutput{Session: input.Session}, nil
}

// reader is satisfied by both the client and a WATCH transaction
type reader interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func getSession(ctx context.Context, c reader, id string) (*entities.GameSession, error) {
	raw, err := c.Get(ctx, sessionKey(id)).Result()
	if err != nil {
		if stderrors.Is(err, redis.Nil) {
			return nil, errors.NotFoundf("session %s not found", id)
		}
		return nil, errors.Persistence(err, "failed to get session")
	}

	var s entities.GameSession
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, errors.Persistence(err, "failed to unmarshal session")
	}
	return &s, nil
}

func getScene(ctx context.Context, c reader, id string) (*entities.Scene, error) {
	raw, err := c.Get(ctx, sceneKey(id)).Result()
	if err != nil {
		if stderrors.Is(err, redis.Nil) {
			return nil, errors.NotFoundf("scene %s not found", id)
		}
		return nil, errors.Persistence(err, "failed to get scene")
	}

	var scene entities.Scene
	if err := json.Unmarshal([]byte(raw), &scene); err != nil {
		return nil, errors.Persistence(err, "failed to unmarshal scene")
	}
	return &scene, nil
}

func validateSession(s *entities.GameSession) error {
	if s == nil {
		return errors.InvalidArgument(errSessionNil)
	}
	if s.ID == "" {
		return errors.InvalidArgument(errSessionIDEmpty)
	}
	if s.UserID == "" {
		return errors.InvalidArgument(errUserIDEmpty)
	}
	return nil
}

func validateScene(scene *entities.Scene, sessionID string) error {
	if scene == nil {
		return errors.InvalidArgument(errSceneNil)
	}
	if scene.ID == "" {
		return errors.InvalidArgument("scene ID cannot be empty")
	}
	if scene.SessionID != sessionID {
		return errors.InvalidArgument(errSceneWrongSession)
	}
	return nil
}

func updatedScore(s *entities.GameSession) float64 {
	return float64(s.UpdatedAt.UnixMilli())
}

// storeError keeps our own errors as they are, maps a failed WATCH to a
// concurrent update and wraps everything else as a persistence failure.
func storeError(err error, message string) error {
	var e *errors.Error
	if errors.As(err, &e) {
		return err
	}
	if stderrors.Is(err, redis.TxFailedErr) {
		return errors.ConcurrentUpdate(errConcurrentSession)
	}
	return errors.Persistence(err, message)
}
