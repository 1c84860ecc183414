package game

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/iamasit07/connect4-ai/internal/domain"
	"github.com/iamasit07/connect4-ai/internal/service/bot"
	"github.com/iamasit07/connect4-ai/pkg/uid"
	"github.com/rs/zerolog/log"
)

// SessionStore caches live sessions outside the process. Finished games are
// deleted from it, it never keeps history.
type SessionStore interface {
	Save(ctx context.Context, snapshot domain.GameSnapshot, ttl time.Duration) error
	Load(ctx context.Context, gameID string) (*domain.GameSnapshot, error)
	Delete(ctx context.Context, gameID string) error
}

// PolicyFactory builds the bot for a difficulty.
type PolicyFactory func(difficulty bot.Difficulty) (bot.Policy, error)

// DefaultPolicyFactory uses bot.NewPolicy with the given search depth.
func DefaultPolicyFactory(depth int) PolicyFactory {
	return func(difficulty bot.Difficulty) (bot.Policy, error) {
		return bot.NewPolicy(difficulty, depth, uint64(time.Now().UnixNano()))
	}
}

type GameSession struct {
	GameID     string
	Mode       domain.GameMode
	Difficulty bot.Difficulty
	Game       *domain.Game
	CreatedAt  time.Time
	UpdatedAt  time.Time
	FinishedAt time.Time
	policy     bot.Policy
	removed    bool
	mu         sync.Mutex
}

// MoveResult lists the disks dropped by one call in play order. In bot mode
// that is the human's move followed by the bot's reply, preceded by a retried
// bot move when the previous reply had failed.
type MoveResult struct {
	Moves []domain.Move       `json:"moves"`
	Game  domain.GameSnapshot `json:"game"`
}

type Options struct {
	Store             SessionStore
	NewPolicy         PolicyFactory
	DefaultDifficulty bot.Difficulty
	SessionTTL        time.Duration
	IdleTimeout       time.Duration
}

// SessionManager manages active game sessions.
// Lock order: a session's mu may be held while taking the manager's mu, never
// the other way round.
type SessionManager struct {
	Session map[string]*GameSession // gameID → GameSession
	mu      sync.RWMutex

	store             SessionStore
	newPolicy         PolicyFactory
	defaultDifficulty bot.Difficulty
	ttl               time.Duration
	idleTimeout       time.Duration
	now               func() time.Time
}

func NewSessionManager(opts Options) *SessionManager {
	if opts.NewPolicy == nil {
		opts.NewPolicy = DefaultPolicyFactory(bot.DefaultDepth)
	}
	if opts.DefaultDifficulty == "" {
		opts.DefaultDifficulty = bot.Hard
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 24 * time.Hour
	}
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = time.Hour
	}

	return &SessionManager{
		Session:           make(map[string]*GameSession),
		store:             opts.Store,
		newPolicy:         opts.NewPolicy,
		defaultDifficulty: opts.DefaultDifficulty,
		ttl:               opts.SessionTTL,
		idleTimeout:       opts.IdleTimeout,
		now:               time.Now,
	}
}

// CreateSession starts a new game. difficulty is ignored in local mode and
// falls back to the configured default when empty.
func (sm *SessionManager) CreateSession(ctx context.Context, mode domain.GameMode, difficulty string) (domain.GameSnapshot, error) {
	if mode == "" {
		mode = domain.ModeBot
	}
	if !mode.Valid() {
		return domain.GameSnapshot{}, domain.ErrUnknownMode
	}

	now := sm.now()
	session := &GameSession{
		GameID:    uid.GenerateGameID(),
		Mode:      mode,
		Game:      domain.NewGame(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if mode == domain.ModeBot {
		d := sm.defaultDifficulty
		if difficulty != "" {
			parsed, err := bot.ParseDifficulty(difficulty)
			if err != nil {
				return domain.GameSnapshot{}, err
			}
			d = parsed
		}
		policy, err := sm.newPolicy(d)
		if err != nil {
			return domain.GameSnapshot{}, err
		}
		session.Difficulty = d
		session.policy = policy
	}

	sm.mu.Lock()
	sm.Session[session.GameID] = session
	sm.mu.Unlock()

	snapshot := session.snapshot()
	sm.persist(ctx, session, snapshot)

	log.Info().
		Str("game_id", session.GameID).
		Str("mode", string(mode)).
		Str("difficulty", string(session.Difficulty)).
		Msg("[SESSION] Created session")

	return snapshot, nil
}

func (sm *SessionManager) GetSession(ctx context.Context, gameID string) (domain.GameSnapshot, error) {
	session, err := sm.lookup(ctx, gameID)
	if err != nil {
		return domain.GameSnapshot{}, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	if session.removed {
		return domain.GameSnapshot{}, domain.ErrSessionNotFound
	}
	return session.snapshot(), nil
}

// HandleMove drops a disk for the player whose turn it is. In bot mode the
// human is always Player1 and the bot answers before HandleMove returns.
func (sm *SessionManager) HandleMove(ctx context.Context, gameID string, column int) (MoveResult, error) {
	session, err := sm.lookup(ctx, gameID)
	if err != nil {
		return MoveResult{}, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if session.removed {
		return MoveResult{}, domain.ErrSessionNotFound
	}
	if session.Game.IsFinished() {
		return MoveResult{}, domain.ErrGameFinished
	}

	var moves []domain.Move

	// a previous bot reply failed: play it now before the human's move
	if session.Mode == domain.ModeBot && session.Game.CurrentPlayer == domain.Player2 {
		botMove, err := session.botMove()
		if err != nil {
			log.Error().Err(err).Str("game_id", gameID).Msg("[BOT] Retried bot move failed")
			return MoveResult{Game: session.snapshot()}, fmt.Errorf("bot move: %w", err)
		}
		moves = append(moves, botMove)

		if session.Game.IsFinished() {
			return sm.finishMove(ctx, session, moves), domain.ErrGameFinished
		}
	}

	move, err := session.Game.MakeMove(session.Game.CurrentPlayer, column)
	if err != nil {
		if len(moves) > 0 {
			return sm.finishMove(ctx, session, moves), err
		}
		return MoveResult{}, err
	}
	moves = append(moves, move)

	if session.Mode == domain.ModeBot && !session.Game.IsFinished() {
		botMove, err := session.botMove()
		if err != nil {
			// the human's move stands; report what happened
			log.Error().Err(err).Str("game_id", gameID).Msg("[BOT] Error handling bot move")
			return sm.finishMove(ctx, session, moves), fmt.Errorf("bot move: %w", err)
		}
		moves = append(moves, botMove)
	}

	return sm.finishMove(ctx, session, moves), nil
}

// finishMove records the applied moves and syncs the cache. Caller holds
// session.mu.
func (sm *SessionManager) finishMove(ctx context.Context, session *GameSession, moves []domain.Move) MoveResult {
	session.touch(sm.now())
	snapshot := session.snapshot()

	if session.Game.IsFinished() {
		log.Info().
			Str("game_id", session.GameID).
			Str("status", string(session.Game.Status)).
			Int("winner", int(session.Game.Winner)).
			Int("moves", session.Game.MoveCount).
			Msg("[GAME] Game finished")
		sm.forget(ctx, session.GameID)
	} else {
		sm.persist(ctx, session, snapshot)
	}

	return MoveResult{Moves: moves, Game: snapshot}
}

// ResetSession starts a new game in an existing session.
func (sm *SessionManager) ResetSession(ctx context.Context, gameID string) (domain.GameSnapshot, error) {
	session, err := sm.lookup(ctx, gameID)
	if err != nil {
		return domain.GameSnapshot{}, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if session.removed {
		return domain.GameSnapshot{}, domain.ErrSessionNotFound
	}

	session.Game.Reset()
	session.FinishedAt = time.Time{}
	session.touch(sm.now())

	snapshot := session.snapshot()
	sm.persist(ctx, session, snapshot)

	log.Info().Str("game_id", gameID).Msg("[SESSION] Reset session")
	return snapshot, nil
}

// RemoveSession deletes the game. It waits for a move in progress so that
// the move cannot write the game back to the cache afterwards.
func (sm *SessionManager) RemoveSession(ctx context.Context, gameID string) error {
	sm.mu.RLock()
	session, exists := sm.Session[gameID]
	sm.mu.RUnlock()

	if !exists {
		return domain.ErrSessionNotFound
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if session.removed {
		return domain.ErrSessionNotFound
	}

	log.Info().Str("game_id", gameID).Msg("[SESSION] Removing session")
	sm.evict(ctx, session)
	return nil
}

// CleanupOldSessions drops finished sessions after the idle timeout and
// unfinished ones that have not been touched within the session TTL.
func (sm *SessionManager) CleanupOldSessions(ctx context.Context) int {
	now := sm.now()
	removed := 0

	for _, session := range sm.sessions() {
		session.mu.Lock()
		var stale bool
		if session.Game.IsFinished() {
			stale = now.Sub(session.FinishedAt) > sm.idleTimeout
		} else {
			stale = now.Sub(session.UpdatedAt) > sm.ttl
		}

		if stale && !session.removed {
			sm.evict(ctx, session)
			removed++
		}
		session.mu.Unlock()
	}

	if removed > 0 {
		log.Info().Msgf("[SESSION] Memory cleanup: Removed %d stale game sessions", removed)
	}
	return removed
}

// evict marks session removed, drops it from memory and the cache. Caller
// holds session.mu.
func (sm *SessionManager) evict(ctx context.Context, session *GameSession) {
	session.removed = true

	sm.mu.Lock()
	if sm.Session[session.GameID] == session {
		delete(sm.Session, session.GameID)
	}
	sm.mu.Unlock()

	sm.forget(ctx, session.GameID)
}

// sessions copies the session pointers so callers can lock each session
// without holding the manager's mu.
func (sm *SessionManager) sessions() []*GameSession {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	list := make([]*GameSession, 0, len(sm.Session))
	for _, session := range sm.Session {
		list = append(list, session)
	}
	return list
}

// ActiveSessions returns the number of sessions held in memory.
func (sm *SessionManager) ActiveSessions() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.Session)
}

// GameSummary is the public listing entry for an active game.
type GameSummary struct {
	GameID     string            `json:"gameId"`
	Mode       domain.GameMode   `json:"mode"`
	Difficulty string            `json:"difficulty,omitempty"`
	BotName    string            `json:"botName,omitempty"`
	Status     domain.GameStatus `json:"status"`
	MoveCount  int               `json:"moveCount"`
	StartedAt  time.Time         `json:"startedAt"`
}

// GetActiveGames lists the in-progress sessions held in memory, oldest first.
func (sm *SessionManager) GetActiveGames() []GameSummary {
	list := sm.sessions()

	games := make([]GameSummary, 0, len(list))
	for _, session := range list {
		session.mu.Lock()
		if !session.removed && !session.Game.IsFinished() {
			summary := GameSummary{
				GameID:     session.GameID,
				Mode:       session.Mode,
				Difficulty: string(session.Difficulty),
				Status:     session.Game.Status,
				MoveCount:  session.Game.MoveCount,
				StartedAt:  session.CreatedAt,
			}
			if session.Mode == domain.ModeBot {
				summary.BotName = domain.GetBotName(string(session.Difficulty))
			}
			games = append(games, summary)
		}
		session.mu.Unlock()
	}

	sort.Slice(games, func(i, j int) bool {
		return games[i].StartedAt.Before(games[j].StartedAt)
	})
	return games
}

func (sm *SessionManager) lookup(ctx context.Context, gameID string) (*GameSession, error) {
	sm.mu.RLock()
	session, exists := sm.Session[gameID]
	sm.mu.RUnlock()
	if exists {
		return session, nil
	}

	if sm.store == nil {
		return nil, domain.ErrSessionNotFound
	}

	snapshot, err := sm.store.Load(ctx, gameID)
	if err != nil {
		if !errors.Is(err, domain.ErrSessionNotFound) {
			log.Warn().Err(err).Str("game_id", gameID).Msg("[SESSION] Could not load session from cache")
		}
		return nil, domain.ErrSessionNotFound
	}

	restored, err := sm.restore(*snapshot)
	if err != nil {
		return nil, err
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()
	// another request may have restored it meanwhile
	if existing, ok := sm.Session[gameID]; ok {
		return existing, nil
	}
	sm.Session[gameID] = restored

	log.Info().Str("game_id", gameID).Msg("[SESSION] Restored session from cache")
	return restored, nil
}

func (sm *SessionManager) restore(snapshot domain.GameSnapshot) (*GameSession, error) {
	session := &GameSession{
		GameID:    snapshot.GameID,
		Mode:      snapshot.Mode,
		Game:      snapshot.Game(),
		CreatedAt: snapshot.CreatedAt,
		UpdatedAt: snapshot.UpdatedAt,
	}
	if snapshot.FinishedAt != nil {
		session.FinishedAt = *snapshot.FinishedAt
	}

	if snapshot.Mode == domain.ModeBot {
		difficulty, err := bot.ParseDifficulty(snapshot.Difficulty)
		if err != nil {
			return nil, err
		}
		policy, err := sm.newPolicy(difficulty)
		if err != nil {
			return nil, err
		}
		session.Difficulty = difficulty
		session.policy = policy
	}
	return session, nil
}

// persist caches the snapshot unless the session was removed. Caller holds
// session.mu.
func (sm *SessionManager) persist(ctx context.Context, session *GameSession, snapshot domain.GameSnapshot) {
	if sm.store == nil || session.removed {
		return
	}
	if err := sm.store.Save(ctx, snapshot, sm.ttl); err != nil {
		log.Warn().Err(err).Str("game_id", snapshot.GameID).Msg("[SESSION] Could not cache session")
	}
}

func (sm *SessionManager) forget(ctx context.Context, gameID string) {
	if sm.store == nil {
		return
	}
	if err := sm.store.Delete(ctx, gameID); err != nil {
		log.Warn().Err(err).Str("game_id", gameID).Msg("[SESSION] Could not drop cached session")
	}
}

// botMove asks the policy for a column and plays it. Caller holds gs.mu.
func (gs *GameSession) botMove() (domain.Move, error) {
	if gs.policy == nil {
		return domain.Move{}, fmt.Errorf("session %s has no bot", gs.GameID)
	}

	column, err := gs.policy.ChooseMove(gs.Game.Board)
	if err != nil {
		return domain.Move{}, err
	}

	move, err := gs.Game.MakeMove(domain.Player2, column)
	if err != nil {
		return domain.Move{}, err
	}

	log.Debug().
		Str("game_id", gs.GameID).
		Str("difficulty", string(gs.Difficulty)).
		Int("column", column).
		Msg("[BOT] Bot moved")
	return move, nil
}

func (gs *GameSession) touch(now time.Time) {
	gs.UpdatedAt = now
	if gs.Game.IsFinished() && gs.FinishedAt.IsZero() {
		gs.FinishedAt = now
	}
}

func (gs *GameSession) snapshot() domain.GameSnapshot {
	snapshot := domain.GameSnapshot{
		GameID:        gs.GameID,
		Mode:          gs.Mode,
		Difficulty:    string(gs.Difficulty),
		Board:         gs.Game.Board,
		CurrentPlayer: gs.Game.CurrentPlayer,
		Status:        gs.Game.Status,
		Winner:        gs.Game.Winner,
		MoveCount:     gs.Game.MoveCount,
		LegalMoves:    domain.LegalMoves(gs.Game.Board),
		LastMove:      gs.Game.LastMove,
		CreatedAt:     gs.CreatedAt,
		UpdatedAt:     gs.UpdatedAt,
	}
	if gs.Mode == domain.ModeBot {
		snapshot.BotName = domain.GetBotName(string(gs.Difficulty))
	}

	end := gs.UpdatedAt
	if !gs.FinishedAt.IsZero() {
		finished := gs.FinishedAt
		snapshot.FinishedAt = &finished
		end = finished
	}
	snapshot.DurationSeconds = end.Sub(gs.CreatedAt).Seconds()

	if gs.Game.IsFinished() {
		snapshot.LegalMoves = []int{}
	}
	return snapshot
}
