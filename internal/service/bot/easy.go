package bot

import (
	"sync"

	"github.com/iamasit07/connect4-ai/internal/domain"
	"golang.org/x/exp/rand"
)

// RandomPolicy is the easy tier: a uniformly random legal column.
type RandomPolicy struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewRandomPolicy(seed uint64) *RandomPolicy {
	return &RandomPolicy{rng: rand.New(rand.NewSource(seed))}
}

func (p *RandomPolicy) ChooseMove(board domain.Board) (int, error) {
	validColumns := domain.LegalMoves(board)
	if len(validColumns) == 0 || domain.IsTerminal(board) {
		return NoColumn, domain.ErrNoLegalMove
	}

	p.mu.Lock()
	idx := p.rng.Intn(len(validColumns))
	p.mu.Unlock()

	return validColumns[idx], nil
}
