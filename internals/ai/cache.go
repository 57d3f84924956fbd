package ai

import (
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru"
)

// ScoreCache stores root scores per position and config. Scores are a pure
// function of both, so a hit skips the search while tie-breaks and
// difficulty randomness are still rolled fresh.
type ScoreCache interface {
	Get(key string) ([]ScoredMove, bool)
	Add(key string, scores []ScoredMove)
}

type LRUScoreCache struct {
	cache *lru.Cache
}

func NewLRUScoreCache(size int) (*LRUScoreCache, error) {
	c, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &LRUScoreCache{cache: c}, nil
}

func (c *LRUScoreCache) Get(key string) ([]ScoredMove, bool) {
	v, ok := c.cache.Get(key)
	if !ok {
		return nil, false
	}
	return v.([]ScoredMove), true
}

func (c *LRUScoreCache) Add(key string, scores []ScoredMove) {
	c.cache.Add(key, scores)
}

func (c *LRUScoreCache) Len() int { return c.cache.Len() }

func cacheKey(b *Board, cfg SearchConfig) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d/%d/%d/%d/%t/%d:", cfg.BoardSize, cfg.PlayerCount, cfg.MaxDepth, b.player, cfg.Pruning, b.round)
	for _, p := range b.cells {
		fmt.Fprintf(&sb, "%d,", p)
	}
	return sb.String()
}
