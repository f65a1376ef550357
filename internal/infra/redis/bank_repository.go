package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"audit-quiz-service/internal/domain"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// BankLoader fetches question bank content from a backing store.
type BankLoader interface {
	LoadBank(ctx context.Context, segment domain.Segment) (domain.QuestionBank, error)
}

// BankRepository caches segment banks in Redis and falls back to a loader on
// cache miss. Banks are stored whole, as JSON under bank:{segment}, because
// the presentation contract needs prompts and copy, not just option values.
type BankRepository struct {
	client *redis.Client
	loader BankLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewBankRepository(client *redis.Client, loader BankLoader, ttl time.Duration) *BankRepository {
	return &BankRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *BankRepository) GetBank(ctx context.Context, segment domain.Segment) (domain.QuestionBank, error) {
	key := r.bankKey(segment)

	if bank, ok := r.cached(ctx, key); ok {
		return bank, nil
	}

	result, err, _ := r.sf.Do(string(segment), func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if bank, ok := r.cached(ctx, key); ok {
			return bank, nil
		}

		bank, err := r.loader.LoadBank(ctx, segment)
		if err != nil {
			return domain.QuestionBank{}, err
		}

		if raw, err := json.Marshal(bank); err == nil {
			// best-effort fill; a failed SET just means another load later
			_ = r.client.Set(ctx, key, raw, r.ttlWithJitter()).Err()
		}
		return bank, nil
	})
	if err != nil {
		return domain.QuestionBank{}, err
	}
	return result.(domain.QuestionBank), nil
}

func (r *BankRepository) cached(ctx context.Context, key string) (domain.QuestionBank, bool) {
	raw, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		return domain.QuestionBank{}, false
	}
	var bank domain.QuestionBank
	if err := json.Unmarshal(raw, &bank); err != nil {
		return domain.QuestionBank{}, false
	}
	return bank, true
}

func (r *BankRepository) bankKey(segment domain.Segment) string {
	return "quiz:bank:" + string(segment)
}

func (r *BankRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
