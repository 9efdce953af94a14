package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/spotdeck/pkg/cache"
	"github.com/matzehuels/spotdeck/pkg/deck"
	"github.com/matzehuels/spotdeck/pkg/errors"
	"github.com/matzehuels/spotdeck/pkg/observability"
	"github.com/matzehuels/spotdeck/pkg/pack"
	"github.com/matzehuels/spotdeck/pkg/symbol"
)

// =============================================================================
// Card Packing
// =============================================================================

// CardResult is the outcome of packing one card.
type CardResult struct {
	Index    int
	Symbols  []int
	Layout   *pack.Layout // nil when Err is set
	Stats    pack.Stats   // zero on a cache hit
	Cached   bool
	Duration time.Duration
	File     string // set once the card has been written
	Err      error
}

// CardFunc is called for every successfully packed card, from the worker
// that packed it.
type CardFunc func(ctx context.Context, c *CardResult) error

// PackCard packs one card with caching. card is the 0-based index that
// selects the card's random stream.
func (r *Runner) PackCard(ctx context.Context, card int, symbols []*symbol.Symbol, opts Options) (*pack.Layout, bool, error) {
	if err := opts.ValidateForPack(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)
	res := r.packCard(ctx, card, symbols, symbolHashes(symbols), opts)
	return res.Layout, res.Cached, res.Err
}

// PackDeck packs every card of table in parallel, bounded by opts.Workers.
// Each card uses its own random stream, so the result does not depend on
// scheduling. then, if not nil, runs after each successful pack.
//
// A card that cannot be packed yields a [*CardError]. With opts.KeepGoing the
// error is recorded in that card's result and the others continue; otherwise
// the first failure cancels the remaining cards and is returned.
func (r *Runner) PackDeck(ctx context.Context, table deck.Table, pool *symbol.Pool, opts Options, then CardFunc) ([]CardResult, error) {
	if err := opts.ValidateForPack(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	all := pool.All()
	hashes := symbolHashes(all)
	results := make([]CardResult, table.Len())

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i, card := range table.Cards() {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			symbols, err := pool.Symbols(card)
			if err != nil {
				return err
			}
			cardHashes := make([]string, len(card))
			for j, s := range card {
				cardHashes[j] = hashes[s]
			}

			res := r.packCard(gctx, i, symbols, cardHashes, opts)
			res.Symbols = card
			results[i] = res
			if res.Err != nil {
				cerr := &CardError{Card: i, Symbols: card, Err: res.Err}
				results[i].Err = cerr
				if opts.KeepGoing {
					opts.Logger.Warn("card failed", "card", i+1, "err", errors.UserMessage(res.Err))
					return nil
				}
				return cerr
			}
			if then == nil {
				return nil
			}
			// A failed sibling cancels gctx and cuts this search short.
			if err := gctx.Err(); err != nil {
				return err
			}
			return then(gctx, &results[i])
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *Runner) packCard(ctx context.Context, card int, symbols []*symbol.Symbol, hashes []string, opts Options) CardResult {
	start := time.Now()
	res := CardResult{Index: card}
	hooks := observability.Pipeline()
	hooks.OnPackStart(ctx, card, len(symbols))

	key := r.Keyer.LayoutKey(opts.LayoutKeyOpts(card, hashes))
	if !opts.Refresh {
		if l, ok := r.cachedLayout(ctx, key, symbols); ok {
			res.Layout, res.Cached, res.Duration = l, true, time.Since(start)
			opts.Logger.Debug("layout from cache", "card", card+1)
			hooks.OnPackComplete(ctx, card, 0, res.Duration, nil)
			return res
		}
	}

	packCtx := ctx
	if opts.CardTimeout > 0 {
		var cancel context.CancelFunc
		packCtx, cancel = context.WithTimeout(ctx, opts.CardTimeout)
		defer cancel()
	}

	popts := opts.PackOptions()
	popts.Warn = func(err error) {
		opts.Logger.Warn("degenerate symbol", "card", card+1, "err", errors.UserMessage(err))
	}
	l, stats, err := pack.PackContext(packCtx, symbols, popts, pack.NewRand(opts.Seed, card))
	res.Duration = time.Since(start)
	hooks.OnPackComplete(ctx, card, stats.AcceptedTotal(), res.Duration, err)
	if err != nil {
		res.Err = err
		return res
	}
	res.Layout, res.Stats = l, stats

	// Only complete searches are cached; a timed-out layout would otherwise
	// be returned for a run that could have done better.
	if packCtx.Err() == nil {
		if data, err := json.Marshal(l); err == nil {
			_ = r.Cache.Set(ctx, key, data, cache.TTLLayout)
		}
	}
	opts.Logger.Debug("packed card",
		"card", card+1,
		"accepted", stats.AcceptedTotal(),
		"attempts", stats.Attempts,
		"coverage", l.Coverage(),
		"duration", res.Duration)
	return res
}

// cachedLayout returns the layout stored under key if it decodes and still
// validates against symbols.
func (r *Runner) cachedLayout(ctx context.Context, key string, symbols []*symbol.Symbol) (*pack.Layout, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		return nil, false
	}
	var l pack.Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, false
	}
	if err := pack.Validate(&l, symbols); err != nil {
		return nil, false
	}
	return &l, true
}

func symbolHashes(symbols []*symbol.Symbol) []string {
	out := make([]string, len(symbols))
	for i, s := range symbols {
		out[i] = cache.HashImage(s.Image())
	}
	return out
}
