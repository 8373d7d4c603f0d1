package repository

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/zimstream/stream-ops-service/internal/store"
)

// core is the shared state every collection repository operates on: one
// injected store client and a logger.
type core struct {
	store store.Store
	log   zerolog.Logger
}

// Repositories bundles every collection repository over one injected store
// client. Construct once at startup; all repositories are safe for
// concurrent use as long as the underlying store is.
type Repositories struct {
	c *core

	Leagues         *LeagueRepo
	Teams           *TeamRepo
	Fixtures        *FixtureRepo
	Results         *ResultRepo
	Channels        *ChannelRepo
	Sessions        *ViewerSessionRepo
	Subscriptions   *SubscriptionRepo
	Comments        *CommentRepo
	MatchPopularity *MatchPopularityRepo
	Users           *UserRepo
	Transactions    *TransactionRepo
}

func New(s store.Store, logger zerolog.Logger) *Repositories {
	c := &core{
		store: s,
		log:   logger.With().Str("module", "repository").Logger(),
	}
	return &Repositories{
		c:               c,
		Leagues:         &LeagueRepo{c: c},
		Teams:           &TeamRepo{c: c},
		Fixtures:        &FixtureRepo{c: c},
		Results:         &ResultRepo{c: c},
		Channels:        &ChannelRepo{c: c},
		Sessions:        &ViewerSessionRepo{c: c},
		Subscriptions:   &SubscriptionRepo{c: c},
		Comments:        &CommentRepo{c: c},
		MatchPopularity: &MatchPopularityRepo{c: c},
		Users:           &UserRepo{c: c},
		Transactions:    &TransactionRepo{c: c},
	}
}

// Ping probes store reachability for readiness checks.
func (r *Repositories) Ping(ctx context.Context) error {
	return MapStoreError(r.c.store.Ping(ctx))
}

// Compile-time checks that each repo satisfies its contract.
var (
	_ Pinger                    = (*Repositories)(nil)
	_ LeagueRepository          = (*LeagueRepo)(nil)
	_ TeamRepository            = (*TeamRepo)(nil)
	_ FixtureRepository         = (*FixtureRepo)(nil)
	_ ResultRepository          = (*ResultRepo)(nil)
	_ ChannelRepository         = (*ChannelRepo)(nil)
	_ ViewerSessionRepository   = (*ViewerSessionRepo)(nil)
	_ SubscriptionRepository    = (*SubscriptionRepo)(nil)
	_ CommentRepository         = (*CommentRepo)(nil)
	_ MatchPopularityRepository = (*MatchPopularityRepo)(nil)
	_ UserRepository            = (*UserRepo)(nil)
	_ TransactionRepository     = (*TransactionRepo)(nil)
	_ SnapshotFetcher           = (*Repositories)(nil)
)

// listDocs fetches a collection and decodes each raw document. Documents
// that fail to decode or validate are logged and skipped.
func listDocs[D, M any](ctx context.Context, c *core, collection string, q store.Query, conv func(D) (M, error)) ([]M, error) {
	raws, err := c.store.ListDocuments(ctx, collection, q)
	if err != nil {
		return nil, MapStoreError(err)
	}
	out := make([]M, 0, len(raws))
	for _, raw := range raws {
		m, err := decodeDoc(c, collection, raw, conv)
		if err != nil {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

// decodeDoc unmarshals one raw document and converts it to its model.
func decodeDoc[D, M any](c *core, collection string, raw json.RawMessage, conv func(D) (M, error)) (M, error) {
	var zero M
	var d D
	if err := json.Unmarshal(raw, &d); err != nil {
		c.log.Warn().Err(err).Str("collection", collection).Msg("skipping undecodable document")
		return zero, err
	}
	m, err := conv(d)
	if err != nil {
		c.log.Warn().Err(err).Str("collection", collection).Msg("skipping malformed document")
		return zero, err
	}
	return m, nil
}

// createDoc writes a document and decodes the stored representation back.
func createDoc[D, M any](ctx context.Context, c *core, collection, id string, payload any, conv func(D) (M, error)) (M, error) {
	var zero M
	raw, err := c.store.CreateDocument(ctx, collection, id, payload)
	if err != nil {
		return zero, MapStoreError(err)
	}
	return decodeDoc(c, collection, raw, conv)
}

// updateDoc applies a partial document and decodes the updated one.
func updateDoc[D, M any](ctx context.Context, c *core, collection, id string, patch any, conv func(D) (M, error)) (M, error) {
	var zero M
	raw, err := c.store.UpdateDocument(ctx, collection, id, patch)
	if err != nil {
		return zero, MapStoreError(err)
	}
	return decodeDoc(c, collection, raw, conv)
}

func (c *core) deleteDoc(ctx context.Context, collection, id string) error {
	return MapStoreError(c.store.DeleteDocument(ctx, collection, id))
}
