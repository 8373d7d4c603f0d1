package repository

import (
	"context"
	"time"

	"github.com/zimstream/stream-ops-service/internal/model"
	"github.com/zimstream/stream-ops-service/internal/store"
)

// ChannelRepo persists broadcast channel documents.
type ChannelRepo struct{ c *core }

func (r *ChannelRepo) List(ctx context.Context) ([]model.Channel, error) {
	q := store.Query{Order: []store.Order{store.OrderAsc("name")}}
	return listDocs(ctx, r.c, store.CollectionChannels, q, channelDoc.toModel)
}

func (r *ChannelRepo) Create(ctx context.Context, ch model.Channel) (model.Channel, error) {
	payload := map[string]any{
		"name":   ch.Name,
		"isLive": ch.IsLive,
	}
	if ch.StreamURL != "" {
		payload["streamUrl"] = ch.StreamURL
	}
	if ch.FixtureID != "" {
		payload["fixtureId"] = ch.FixtureID
	}
	return createDoc(ctx, r.c, store.CollectionChannels, ch.ID, payload, channelDoc.toModel)
}

func (r *ChannelRepo) Update(ctx context.Context, id string, patch map[string]any) (model.Channel, error) {
	return updateDoc(ctx, r.c, store.CollectionChannels, id, patch, channelDoc.toModel)
}

func (r *ChannelRepo) Delete(ctx context.Context, id string) error {
	return r.c.deleteDoc(ctx, store.CollectionChannels, id)
}

// ViewerSessionRepo persists viewer session documents.
type ViewerSessionRepo struct{ c *core }

func (r *ViewerSessionRepo) List(ctx context.Context, f SessionFilter) ([]model.ViewerSession, error) {
	q := store.Query{Order: []store.Order{store.OrderDesc(store.FieldCreatedAt)}}
	if f.ChannelID != "" {
		q.Filters = append(q.Filters, store.Equal("channelId", f.ChannelID))
	}
	if f.IsActive != nil {
		q.Filters = append(q.Filters, store.Equal("isActive", *f.IsActive))
	}
	return listDocs(ctx, r.c, store.CollectionViewerSessions, q, viewerSessionDoc.toModel)
}

func (r *ViewerSessionRepo) Create(ctx context.Context, s model.ViewerSession) (model.ViewerSession, error) {
	payload := map[string]any{
		"channelId":  s.ChannelID,
		"startTime":  s.StartTime.UTC().Format(time.RFC3339),
		"isActive":   s.IsActive,
		"deviceType": s.DeviceType,
	}
	if s.UserID != "" {
		payload["userId"] = s.UserID
	}
	if s.Location != "" {
		payload["location"] = s.Location
	}
	if s.EndTime != nil {
		payload["endTime"] = s.EndTime.UTC().Format(time.RFC3339)
	}
	if s.Duration != nil {
		payload["duration"] = *s.Duration
	}
	return createDoc(ctx, r.c, store.CollectionViewerSessions, s.ID, payload, viewerSessionDoc.toModel)
}

// End closes an active session in a single partial update.
func (r *ViewerSessionRepo) End(ctx context.Context, id string, durationSec int) (model.ViewerSession, error) {
	patch := map[string]any{
		"endTime":  time.Now().UTC().Format(time.RFC3339),
		"isActive": false,
		"duration": durationSec,
	}
	return updateDoc(ctx, r.c, store.CollectionViewerSessions, id, patch, viewerSessionDoc.toModel)
}

// CommentRepo persists channel comment documents.
type CommentRepo struct{ c *core }

func (r *CommentRepo) List(ctx context.Context, f CommentFilter) ([]model.Comment, error) {
	q := store.Query{Order: []store.Order{store.OrderDesc(store.FieldCreatedAt)}}
	if f.ChannelID != "" {
		q.Filters = append(q.Filters, store.Equal("channelId", f.ChannelID))
	}
	if f.MatchID != "" {
		q.Filters = append(q.Filters, store.Equal("matchId", f.MatchID))
	}
	return listDocs(ctx, r.c, store.CollectionComments, q, commentDoc.toModel)
}

func (r *CommentRepo) Create(ctx context.Context, cm model.Comment) (model.Comment, error) {
	payload := map[string]any{
		"channelId":        cm.ChannelID,
		"userId":           cm.UserID,
		"content":          cm.Content,
		"moderationStatus": cm.ModerationStatus,
	}
	return createDoc(ctx, r.c, store.CollectionComments, cm.ID, payload, commentDoc.toModel)
}

func (r *CommentRepo) UpdateModeration(ctx context.Context, id, status string) (model.Comment, error) {
	return updateDoc(ctx, r.c, store.CollectionComments, id, map[string]any{"moderationStatus": status}, commentDoc.toModel)
}

// MatchPopularityRepo persists precomputed match popularity records.
type MatchPopularityRepo struct{ c *core }

func (r *MatchPopularityRepo) List(ctx context.Context) ([]model.MatchPopularity, error) {
	q := store.Query{Order: []store.Order{store.OrderDesc("totalViewers")}}
	return listDocs(ctx, r.c, store.CollectionMatchPopularity, q, matchPopularityDoc.toModel)
}

func (r *MatchPopularityRepo) Create(ctx context.Context, p model.MatchPopularity) (model.MatchPopularity, error) {
	payload := map[string]any{
		"matchId":         p.MatchID,
		"homeTeam":        p.HomeTeam,
		"awayTeam":        p.AwayTeam,
		"totalViewers":    p.TotalViewers,
		"peakViewers":     p.PeakViewers,
		"averageViewTime": p.AverageViewTime,
		"totalComments":   p.TotalComments,
		"engagementScore": p.EngagementScore,
		"date":            p.Date.UTC().Format(time.RFC3339),
	}
	return createDoc(ctx, r.c, store.CollectionMatchPopularity, p.ID, payload, matchPopularityDoc.toModel)
}
