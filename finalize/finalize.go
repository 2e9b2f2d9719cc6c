// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package finalize

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/danielhkuo/chowsr/consensus"
	"github.com/danielhkuo/chowsr/models"
	"github.com/danielhkuo/chowsr/store"
)

// ResultSender delivers the decided restaurant to one member
type ResultSender interface {
	SendResult(ctx context.Context, group models.Group, restaurant models.Restaurant, member models.Member) error
}

// State is a group together with everything its status was computed from
type State struct {
	Group       models.Group
	Members     []models.Member
	Restaurants []models.Restaurant
	Summary     models.VoteSummary
	Status      models.GroupStatus
}

type Finalizer struct {
	store  *store.Store
	sender ResultSender
	log    *zap.Logger

	// Now is the clock used for deadlines and timestamps
	Now func() time.Time
}

func New(st *store.Store, sender ResultSender, log *zap.Logger) *Finalizer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Finalizer{
		store:  st,
		sender: sender,
		log:    log,
		Now:    time.Now,
	}
}

// Evaluate loads the group's members, restaurants and votes and computes
// its status. It writes nothing.
func (f *Finalizer) Evaluate(ctx context.Context, group models.Group) (State, error) {
	members, err := f.store.ListMembers(ctx, group.ID)
	if err != nil {
		return State{}, err
	}
	restaurants, err := f.store.ListRestaurants(ctx, group.ID)
	if err != nil {
		return State{}, err
	}
	summary, err := f.store.VoteSummary(ctx, group.ID)
	if err != nil {
		return State{}, err
	}

	status := consensus.Compute(consensus.Input{
		Group:       group,
		MemberCount: len(members),
		Summary:     summary,
		Restaurants: restaurants,
	}, f.Now())

	return State{
		Group:       group,
		Members:     members,
		Restaurants: restaurants,
		Summary:     summary,
		Status:      status,
	}, nil
}

// Finalize closes the group once voting is complete and sends the result
// notification at most once. A group that is already closed and notified
// is left untouched. Only read errors are returned; failed writes and
// sends are logged.
func (f *Finalizer) Finalize(ctx context.Context, group models.Group) (State, error) {
	state, err := f.Evaluate(ctx, group)
	if err != nil {
		return State{}, err
	}
	if !state.Status.VotingComplete {
		return state, nil
	}

	log := f.log.With(zap.String("group_id", group.ID), zap.String("group_code", group.Code))
	changed := false

	if group.Status != models.StatusClosed {
		closed, err := f.store.CloseGroup(ctx, group.ID, state.Status.WinnerRestaurantID, f.Now())
		if err != nil {
			log.Error("close group failed", zap.Error(err))
			return state, nil
		}
		if closed {
			log.Info("group closed", zap.Stringp("winner", state.Status.WinnerRestaurantID))
		}
		changed = true
	}

	// Another request may have closed it first; use the stored decision
	if changed {
		if group, err = f.store.GetGroup(ctx, group.ID); err != nil {
			return State{}, err
		}
	}

	if group.DecidedRestaurantID != nil && group.ResultSentAt == nil {
		f.notify(ctx, log, group, state.Members)
		changed = true
	}

	if !changed {
		return state, nil
	}

	group, err = f.store.GetGroup(ctx, group.ID)
	if err != nil {
		return State{}, err
	}
	return f.Evaluate(ctx, group)
}

// notify claims the result-sent stamp and, if this caller won it, sends the
// result to every member in parallel.
func (f *Finalizer) notify(ctx context.Context, log *zap.Logger, group models.Group, members []models.Member) {
	claimed, err := f.store.ClaimResultSent(ctx, group.ID, f.Now())
	if err != nil {
		log.Error("claim result notification failed", zap.Error(err))
		return
	}
	if !claimed {
		return
	}

	restaurant, err := f.store.GetRestaurant(ctx, group.ID, *group.DecidedRestaurantID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("decided restaurant missing; skipping result notification",
				zap.String("restaurant_id", *group.DecidedRestaurantID))
		} else {
			log.Error("load decided restaurant failed", zap.Error(err))
		}
		return
	}

	if f.sender == nil {
		return
	}

	// The stamp is already claimed, so a client hang-up must not cut the batch short
	sendCtx := context.WithoutCancel(ctx)

	var g errgroup.Group
	for _, m := range members {
		g.Go(func() error {
			if err := f.sender.SendResult(sendCtx, group, restaurant, m); err != nil {
				log.Warn("result notification failed",
					zap.String("member_id", m.ID),
					zap.String("contact_type", m.ContactType),
					zap.Error(err))
			}
			return nil
		})
	}
	_ = g.Wait()

	log.Info("result notification dispatched",
		zap.String("restaurant_id", restaurant.ID),
		zap.Int("members", len(members)))
}
