package views

import (
	"context"
	"github.com/labstack/gommon/log"
	"lifemate/cmd/internal/domain/docstore"
	"lifemate/cmd/internal/domain/entity"
	"lifemate/cmd/internal/service"
	"lifemate/cmd/internal/session"
	"lifemate/cmd/internal/utils/apierror"
	"strings"
)

type GroceryFeed interface {
	Subscribe(ctx context.Context, uid string, fn func([]*entity.GroceryItem)) (*docstore.Subscription, error)
}

type GroceryActions interface {
	AddItem(ctx context.Context, req *service.GroceryItemRequest, uid string) (*service.GroceryItemResponse, apierror.ErrorResponse)
	RemoveItem(ctx context.Context, id, uid string) apierror.ErrorResponse
}

type GroceryState struct {
	SignedIn bool                           `json:"signed_in"`
	Items    []*service.GroceryItemResponse `json:"items"`
}

type GroceryView struct {
	base
	feed    GroceryFeed
	actions GroceryActions

	items []*entity.GroceryItem
}

func NewGroceryView(sess *session.Session, feed GroceryFeed, actions GroceryActions, listener Listener) *GroceryView {
	v := &GroceryView{feed: feed, actions: actions}
	v.start(sess, listener, v.snapshotState, v.open)
	return v
}

func (v *GroceryView) open(gen uint64, uid string) []func() {
	v.update(gen, func() { v.items = nil })
	if uid == "" {
		return nil
	}

	sub, err := v.feed.Subscribe(v.ctx, uid, func(items []*entity.GroceryItem) {
		v.update(gen, func() { v.items = items })
	})
	if err != nil {
		log.Errorf("failed to subscribe to grocery list of %s: %v", uid, err)
		return nil
	}
	return []func(){sub.Close}
}

func (v *GroceryView) snapshotState() any {
	items := make([]*service.GroceryItemResponse, len(v.items))
	for i, item := range v.items {
		items[i] = &service.GroceryItemResponse{ID: item.ID, Name: item.Name}
	}
	return &GroceryState{SignedIn: v.signedIn(), Items: items}
}

func (v *GroceryView) Add(ctx context.Context, name string) error {
	uid, _, err := v.current()
	if err != nil {
		return err
	}
	if strings.TrimSpace(name) == "" {
		return ErrEmptyInput
	}
	if _, apierr := v.actions.AddItem(ctx, &service.GroceryItemRequest{Name: name}, uid); apierr != nil {
		return apierr
	}
	return nil
}

func (v *GroceryView) Remove(ctx context.Context, id string) error {
	uid, _, err := v.current()
	if err != nil {
		return err
	}
	if apierr := v.actions.RemoveItem(ctx, id, uid); apierr != nil {
		return apierr
	}
	return nil
}
