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

type FridgeFeed interface {
	Subscribe(ctx context.Context, uid string, fn func([]*entity.FridgeItem)) (*docstore.Subscription, error)
}

type FridgeActions interface {
	AddItem(ctx context.Context, req *service.FridgeItemRequest, uid string) (*service.FridgeItemResponse, apierror.ErrorResponse)
	RemoveItem(ctx context.Context, id, uid string) (*service.RemoveFridgeItemResponse, apierror.ErrorResponse)
}

type FridgeEntry struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	ExpiryDate *string `json:"expiry_date"`
}

type FridgeState struct {
	SignedIn bool           `json:"signed_in"`
	Items    []*FridgeEntry `json:"items"`
}

type FridgeView struct {
	base
	feed    FridgeFeed
	actions FridgeActions

	items []*entity.FridgeItem
}

func NewFridgeView(sess *session.Session, feed FridgeFeed, actions FridgeActions, listener Listener) *FridgeView {
	v := &FridgeView{feed: feed, actions: actions}
	v.start(sess, listener, v.snapshotState, v.open)
	return v
}

func (v *FridgeView) open(gen uint64, uid string) []func() {
	v.update(gen, func() { v.items = nil })
	if uid == "" {
		return nil
	}

	sub, err := v.feed.Subscribe(v.ctx, uid, func(items []*entity.FridgeItem) {
		v.update(gen, func() { v.items = items })
	})
	if err != nil {
		log.Errorf("failed to subscribe to fridge of %s: %v", uid, err)
		return nil
	}
	return []func(){sub.Close}
}

func (v *FridgeView) snapshotState() any {
	entries := make([]*FridgeEntry, len(v.items))
	for i, item := range v.items {
		entry := &FridgeEntry{ID: item.ID, Name: item.Name}
		if item.HasExpiry() {
			expiry := *item.ExpiryDate
			entry.ExpiryDate = &expiry
		}
		entries[i] = entry
	}
	return &FridgeState{SignedIn: v.signedIn(), Items: entries}
}

// Add puts name in the fridge. A non-empty expiryDate also books the
// expiry reminder.
func (v *FridgeView) Add(ctx context.Context, name, expiryDate string) error {
	uid, _, err := v.current()
	if err != nil {
		return err
	}
	if strings.TrimSpace(name) == "" {
		return ErrEmptyInput
	}

	req := &service.FridgeItemRequest{Name: name}
	if expiryDate != "" {
		req.ExpiryDate = &expiryDate
	}
	if _, apierr := v.actions.AddItem(ctx, req, uid); apierr != nil {
		return apierr
	}
	return nil
}

// Remove takes the item out and drops every reminder carrying its name.
func (v *FridgeView) Remove(ctx context.Context, id string) error {
	uid, _, err := v.current()
	if err != nil {
		return err
	}
	if _, apierr := v.actions.RemoveItem(ctx, id, uid); apierr != nil {
		return apierr
	}
	return nil
}
