// Package docstore keeps per-user collections of schemaless documents in a
// single table and pushes live snapshots to subscribers on every change.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"lifemate/cmd/internal/domain/entity"
	"lifemate/cmd/internal/utils"
	"sort"
)

var (
	ErrNotFound     = errors.New("document not found")
	ErrMissingOwner = errors.New("filter needs an owner uid")
)

const (
	OpCreate = "create"
	OpDelete = "delete"
)

// Filter selects documents by owner and, optionally, by field equality.
type Filter struct {
	UID    string
	Equals map[string]any
}

// Change describes one write. Subscribers of (Collection, UID) refetch.
type Change struct {
	Collection string `json:"collection"`
	UID        string `json:"uid"`
	ID         string `json:"id"`
	Op         string `json:"op"`
}

// Notifier distributes changes to the hub, possibly by way of other
// processes.
type Notifier interface {
	Publish(ctx context.Context, change Change) error
}

type Store struct {
	db       *gorm.DB
	hub      *Hub
	notifier Notifier
}

// New builds a store. With a nil notifier changes go straight to hub.
func New(db *gorm.DB, hub *Hub, notifier Notifier) *Store {
	if notifier == nil {
		notifier = hub
	}
	return &Store{db: db, hub: hub, notifier: notifier}
}

func (s *Store) Create(ctx context.Context, collection, uid string, fields map[string]any) (string, error) {
	if uid == "" {
		return "", ErrMissingOwner
	}

	doc := &entity.Document{
		ID:         uuid.NewString(),
		Collection: collection,
		UID:        uid,
		Fields:     datatypes.JSONMap(fields),
		CreatedAt:  utils.NowUTC(),
	}
	if err := s.db.WithContext(ctx).Create(doc).Error; err != nil {
		return "", fmt.Errorf("create %s document: %w", collection, err)
	}

	s.publish(ctx, Change{Collection: collection, UID: uid, ID: doc.ID, Op: OpCreate})
	return doc.ID, nil
}

// Delete removes the document only if uid owns it.
func (s *Store) Delete(ctx context.Context, collection, uid, id string) error {
	if uid == "" {
		return ErrMissingOwner
	}

	res := s.db.WithContext(ctx).
		Where("collection = ? AND uid = ? AND id = ?", collection, uid, id).
		Delete(&entity.Document{})
	if res.Error != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}

	s.publish(ctx, Change{Collection: collection, UID: uid, ID: id, Op: OpDelete})
	return nil
}

func (s *Store) Get(ctx context.Context, collection, uid, id string) (*entity.Document, error) {
	var doc entity.Document
	err := s.db.WithContext(ctx).
		Where("collection = ? AND uid = ? AND id = ?", collection, uid, id).
		First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return &doc, nil
}

// Fetch returns a one-shot snapshot in store order (creation time, then id).
func (s *Store) Fetch(ctx context.Context, collection string, filter Filter) ([]*entity.Document, error) {
	if filter.UID == "" {
		return nil, ErrMissingOwner
	}

	q := s.db.WithContext(ctx).Where("collection = ? AND uid = ?", collection, filter.UID)

	keys := make([]string, 0, len(filter.Equals))
	for key := range filter.Equals {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		q = q.Where(datatypes.JSONQuery("fields").Equals(filter.Equals[key], key))
	}

	var docs []*entity.Document
	err := q.Order("created_at asc").Order("id asc").Find(&docs).Error
	if err != nil {
		return nil, fmt.Errorf("fetch %s for %s: %w", collection, filter.UID, err)
	}
	return docs, nil
}

// Subscribe delivers the current snapshot to fn before returning, then a
// fresh snapshot after every change to the collection for filter.UID.
// fn runs on the subscription's own goroutine and must not call Close.
func (s *Store) Subscribe(ctx context.Context, collection string, filter Filter, fn func([]*entity.Document)) (*Subscription, error) {
	if filter.UID == "" {
		return nil, ErrMissingOwner
	}

	sub := newSubscription(ctx, collection, filter, fn, s.Fetch, s.hub.remove)
	s.hub.add(sub)

	docs, err := s.Fetch(ctx, collection, filter)
	if err != nil {
		sub.Close()
		return nil, err
	}
	sub.deliver(docs)

	go sub.run()
	return sub, nil
}

func (s *Store) publish(ctx context.Context, change Change) {
	if err := s.notifier.Publish(ctx, change); err != nil {
		log.Warnf("failed to publish %s change for %s/%s: %v", change.Op, change.Collection, change.ID, err)
	}
}
