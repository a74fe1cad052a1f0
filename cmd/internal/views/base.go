// Package views holds the per-page state of the app. A view follows a
// session: every sign-in or sign-out drops what the view held for the old
// user and opens fresh subscriptions for the new one. After Close a view
// never changes or publishes again, even when requests it started finish
// later.
package views

import (
	"context"
	"errors"
	"lifemate/cmd/internal/session"
	"sync"
)

var (
	ErrClosed     = errors.New("view is closed")
	ErrEmptyInput = errors.New("nothing to submit")
	ErrNotFound   = errors.New("no such entry")
)

// Listener receives a view's state after every change.
type Listener func(state any)

// opener runs on every identity change and returns what to release on the
// next one. uid is empty while signed out.
type opener func(gen uint64, uid string) []func()

type base struct {
	sess     *session.Session
	listener Listener
	snapshot func() any

	ctx    context.Context
	cancel context.CancelFunc

	// publishMu keeps listener calls in the order of the changes
	publishMu sync.Mutex

	mu        sync.Mutex
	closed    bool
	uid       string
	gen       uint64
	release   []func()
	unwatch   func()
	closeOnce sync.Once
}

// start wires the view to sess. snapshot is called with mu held.
func (b *base) start(sess *session.Session, listener Listener, snapshot func() any, open opener) {
	b.sess = sess
	b.listener = listener
	b.snapshot = snapshot
	b.ctx, b.cancel = context.WithCancel(context.Background())

	unwatch := sess.Watch(func(user *session.User) {
		uid := ""
		if user != nil {
			uid = user.UID
		}
		b.switchUser(uid, open)
	})

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		unwatch()
		return
	}
	b.unwatch = unwatch
	b.mu.Unlock()
}

func (b *base) switchUser(uid string, open opener) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.gen++
	gen := b.gen
	b.uid = uid
	old := b.release
	b.release = nil
	b.mu.Unlock()

	// subscriptions wait for running callbacks, so never close under mu
	for _, release := range old {
		release()
	}

	acquired := open(gen, uid)

	b.mu.Lock()
	if b.closed || b.gen != gen {
		b.mu.Unlock()
		for _, release := range acquired {
			release()
		}
		return
	}
	b.release = append(b.release, acquired...)
	b.mu.Unlock()
}

// current returns the signed-in uid and the generation it belongs to.
func (b *base) current() (string, uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return "", 0, ErrClosed
	}
	if b.uid == "" {
		return "", 0, session.ErrNotSignedIn
	}
	return b.uid, b.gen, nil
}

// update applies fn and publishes, unless the view closed or the user
// changed since gen. It reports whether fn ran.
func (b *base) update(gen uint64, fn func()) bool {
	b.mu.Lock()
	if b.closed || b.gen != gen {
		b.mu.Unlock()
		return false
	}
	fn()
	b.mu.Unlock()

	b.publish()
	return true
}

// change applies fn for whoever is signed in right now.
func (b *base) change(fn func()) bool {
	b.mu.Lock()
	gen := b.gen
	b.mu.Unlock()
	return b.update(gen, fn)
}

// read runs fn under mu so it can copy fields out.
func (b *base) read(fn func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fn()
}

func (b *base) publish() {
	b.publishMu.Lock()
	defer b.publishMu.Unlock()

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	state := b.snapshot()
	b.mu.Unlock()

	if b.listener != nil {
		b.listener(state)
	}
}

// State returns the current snapshot.
func (b *base) State() any {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshot()
}

// Close releases the session watch and every subscription. Once it
// returns the listener is not called again. Later calls do nothing. The
// listener must not call Close.
func (b *base) Close() {
	b.closeOnce.Do(func() {
		b.mu.Lock()
		b.closed = true
		release := b.release
		b.release = nil
		unwatch := b.unwatch
		b.mu.Unlock()

		b.cancel()
		if unwatch != nil {
			unwatch()
		}
		for _, r := range release {
			r()
		}

		// wait out a publish that read its state before closed was set
		b.publishMu.Lock()
		b.publishMu.Unlock()
	})
}

func (b *base) signedIn() bool {
	return b.uid != ""
}
