// Package cart holds the cart reconciliation engine: the in-memory cart
// for the current session, the guest/account merge protocol that runs on
// every session transition, and best-effort persistence of mutations to
// whichever store is authoritative.
package cart

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/prashant0268/shamyraweb/internal/domain"
	"github.com/prashant0268/shamyraweb/internal/identity"
	"github.com/prashant0268/shamyraweb/internal/localstore"
	"github.com/prashant0268/shamyraweb/internal/repository"
)

var ErrInvalidQuantity = errors.New("quantity must be at least 1")

const storeTimeout = 10 * time.Second

// RemoteStore is the account-bound cart record.
// Consumers define this interface, not the MongoDB implementation.
type RemoteStore interface {
	GetCart(ctx context.Context, userID string) (*domain.Cart, error)
	UpsertCart(ctx context.Context, cart *domain.Cart) error
}

// LocalStore is the device-local guest cart blob.
type LocalStore interface {
	Get(ctx context.Context, deviceID string) ([]domain.LineItem, error)
	Set(ctx context.Context, deviceID string, items []domain.LineItem) error
	Remove(ctx context.Context, deviceID string) error
}

// Engine owns the in-memory cart for one device. Store I/O runs in
// background goroutines; mutations apply to the in-memory cart
// immediately and persistence follows best-effort. Store failures never
// roll the cart back, they are logged and surfaced on Errs.
type Engine struct {
	deviceID string
	remote   RemoteStore
	local    LocalStore
	log      *slog.Logger

	mu      sync.Mutex
	session identity.Session
	items   []domain.LineItem
	loaded  bool
	dirty   bool
	gen     uint64

	notify      chan struct{}
	done        chan struct{}
	errs        chan error
	unsubscribe func()
}

func NewEngine(deviceID string, remote RemoteStore, local LocalStore, log *slog.Logger) *Engine {
	e := &Engine{
		deviceID: deviceID,
		remote:   remote,
		local:    local,
		log:      log.With("device_id", deviceID),
		notify:   make(chan struct{}, 1),
		done:     make(chan struct{}),
		errs:     make(chan error, 16),
	}
	go e.saver()
	return e
}

// Attach subscribes the engine to session changes and resolves the
// provider's current session as the startup transition.
func (e *Engine) Attach(p identity.Provider) {
	e.unsubscribe = p.Subscribe(e.OnSessionChange)
	e.OnSessionChange(p.Current())
}

func (e *Engine) Close() {
	if e.unsubscribe != nil {
		e.unsubscribe()
	}
	close(e.done)
}

// Errs surfaces persistence failures to whoever wants to observe them.
// Sends never block; when nobody drains the channel, failures are still
// logged.
func (e *Engine) Errs() <-chan error {
	return e.errs
}

// OnSessionChange switches the authoritative store for the cart. The
// load-and-merge runs in the background; until it completes, mutations
// apply in memory only and their persistence is deferred. A newer
// session change supersedes any load still in flight.
func (e *Engine) OnSessionChange(s identity.Session) {
	e.mu.Lock()
	e.session = s
	e.loaded = false
	e.dirty = false
	e.items = nil
	e.gen++
	gen := e.gen
	e.mu.Unlock()

	go e.load(gen, s)
}

func (e *Engine) load(gen uint64, s identity.Session) {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	if !s.Authenticated() {
		e.commit(gen, s, e.loadLocal(ctx))
		return
	}

	remoteItems := e.loadRemote(ctx, s.UserID)

	localItems, err := e.local.Get(ctx, e.deviceID)
	if err != nil {
		if !errors.Is(err, localstore.ErrNotFound) {
			e.log.Error("guest cart read failed during merge", "error", err)
			e.report(err)
		}
		e.commit(gen, s, remoteItems)
		return
	}
	if len(localItems) == 0 {
		e.commit(gen, s, remoteItems)
		return
	}

	merged := Merge(remoteItems, localItems)

	// The guest cart is dropped only once the merged cart is confirmed
	// on the server; if the write fails the guest copy survives for the
	// next login.
	if err := e.saveRemote(ctx, s.UserID, merged); err != nil {
		e.log.Error("merged cart write failed, keeping guest cart", "user_id", s.UserID, "error", err)
		e.report(err)
	} else if err := e.local.Remove(ctx, e.deviceID); err != nil {
		e.log.Error("guest cart clear failed after merge", "error", err)
		e.report(err)
	}

	e.commit(gen, s, merged)
}

// commit installs the loaded baseline and flips the loaded gate.
// Mutations issued while the load was in flight sit in e.items; they are
// folded into the baseline with the same merge rules and persisted now
// that the engine knows the authoritative store.
func (e *Engine) commit(gen uint64, s identity.Session, base []domain.LineItem) {
	e.mu.Lock()

	if gen != e.gen {
		// A newer session change superseded this load.
		e.mu.Unlock()
		return
	}

	pending := e.items
	if len(pending) > 0 {
		base = Merge(base, pending)
	}
	e.items = base
	e.loaded = true

	if len(pending) > 0 {
		e.persistLocked()
	}
	e.mu.Unlock()
}

func (e *Engine) loadLocal(ctx context.Context) []domain.LineItem {
	items, err := e.local.Get(ctx, e.deviceID)
	if err != nil {
		if !errors.Is(err, localstore.ErrNotFound) {
			e.log.Error("guest cart read failed", "error", err)
			e.report(err)
		}
		return nil
	}
	return items
}

// loadRemote swallows store failures: the engine proceeds with the best
// available data, which on a read failure is an empty cart.
func (e *Engine) loadRemote(ctx context.Context, userID string) []domain.LineItem {
	cart, err := e.remote.GetCart(ctx, userID)
	if err != nil {
		if !errors.Is(err, repository.ErrCartNotFound) {
			e.log.Error("remote cart read failed", "user_id", userID, "error", err)
			e.report(err)
		}
		return nil
	}
	return cart.Items
}

func (e *Engine) saveRemote(ctx context.Context, userID string, items []domain.LineItem) error {
	return e.remote.UpsertCart(ctx, &domain.Cart{
		UserID: userID,
		Items:  items,
	})
}

// AddToCart appends a line item built from the product, or bumps the
// quantity when the product is already in the cart.
func (e *Engine) AddToCart(p domain.Product, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	found := false
	for i := range e.items {
		if e.items[i].ProductID == p.ID {
			e.items[i].Quantity += quantity
			found = true
			break
		}
	}
	if !found {
		e.items = append(e.items, domain.NewLineItem(p, quantity))
	}

	e.persistLocked()
	return nil
}

// RemoveFromCart drops the line item with the given product ID. Removing
// an absent product is not an error.
func (e *Engine) RemoveFromCart(productID int64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	kept := e.items[:0]
	for _, item := range e.items {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	e.items = kept

	e.persistLocked()
}

// UpdateQuantity sets the absolute quantity for a product; anything
// below 1 removes the item instead.
func (e *Engine) UpdateQuantity(productID int64, quantity int) {
	if quantity <= 0 {
		e.RemoveFromCart(productID)
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.items {
		if e.items[i].ProductID == productID {
			e.items[i].Quantity = quantity
			break
		}
	}

	e.persistLocked()
}

func (e *Engine) ClearCart() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.items = nil
	e.persistLocked()
}

func (e *Engine) Items() []domain.LineItem {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.items)
}

func (e *Engine) CartTotal() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	var total float64
	for _, item := range e.items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

func (e *Engine) CartCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	var count int
	for _, item := range e.items {
		count += item.Quantity
	}
	return count
}

func (e *Engine) Loaded() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loaded
}

func (e *Engine) Session() identity.Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session
}

// persistLocked marks the cart dirty and pokes the saver. Called with
// e.mu held. Before the initial load completes nothing is written; the
// pending state is picked up by commit.
func (e *Engine) persistLocked() {
	if !e.loaded {
		return
	}

	e.dirty = true
	select {
	case e.notify <- struct{}{}:
	default:
	}
}

// saver is the single background writer. Saves are serialized and
// coalesced: a burst of mutations produces one write of the latest
// snapshot, and an older snapshot can never overwrite a newer one.
func (e *Engine) saver() {
	for {
		select {
		case <-e.done:
			return
		case <-e.notify:
		}

		for {
			e.mu.Lock()
			if !e.dirty || !e.loaded {
				e.mu.Unlock()
				break
			}
			e.dirty = false
			s := e.session
			items := slices.Clone(e.items)
			e.mu.Unlock()

			e.save(s, items)
		}
	}
}

func (e *Engine) save(s identity.Session, items []domain.LineItem) {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	var err error
	if s.Authenticated() {
		err = e.saveRemote(ctx, s.UserID, items)
	} else {
		err = e.local.Set(ctx, e.deviceID, items)
	}
	if err != nil {
		e.log.Error("cart save failed", "user_id", s.UserID, "error", err)
		e.report(err)
	}
}

func (e *Engine) report(err error) {
	select {
	case e.errs <- err:
	default:
	}
}
