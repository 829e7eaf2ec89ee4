// Copyright (c) 2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package viralloop is the Viralloop referral SDK. It registers the app
// installation as a user with the Viralloop backend and provides the
// referral, reward and revenue operations of that user.
package viralloop

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron"
	v1 "github.com/viralloop/viralloop-go/api/v1"
	"github.com/viralloop/viralloop-go/cache"
	"github.com/viralloop/viralloop-go/cache/rediscache"
	"github.com/viralloop/viralloop-go/client"
	"github.com/viralloop/viralloop-go/device"
	"github.com/viralloop/viralloop-go/storage"
	"github.com/viralloop/viralloop-go/util"
	"golang.org/x/sync/singleflight"
)

// State is the lifecycle state of a Client.
type State int

const (
	// StateUnconfigured is the state before a client exists.
	StateUnconfigured State = iota

	// StateInitializing is the state while the user is being loaded.
	StateInitializing

	// StateReady is the state once a user is available. Registration
	// with the backend may still be in progress.
	StateReady
)

// String returns the human readable state.
func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	default:
		return "unconfigured"
	}
}

// Client is a Viralloop SDK client. It is safe for concurrent use.
type Client struct {
	appID  string
	api    *client.Client
	store  *storage.Storage
	device device.Provider
	cache  cache.StatusCache
	now    func() time.Time

	group     singleflight.Group
	statusGen atomic.Uint64 // Bumped when the cached status is invalidated
	cron      *cron.Cron
	ctx    context.Context // Canceled on Close
	cancel context.CancelFunc
	wg     sync.WaitGroup

	sync.RWMutex
	state               State
	user                *v1.User
	firstReferralSource *string
	attributionSource   *string
}

// State returns the lifecycle state of the client. A nil client is
// unconfigured.
func (c *Client) State() State {
	if c == nil {
		return StateUnconfigured
	}

	c.RLock()
	defer c.RUnlock()
	return c.state
}

// goBackground runs fn on a client owned goroutine. Errors are logged.
func (c *Client) goBackground(name string, fn func(context.Context) error) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		err := fn(c.ctx)
		if err != nil {
			util.LogError(log, name, err)
		}
	}()
}

// Wait blocks until all background work started so far has finished.
func (c *Client) Wait() {
	c.wg.Wait()
}

// Close stops the daily refresh, cancels and waits for background work and
// closes the stores. The client must not be used afterwards. Closing the
// client created by Configure unconfigures the process, so Configure may be
// called again.
func (c *Client) Close() {
	log.Tracef("Close")

	sharedMtx.Lock()
	if shared == c {
		shared = nil
	}
	sharedMtx.Unlock()

	if c.cron != nil {
		c.cron.Stop()
	}
	c.cancel()
	c.wg.Wait()

	c.Lock()
	c.user = nil
	c.state = StateUnconfigured
	c.Unlock()

	if rc, ok := c.cache.(*rediscache.Cache); ok {
		rc.Close()
	}
	c.store.Close()
}

// New returns a new Client. The user is loaded, or created, before New
// returns. Registration and refreshes with the backend continue in the
// background.
func New(cfg Config) (*Client, error) {
	err := cfg.verify()
	if err != nil {
		return nil, err
	}

	api, err := client.New(cfg.Host, cfg.AppID, cfg.APIKey, &client.Opts{
		HTTPClient: cfg.HTTPClient,
	})
	if err != nil {
		return nil, err
	}

	store := cfg.Storage
	if store == nil {
		store, err = storage.Open(cfg.DataDir)
		if err != nil {
			return nil, err
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Client{
		appID:  cfg.AppID,
		api:    api,
		store:  store,
		device: cfg.Device,
		cache:  cfg.StatusCache,
		now:    cfg.Now,
		ctx:    ctx,
		cancel: cancel,
		state:  StateInitializing,
	}

	c.initialize()

	if c.cache == nil {
		c.cache = c.newStatusCache(cfg.RedisAddr)
	}
	if cfg.DailyRefresh {
		c.cron = cron.New()
		err = c.cron.AddFunc("@hourly", c.checkDailyUpdate)
		if err != nil {
			c.Close()
			return nil, err
		}
		c.cron.Start()
	}

	c.Lock()
	c.state = StateReady
	c.Unlock()

	log.Infof("Viralloop client ready for app %v", cfg.AppID)

	return c, nil
}

// newStatusCache returns the redis status cache when an address is provided
// and reachable and the in-memory cache otherwise.
func (c *Client) newStatusCache(redisAddr string) cache.StatusCache {
	if redisAddr == "" {
		return cache.New(c.now)
	}

	userID, _ := c.userID()
	ctx, cancel := context.WithTimeout(c.ctx, 5*time.Second)
	defer cancel()
	rc, err := rediscache.New(ctx, redisAddr, rediscache.Key(c.appID, userID))
	if err != nil {
		log.Warnf("Redis status cache unavailable, using memory: %v", err)
		return cache.New(c.now)
	}
	return rc
}

var (
	sharedMtx sync.Mutex
	shared    *Client
)

// Configure creates the process wide client that Shared returns. Only the
// first call has an effect. Later calls log a warning and keep the original
// configuration.
func Configure(cfg Config) error {
	sharedMtx.Lock()
	defer sharedMtx.Unlock()

	if shared != nil {
		log.Warnf("Configure called more than once; keeping the " +
			"original configuration")
		return nil
	}

	c, err := New(cfg)
	if err != nil {
		return err
	}
	shared = c

	return nil
}

// Shared returns the process wide client. ErrNotConfigured is returned when
// Configure has not been called.
func Shared() (*Client, error) {
	sharedMtx.Lock()
	defer sharedMtx.Unlock()

	if shared == nil {
		log.Errorf("Shared called before Configure")
		return nil, ErrNotConfigured
	}
	return shared, nil
}
