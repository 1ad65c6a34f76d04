package syncer

import (
	"context"
	"errors"
	"time"

	retry "github.com/sethvargo/go-retry"

	"github.com/tiendita-app/tiendita/internal/common"
	"github.com/tiendita-app/tiendita/internal/store"
)

// Start restores the last sync marker and launches the connectivity
// watcher and the periodic sync loop. Both stop when ctx is cancelled.
func (m *Manager) Start(ctx context.Context) {
	if raw, err := m.store.GetMeta(ctx, store.MetaLastSync); err == nil && raw != nil {
		if t, perr := time.Parse(time.RFC3339, string(raw)); perr == nil {
			m.mu.Lock()
			m.lastSync = t
			m.mu.Unlock()
		}
	}

	go m.watchOnline(ctx)
	go m.runPeriodic(ctx)
}

func (m *Manager) watchOnline(ctx context.Context) {
	m.checkOnline(ctx)

	ticker := time.NewTicker(m.checkInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.checkOnline(ctx)
		}
	}
}

// checkOnline probes the backend with a short fibonacci backoff, so one
// dropped packet does not flip the state.
func (m *Manager) checkOnline(ctx context.Context) {
	backoff := retry.WithMaxRetries(2, retry.NewFibonacci(200*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		return retry.RetryableError(m.backend.Ping(ctx))
	})
	if ctx.Err() != nil {
		return
	}
	m.setOnline(ctx, err == nil)
}

// setOnline records the connectivity state. Coming back online kicks off a
// pass, so changes queued while offline drain as soon as possible.
func (m *Manager) setOnline(ctx context.Context, online bool) {
	m.mu.Lock()
	changed := m.online != online
	m.online = online
	m.mu.Unlock()

	if !changed {
		return
	}

	if online {
		m.log.Info(ctx, "backend reachable, going online")
		go m.backgroundPass(ctx)
	} else {
		m.log.Warn(ctx, "backend unreachable, working offline")
	}
	m.notifySubscribers(ctx)
}

func (m *Manager) runPeriodic(ctx context.Context) {
	ticker := time.NewTicker(m.syncInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.backgroundPass(ctx)
		}
	}
}

// backgroundPass runs a pass and swallows the expected skip conditions;
// timers and reconnects must not spam the log when offline or busy.
func (m *Manager) backgroundPass(ctx context.Context) {
	err := m.SyncNow(ctx)
	switch {
	case err == nil:
	case errors.Is(err, common.ErrOffline), errors.Is(err, common.ErrSyncInProgress):
	case errors.Is(err, context.Canceled):
	default:
		m.log.Error(ctx, "sync pass failed", "error", err)
	}
}
