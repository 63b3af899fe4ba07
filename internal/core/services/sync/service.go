package sync

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"wanderer-acl-sync/internal/config"
	"wanderer-acl-sync/internal/core/domain"
	"wanderer-acl-sync/internal/core/ports"
	"wanderer-acl-sync/internal/metrics"
)

type Dependencies struct {
	Config   *config.Config
	Storage  ports.Repository
	Client   ports.ACLClient
	Feed     ports.ChangeFeed          // optional; sweep-only when nil
	Notifier ports.NotificationService // optional
}

// Service runs reconciliation passes: once per change event from the
// feed, plus a periodic sweep over every managed map to catch missed
// events and remote drift. Passes for different maps run concurrently;
// passes for the same map never do.
type Service struct {
	config      *config.Config
	storage     ports.Repository
	feed        ports.ChangeFeed
	notifier    ports.NotificationService
	resolver    *Resolver
	reconciler  *Reconciler
	provisioner *Provisioner

	mu     sync.Mutex
	states map[int64]*mapState
	wg     sync.WaitGroup
}

// mapState serializes passes per map. A trigger arriving mid-pass sets
// dirty; the worker re-runs once more instead of queueing duplicates.
type mapState struct {
	busy  bool
	dirty bool
}

func NewService(deps Dependencies) *Service {
	return &Service{
		config:      deps.Config,
		storage:     deps.Storage,
		feed:        deps.Feed,
		notifier:    deps.Notifier,
		resolver:    NewResolver(deps.Storage),
		reconciler:  NewReconciler(deps.Client),
		provisioner: NewProvisioner(deps.Client, deps.Storage),
		states:      make(map[int64]*mapState),
	}
}

func (s *Service) Start(ctx context.Context) {
	ticker := time.NewTicker(s.config.SyncInterval)
	defer ticker.Stop()

	var changes <-chan int64
	if s.feed != nil {
		ch, err := s.feed.Listen(ctx)
		if err != nil {
			slog.Error("Failed to start change feed, relying on periodic sweep", "error", err)
		} else {
			changes = ch
		}
	}

	slog.Info("ACL sync service started", "interval", s.config.SyncInterval)

	s.sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			s.wg.Wait()
			return
		case <-ticker.C:
			s.sweep(ctx)
		case mapID, ok := <-changes:
			if !ok {
				slog.Warn("Change feed closed, relying on periodic sweep")
				changes = nil
				continue
			}
			slog.Info("Admin/manager assignment changed, triggering ACL sync", "map_id", mapID)
			s.Trigger(ctx, mapID)
		}
	}
}

func (s *Service) sweep(ctx context.Context) {
	maps, err := s.storage.ListMaps(ctx)
	if err != nil {
		slog.Error("Failed to list managed maps", "error", err)
		return
	}

	slog.Debug("Sweeping managed maps", "count", len(maps))
	for _, m := range maps {
		s.Trigger(ctx, m.ID)
	}
}

// Trigger schedules a reconciliation pass for one map. If a pass for the
// map is already running, the map is marked dirty and re-reconciled once
// the current pass finishes.
func (s *Service) Trigger(ctx context.Context, mapID int64) {
	s.mu.Lock()
	st, ok := s.states[mapID]
	if !ok {
		st = &mapState{}
		s.states[mapID] = st
	}
	if st.busy {
		st.dirty = true
		s.mu.Unlock()
		return
	}
	st.busy = true
	s.mu.Unlock()

	s.wg.Add(1)
	go s.worker(ctx, mapID, st)
}

func (s *Service) worker(ctx context.Context, mapID int64, st *mapState) {
	defer s.wg.Done()

	for {
		if _, err := s.SyncMap(ctx, mapID); err != nil && ctx.Err() != nil {
			// Shutting down; the map stays busy until the next start.
			return
		}

		s.mu.Lock()
		if st.dirty {
			st.dirty = false
			s.mu.Unlock()
			continue
		}
		st.busy = false
		s.mu.Unlock()
		return
	}
}

// SyncMap runs one reconciliation pass for one map. Whole-pass failures
// (missing map, provisioning, member listing, role resolution) return an
// error; per-character failures are reported through the result only.
func (s *Service) SyncMap(ctx context.Context, mapID int64) (*domain.ReconciliationResult, error) {
	m, err := s.storage.GetMap(ctx, mapID)
	if err != nil {
		slog.Error("Failed to load managed map", "map_id", mapID, "error", err)
		metrics.ReconciliationPasses.WithLabelValues("failure").Inc()
		return nil, err
	}

	if err := s.provisioner.EnsureACL(ctx, m); err != nil {
		s.passFailed(*m, err)
		return nil, err
	}

	desired, err := s.resolver.ResolveDesiredRoles(ctx, m.ID)
	if err != nil {
		s.passFailed(*m, err)
		return nil, err
	}

	result, err := s.reconciler.Reconcile(ctx, *m, desired)
	if err != nil {
		s.passFailed(*m, err)
		return nil, err
	}

	if !result.OK() {
		slog.Warn("Reconciliation pass finished with failures",
			"map", m.Slug,
			"mutations", result.Mutations(),
			"failed", len(result.Failures()),
		)
		metrics.ReconciliationPasses.WithLabelValues("partial").Inc()
		s.notifySyncFailure(*m, result)
		return result, nil
	}

	slog.Info("Reconciliation pass succeeded", "map", m.Slug, "mutations", result.Mutations())
	metrics.ReconciliationPasses.WithLabelValues("success").Inc()
	return result, nil
}

func (s *Service) passFailed(m domain.ManagedMap, err error) {
	if errors.Is(err, domain.ErrTransient) {
		slog.Warn("Reconciliation pass aborted, will retry on next sweep", "map", m.Slug, "error", err)
	} else {
		slog.Error("Reconciliation pass aborted", "map", m.Slug, "error", err)
	}
	metrics.ReconciliationPasses.WithLabelValues("failure").Inc()

	if s.notifier == nil {
		return
	}
	if err := s.notifier.SendPassError(m, err); err != nil {
		slog.Error("Failed to send failure notification", "map", m.Slug, "error", err)
	}
}

func (s *Service) notifySyncFailure(m domain.ManagedMap, result *domain.ReconciliationResult) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.SendSyncFailure(m, result); err != nil {
		slog.Error("Failed to send failure notification", "map", m.Slug, "error", err)
	}
}
