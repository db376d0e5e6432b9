// Package janitor runs the periodic clipboard expiry sweep. Recovered from
// original_source/nexus3/clipboard/manager.py's count_expired/get_expired
// being designed for repeated invocation, and repurposed from the teacher's
// cmd/picoclaw/internal/cron command family — here the "job" is fixed (sweep
// expired entries) rather than user-defined, so there's no job store, just a
// single cron expression and a tick loop.
package janitor

import (
	"context"
	"time"

	"github.com/adhocore/gronx"
	"github.com/rs/zerolog"

	"github.com/incurian/nexus3/internal/clipboard"
)

// tickInterval is how often the loop checks the cron expression against the
// current minute. A minute-resolution cron expression only needs
// minute-resolution polling.
const tickInterval = time.Minute

// Service sweeps expired entries from the project and system clipboard
// scopes on a cron schedule. Agent-scope entries need no sweep: nothing
// persists them past process exit.
type Service struct {
	mgr  *clipboard.Manager
	cron string
	log  zerolog.Logger
	gx   gronx.Gronx
}

// New builds a Service. cronExpr is a standard 5-field cron expression
// (e.g. "*/15 * * * *"); mgr is the clipboard manager whose project/system
// scopes get swept.
func New(mgr *clipboard.Manager, cronExpr string, log zerolog.Logger) *Service {
	return &Service{
		mgr:  mgr,
		cron: cronExpr,
		log:  log.With().Str("component", "janitor").Logger(),
		gx:   gronx.New(),
	}
}

// RunOnce sweeps every expired entry from the project and system scopes
// unconditionally, regardless of the cron schedule — used by
// `nexus3 janitor run --once` for manual or cron(1)-driven invocation.
func (s *Service) RunOnce() (swept int, err error) {
	for _, scope := range []clipboard.Scope{clipboard.ScopeProject, clipboard.ScopeSystem} {
		n, err := s.sweepScope(scope)
		if err != nil {
			return swept, err
		}
		swept += n
	}
	return swept, nil
}

func (s *Service) sweepScope(scope clipboard.Scope) (int, error) {
	expired, err := s.mgr.GetExpired(scope)
	if err != nil {
		return 0, err
	}
	deleted := 0
	for _, entry := range expired {
		ok, err := s.mgr.Delete(entry.Key, scope)
		if err != nil {
			return deleted, err
		}
		if ok {
			deleted++
		}
	}
	if deleted > 0 {
		s.log.Info().Str("scope", string(scope)).Int("deleted", deleted).Msg("swept expired clipboard entries")
	}
	return deleted, nil
}

// Serve runs the sweep loop until ctx is cancelled, checking the configured
// cron expression once per tickInterval and sweeping on every match —
// used by `nexus3 janitor serve` for a long-lived process.
func (s *Service) Serve(ctx context.Context) error {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			due, err := s.gx.IsDue(s.cron, now)
			if err != nil {
				s.log.Error().Err(err).Str("cron", s.cron).Msg("invalid janitor cron expression")
				continue
			}
			if !due {
				continue
			}
			if _, err := s.RunOnce(); err != nil {
				s.log.Error().Err(err).Msg("expiry sweep failed")
			}
		}
	}
}
