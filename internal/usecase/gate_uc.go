// File: internal/usecase/gate_uc.go
package usecase

import (
	"context"
	"sync"

	"telegram-miniapp-gate/internal/domain"
	"telegram-miniapp-gate/internal/domain/model"
	"telegram-miniapp-gate/internal/domain/ports/adapter"
	"telegram-miniapp-gate/internal/domain/ports/repository"
	"telegram-miniapp-gate/internal/infra/logging"
	"telegram-miniapp-gate/internal/infra/metrics"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ GateUseCase = (*gateUC)(nil)

// GateUseCase is the gating orchestrator: it owns Session, CountryStatus
// and SeasonStatus, exposes one transition method per external signal, and
// derives the single rendered GateDecision.
type GateUseCase interface {
	// Bootstrap runs the ordered startup checks and blocks until they
	// settle. The membership and country checks run concurrently; the
	// identity handshake starts only after the country check resolves and
	// is skipped entirely while the user is judged country-blocked.
	Bootstrap(ctx context.Context)

	Decision() model.GateDecision
	Snapshot() GateSnapshot

	ApplyCountryCheck(st model.CountryStatus, ok bool)
	ApplyCountryEvent(ev model.CountryBlockEvent)
	ApplySeason(ctx context.Context, active bool)

	// DismissOverlay hides the season overlay for the rest of the session.
	// Returns domain.ErrOverlayLocked while the broadcast is in lock mode.
	DismissOverlay(ctx context.Context) error
}

// GateSnapshot is a debug view of the orchestrator's state container.
type GateSnapshot struct {
	Session  model.Session       `json:"session"`
	Country  model.CountryStatus `json:"country"`
	Season   model.SeasonStatus  `json:"season"`
	Acked    bool                `json:"seasonAcknowledged"`
	Decision model.GateDecision  `json:"decision"`
}

type gateUC struct {
	country    CountryUseCase
	identity   IdentityUseCase
	membership adapter.MembershipChecker
	flags      repository.FlagStore
	host       adapter.HostBridge
	dev        bool
	log        *zerolog.Logger

	mu             sync.Mutex
	session        model.Session
	geo            model.CountryStatus
	season         model.SeasonStatus
	seasonAcked    bool
	membershipDone bool
	lastState      model.GateState
}

func NewGateUseCase(
	country CountryUseCase,
	identity IdentityUseCase,
	membership adapter.MembershipChecker,
	flags repository.FlagStore,
	host adapter.HostBridge,
	dev bool,
	logger *zerolog.Logger,
) *gateUC {
	compLog := logger.With().Str("component", "GateUC").Logger()
	return &gateUC{
		country:    country,
		identity:   identity,
		membership: membership,
		flags:      flags,
		host:       host,
		dev:        dev,
		log:        &compLog,
		// Both startup checks are pending until told otherwise.
		session:   model.Session{Authenticating: true},
		geo:       model.CountryStatus{Checking: true},
		lastState: model.GateLoading,
	}
}

func (g *gateUC) Bootstrap(ctx context.Context) {
	defer logging.TraceDuration(g.log, "GateUC.Bootstrap")()

	if acked, err := g.flags.SeasonAcknowledged(ctx); err == nil {
		g.mu.Lock()
		g.seasonAcked = acked
		g.mu.Unlock()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := g.membership.CheckMembership(ctx); err != nil {
			g.log.Warn().Err(err).Msg("membership check failed; continuing")
		}
		g.mu.Lock()
		g.membershipDone = true
		g.noteTransitionLocked()
		g.mu.Unlock()
	}()

	// Country resolution, success or failure, strictly precedes the
	// identity handshake.
	st, ok := g.country.Check(ctx)
	g.ApplyCountryCheck(st, ok)
	g.resolveIdentity(ctx)

	wg.Wait()
	g.log.Info().Str("state", string(g.Decision().State)).Msg("bootstrap settled")
}

func (g *gateUC) resolveIdentity(ctx context.Context) {
	g.mu.Lock()
	blocked := g.geo.Blocked
	g.mu.Unlock()

	if blocked {
		// Never leak an authentication attempt into a restricted region.
		g.log.Info().Msg("country blocked; skipping identity handshake")
		g.settleAuth(func(s *model.Session) {})
		return
	}

	if g.dev {
		g.settleAuth(func(s *model.Session) {
			s.Identity = "dev-user"
		})
		g.log.Debug().Msg("dev mode: identity synthesized")
		return
	}

	if g.host == nil || !g.host.Present() {
		// Opened outside the Telegram host; Decision derives
		// TelegramRequired, there is nothing to hand-shake with.
		g.settleAuth(func(s *model.Session) {})
		return
	}

	res, err := g.identity.Authenticate(ctx)
	if err != nil {
		g.log.Warn().Err(err).Msg("identity handshake failed; continuing unauthenticated")
		g.settleAuth(func(s *model.Session) {})
		return
	}
	g.settleAuth(func(s *model.Session) {
		s.Identity = res.Identity
		s.IsAdmin = res.IsAdmin
		if res.Banned {
			s.Banned = true
			s.BanReason = res.Reason
		}
	})
}

// settleAuth clears the authenticating flag and applies fn to the session
// under the lock.
func (g *gateUC) settleAuth(fn func(*model.Session)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	fn(&g.session)
	g.session.Authenticating = false
	g.noteTransitionLocked()
}

func (g *gateUC) ApplyCountryCheck(st model.CountryStatus, ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if ok {
		g.geo.Code = st.Code
		g.geo.Blocked = st.Blocked
	}
	// Fail-open: a failed check only stops the spinner.
	g.geo.Checking = false
	g.noteTransitionLocked()
}

func (g *gateUC) ApplyCountryEvent(ev model.CountryBlockEvent) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.geo.Code == "" || ev.CountryCode != g.geo.Code {
		g.log.Debug().
			Str("event_country", ev.CountryCode).
			Str("current_country", g.geo.Code).
			Msg("ignoring country block event for another country")
		return
	}
	g.geo.Blocked = ev.Action == model.BlockActionBlocked
	g.noteTransitionLocked()
}

func (g *gateUC) ApplySeason(ctx context.Context, active bool) {
	g.mu.Lock()
	wasActive := g.season.BroadcastActive
	if active {
		g.season = model.SeasonStatus{BroadcastActive: true, Locked: true}
	} else {
		g.season = model.SeasonStatus{}
	}
	clearAck := wasActive && !active
	if clearAck {
		// The next broadcast must be shown even if a past one was dismissed.
		g.seasonAcked = false
	}
	g.noteTransitionLocked()
	g.mu.Unlock()

	if clearAck {
		if err := g.flags.ClearSeasonAcknowledged(ctx); err != nil {
			g.log.Warn().Err(err).Msg("failed to clear season acknowledgment flag")
		}
	}
}

func (g *gateUC) DismissOverlay(ctx context.Context) error {
	g.mu.Lock()
	if g.season.BroadcastActive && g.season.Locked {
		g.mu.Unlock()
		return domain.ErrOverlayLocked
	}
	g.seasonAcked = true
	g.noteTransitionLocked()
	g.mu.Unlock()

	if err := g.flags.SetSeasonAcknowledged(ctx); err != nil {
		g.log.Warn().Err(err).Msg("failed to persist season acknowledgment flag")
	}
	return nil
}

func (g *gateUC) Decision() model.GateDecision {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.decisionLocked()
}

func (g *gateUC) Snapshot() GateSnapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return GateSnapshot{
		Session:  g.session,
		Country:  g.geo,
		Season:   g.season,
		Acked:    g.seasonAcked,
		Decision: g.decisionLocked(),
	}
}

// decisionLocked evaluates the priority order; the first matching state
// wins, which doubles as the tie-break between blocking conditions.
func (g *gateUC) decisionLocked() model.GateDecision {
	switch {
	case g.session.Banned:
		return model.GateDecision{State: model.GateBanned, BanReason: g.session.BanReason}
	case !g.membershipDone || g.geo.Checking || g.session.Authenticating:
		return model.GateDecision{State: model.GateLoading}
	case g.geo.Blocked:
		return model.GateDecision{State: model.GateCountryBlocked, Country: g.geo.Code}
	case !g.dev && (g.host == nil || !g.host.Present()):
		return model.GateDecision{State: model.GateTelegramRequired}
	default:
		overlay := g.season.BroadcastActive && !g.seasonAcked && !g.session.IsAdmin
		return model.GateDecision{
			State:         model.GateReady,
			Country:       g.geo.Code,
			SeasonOverlay: overlay,
			OverlayLocked: overlay && g.season.Locked,
		}
	}
}

func (g *gateUC) noteTransitionLocked() {
	state := g.decisionLocked().State
	if state == g.lastState {
		return
	}
	g.log.Info().Str("from", string(g.lastState)).Str("to", string(state)).Msg("gate transition")
	g.lastState = state
	metrics.SetGateState(state)
}
