package runtime

import (
	"log/slog"

	"tchat/domain"
	"tchat/observability"
)

// Router implements broadcast and directed delivery on top of the registry.
// It reads registry snapshots and never mutates entries directly, with one
// exception: names whose broadcast send fails are lazily unregistered.
type Router struct {
	log      *slog.Logger
	registry *Registry
	stats    *observability.Stats
}

func NewRouter(log *slog.Logger, registry *Registry, stats *observability.Stats) *Router {
	return &Router{log: log, registry: registry, stats: stats}
}

// Broadcast sends text to every registered client except the excluded name.
// Per-recipient failures are isolated: a dead peer never aborts delivery to
// the remaining recipients. Failed names are removed from the registry
// afterwards, this is where dead peers discovered mid-broadcast get cleaned.
func (r *Router) Broadcast(text, exclude string) {
	handles := r.registry.Handles(exclude)

	var dead []string
	for name, handle := range handles {
		if err := handle.SendLine(text); err != nil {
			r.log.Debug("Broadcast delivery failed", "to", name, "error", err)
			dead = append(dead, name)
		}
	}
	for _, name := range dead {
		r.registry.Unregister(name)
		r.log.Info("Removed unreachable client", "name", name)
	}

	r.stats.IncrBroadcasts()
	r.stats.AddDeliveryFailures(len(dead))
}

// Direct delivers text to exactly one named recipient. A send failure does
// not deregister the recipient: unlike a broadcast failure it is observed
// from a side path, and the recipient's own session loop owns its cleanup.
func (r *Router) Direct(from, to, text string) domain.DeliveryResult {
	handle, ok := r.registry.Lookup(to)
	if !ok {
		return domain.RecipientNotFound
	}
	line := domain.NewMessage(from, text).RenderPrivate()
	if err := handle.SendLine(line); err != nil {
		r.log.Debug("Directed delivery failed", "from", from, "to", to, "error", err)
		r.stats.AddDeliveryFailures(1)
		return domain.SendFailed
	}
	r.stats.IncrDirected()
	return domain.Delivered
}

// Announce broadcasts a system notice excluding its subject.
func (r *Router) Announce(text, subject string) {
	r.Broadcast(domain.SystemNotice(text), subject)
}
