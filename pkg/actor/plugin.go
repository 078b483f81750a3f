package actor

// Reaction is a bitset a plugin advertises: which lifecycle callbacks it
// actually participates in. Plugins with no reaction bit for a given phase
// are skipped during that phase's polling, so a no-op plugin costs nothing
// per iteration.
type Reaction uint8

const (
	ReactionInit Reaction = 1 << iota
	ReactionShutdown
	ReactionSubscription
)

// Plugin is one lifecycle fragment of an actor. The eight stock plugins
// (address-maker, lifetime, init-shutdown, link-server, link-client,
// registry, resources, starter) are activated in order and deactivated in
// reverse order.
//
// Plugins take the actor's concrete *Base directly and mutate actor state
// through Base's own exported surface (Subscribe, StartTimer, BeginInit,
// ...). The stock plugins live in the sibling package pkg/actor/plugin
// rather than in this one, since nothing about them needs Base's
// unexported fields.
type Plugin interface {
	// Identity names the plugin for logging/stringification.
	Identity() string

	// Reactions reports which lifecycle phases this plugin participates
	// in.
	Reactions() Reaction

	// Activate is called once, in pipeline order, right after the actor is
	// constructed and before init begins.
	Activate(a *Base)

	// Deactivate is called once, in reverse pipeline order, during
	// shutdown.
	Deactivate()

	// HandleInit is polled during init while ReactionInit is set; it
	// returns true once this plugin's init precondition is satisfied. A
	// false return means the plugin will itself call a.InitContinue()
	// later, e.g. once an async dependency resolves.
	HandleInit() bool

	// HandleShutdown is the shutdown-phase mirror of HandleInit.
	HandleShutdown() bool
}
