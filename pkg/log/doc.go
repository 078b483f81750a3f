/*
Package log provides structured logging for the runtime using zerolog.

The package wraps zerolog to give every component (supervisor, actor,
plugin, registry, spawner) a logger tagged with its own identity, so log
lines can be filtered by which locality or actor emitted them without
threading a *Logger through every call site by hand.

# Usage

	log.Init(log.Config{Level: log.InfoLevel, JSONOutput: true})

	supLog := log.WithSupervisor("sup-1")
	supLog.Info().Msg("supervisor started")

	actorLog := log.WithActor("ponger-1")
	actorLog.Debug().Uint64("request_id", 42).Msg("reply sent")

Component loggers are derived from the single global Logger set by Init;
call Init once, early, from main.
*/
package log
