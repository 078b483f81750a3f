package supervisor

import (
	"time"

	"github.com/cuemby/hive/pkg/actor"
	"github.com/cuemby/hive/pkg/address"
	"github.com/cuemby/hive/pkg/backend"
	"github.com/cuemby/hive/pkg/message"
	"github.com/cuemby/hive/pkg/metrics"
	"github.com/cuemby/hive/pkg/rerror"
	"github.com/cuemby/hive/pkg/subscription"
)

// Request wraps a request payload with the correlator envelope: the
// monotonic request id, the address the reply should land on, and the
// originating address (for diagnostics; distinct from ReplyTo when a
// request is relayed on the requester's behalf).
type Request[P any] struct {
	RequestID uint64
	ReplyTo   *address.Address
	Origin    *address.Address
	Payload   P
}

// Response wraps a reply payload with the same request id, so the
// originator's correlator can match it, and an error (RequestTimeout if
// the correlator's timer fired first).
type Response[R any] struct {
	RequestID uint64
	Result    R
	Err       *rerror.Error
}

// Send is the correlated request path: it allocates a request id, subscribes
// a one-shot handler on host's address for Response[R], arms a timeout
// timer, and enqueues the request to dest.
//
// onReply is called at most once: with the matching reply, or with a
// synthesized RequestTimeout Response if the timer fires first. If host
// shuts down before either, the timer is cancelled and onReply is not
// called. Any later
// duplicate/late reply finds no correlator entry and is silently dropped,
// which is what keeps the correlator idempotent under retries.
func Send[P, R any](sup *Supervisor, host *actor.Base, dest *address.Address, payload P, timeout time.Duration, onReply func(Response[R])) uint64 {
	id := sup.NextRequestID()
	start := metrics.NewTimer()

	req := Request[P]{
		RequestID: id,
		ReplyTo:   host.Address(),
		Origin:    host.Address(),
		Payload:   payload,
	}

	var info *subscription.Info
	var timerID backend.TimerID

	finish := func(resp Response[R]) {
		if _, ok := host.CompleteRequest(id); !ok {
			return
		}
		host.CancelTimer(timerID)
		host.Unsubscribe(info)
		if resp.Err == nil {
			start.ObserveDuration(metrics.RequestDuration)
		}
		onReply(resp)
	}

	handler := message.NewHandler[Response[R]](host.Address(), message.KindLambda, func(resp *Response[R]) {
		if resp.RequestID != id {
			return
		}
		finish(*resp)
	})
	info = host.Subscribe(host.Address(), handler, subscription.Supervisor)

	timerID = host.StartTimer(timeout, func(_ backend.TimerID, cancelled bool) {
		if cancelled {
			return
		}
		metrics.RequestTimeoutsTotal.WithLabelValues(sup.identity).Inc()
		var zero R
		finish(Response[R]{
			RequestID: id,
			Result:    zero,
			Err:       rerror.New("request timed out", rerror.RequestTimeout, nil, nil),
		})
	})

	host.TrackRequest(id, &actor.PendingRequest{TimerID: timerID})
	metrics.RequestsTotal.WithLabelValues(sup.identity).Inc()

	actor.Send(host, dest, req)
	return id
}

// Reply sends a successful Response[R] back to req's originator.
func Reply[P, R any](host *actor.Base, req Request[P], result R) {
	actor.Send(host, req.ReplyTo, Response[R]{RequestID: req.RequestID, Result: result})
}

// ReplyWithError sends a failing Response[R] back to req's originator.
func ReplyWithError[P, R any](host *actor.Base, req Request[P], err *rerror.Error) {
	var zero R
	actor.Send(host, req.ReplyTo, Response[R]{RequestID: req.RequestID, Result: zero, Err: err})
}
