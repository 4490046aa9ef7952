package core

import (
	"sync"
	"time"

	"luminashare/core/events"
	"luminashare/core/state"
	"luminashare/fhe"
	"luminashare/native/content"
	"luminashare/native/ledger"
	"luminashare/native/payout"
	"luminashare/native/subscription"
	"luminashare/observability"
)

// Node applies every transaction as one step of a sequentially-ordered state
// machine: a single mutex orders all calls, and each mutating call runs inside
// a state overlay that commits atomically. There is no partial update to
// observe — if the confidential-computation engine fails mid-transaction the
// overlay is discarded, so a logged payment can never outlive its credit.
//
// Long-latency confidential work (encryption, addition, decryption) is
// delegated to the engine as a synchronous dependency; the off-chain
// decryption handshake is fully outside this critical path.
type Node struct {
	txMu     sync.Mutex
	state    *state.Manager
	fheng    fhe.Engine
	scope    [20]byte
	contents *content.Engine
	subs     *subscription.Engine
	ledger   *ledger.Engine
	payouts  *payout.Engine
	emitter  events.Emitter
	nowFn    func() int64
}

// NewNode wires the module engines over a shared state manager. The scope
// address identifies this ledger instance to the confidential-computation
// engine; handles bound to a different scope are rejected at the boundary.
func NewNode(st *state.Manager, engine fhe.Engine, scope [20]byte) *Node {
	n := &Node{
		state:   st,
		fheng:   engine,
		scope:   scope,
		emitter: events.NoopEmitter{},
		nowFn: func() int64 {
			return time.Now().Unix()
		},
	}
	n.contents = content.NewEngine()
	n.contents.SetState(st)
	n.contents.SetFHE(engine, scope)
	n.subs = subscription.NewEngine()
	n.subs.SetState(st)
	n.ledger = ledger.NewEngine()
	n.ledger.SetState(st)
	n.ledger.SetFHE(engine)
	n.payouts = payout.NewEngine()
	n.payouts.SetState(st)
	n.payouts.SetFHE(engine)
	return n
}

// SetEmitter configures the event emitter used by the node.
func (n *Node) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		n.emitter = events.NoopEmitter{}
		return
	}
	n.emitter = emitter
}

// SetNowFunc overrides the time source for the node and all engines. Used for
// deterministic testing.
func (n *Node) SetNowFunc(now func() int64) {
	if now == nil {
		now = func() int64 { return time.Now().Unix() }
	}
	n.nowFn = now
	n.contents.SetNowFunc(now)
	n.subs.SetNowFunc(now)
	n.payouts.SetNowFunc(now)
}

func (n *Node) now() int64 {
	if n == nil || n.nowFn == nil {
		return time.Now().Unix()
	}
	return n.nowFn()
}

// runTx executes fn inside a state overlay. Events are emitted only after a
// successful commit so subscribers never observe an aborted transaction.
func (n *Node) runTx(op string, fn func(emit func(events.Event)) error) error {
	started := time.Now()
	var pending []events.Event
	emit := func(evt events.Event) {
		pending = append(pending, evt)
	}
	var outcome string
	err := n.withOverlay(func() error { return fn(emit) })
	if err != nil {
		outcome = "error"
	} else {
		outcome = "ok"
		for _, evt := range pending {
			n.emitter.Emit(evt)
		}
	}
	observability.Ledger().Observe(op, outcome, time.Since(started))
	return err
}

func (n *Node) withOverlay(fn func() error) error {
	n.txMu.Lock()
	defer n.txMu.Unlock()
	n.state.Begin()
	if err := fn(); err != nil {
		n.state.Abort()
		return err
	}
	return n.state.Commit()
}

// Reads take the same mutex so they only ever observe fully applied
// transactions.
func (n *Node) read(fn func() error) error {
	n.txMu.Lock()
	defer n.txMu.Unlock()
	return fn()
}
