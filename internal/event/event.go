// ABOUTME: Closed event vocabulary exchanged between the finder's workers and its UI loop
// ABOUTME: One struct type per Kind; consumers discriminate with a type switch

package event

import "fmt"

// Kind identifies an event slot in a coalescing box.
type Kind int

const (
	ReaderNewItem        Kind = iota // producer appended candidates
	ReaderFinished                   // producer reached end of input
	MatcherNewItem                   // UI -> matcher: pool grew
	MatcherResetQuery                // UI -> matcher: query changed
	MatcherStart                     // matcher -> UI: new pass, clear displayed matches
	MatcherStartReceived             // UI -> matcher: clear done
	MatcherProgress                  // matcher -> UI: counters
	MatcherEnd                       // matcher -> UI: pass complete
	QueryChange                      // model -> loop: query text edited
	InputKey                         // key resolver queued actions
	InputInvalid                     // key resolver saw unbound non-text input
	Resize                           // terminal size changed
	Shutdown                         // a worker asks the loop to stop
)

var kindNames = [...]string{
	ReaderNewItem:        "reader-new-item",
	ReaderFinished:       "reader-finished",
	MatcherNewItem:       "matcher-new-item",
	MatcherResetQuery:    "matcher-reset-query",
	MatcherStart:         "matcher-start",
	MatcherStartReceived: "matcher-start-received",
	MatcherProgress:      "matcher-progress",
	MatcherEnd:           "matcher-end",
	QueryChange:          "query-change",
	InputKey:             "input-key",
	InputInvalid:         "input-invalid",
	Resize:               "resize",
	Shutdown:             "shutdown",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Event is implemented only by the types in this package.
type Event interface {
	Kind() Kind
	sealed()
}

// NewItem reports that the candidate pool holds Total items.
type NewItem struct {
	Total int
}

// Finished reports that the producer is done; Err is set when the source
// failed, which still leaves the finder usable.
type Finished struct {
	Total int
	Err   error
}

// PoolGrew tells the matcher to scan up to the pool's current length.
type PoolGrew struct{}

// ResetQuery tells the matcher to restart with Query under generation Gen.
type ResetQuery struct {
	Gen   uint64
	Query string
}

// PassStart announces that the matcher is about to emit matches for Gen.
type PassStart struct {
	Gen uint64
}

// PassStartAck acknowledges PassStart once the UI has cleared old matches.
type PassStartAck struct {
	Gen uint64
}

// Progress carries the matcher counters for generation Gen.
type Progress struct {
	Gen       uint64
	Matched   int
	Total     int
	Processed int
}

// PassEnd reports that the pass for Gen has scored every known candidate.
type PassEnd struct {
	Gen uint64
}

// QueryChanged carries the edited query under its new generation.
type QueryChanged struct {
	Gen   uint64
	Query string
}

// KeysQueued wakes the loop to drain the ordered action queue.
type KeysQueued struct{}

// InvalidInput reports raw input that resolved to no action.
type InvalidInput struct {
	Raw string
}

// Resized carries the new terminal dimensions.
type Resized struct {
	Width  int
	Height int
}

// ShutdownRequested asks the loop to stop with Err.
type ShutdownRequested struct {
	Err error
}

func (NewItem) Kind() Kind           { return ReaderNewItem }
func (Finished) Kind() Kind          { return ReaderFinished }
func (PoolGrew) Kind() Kind          { return MatcherNewItem }
func (ResetQuery) Kind() Kind        { return MatcherResetQuery }
func (PassStart) Kind() Kind         { return MatcherStart }
func (PassStartAck) Kind() Kind      { return MatcherStartReceived }
func (Progress) Kind() Kind          { return MatcherProgress }
func (PassEnd) Kind() Kind           { return MatcherEnd }
func (QueryChanged) Kind() Kind      { return QueryChange }
func (KeysQueued) Kind() Kind        { return InputKey }
func (InvalidInput) Kind() Kind      { return InputInvalid }
func (Resized) Kind() Kind           { return Resize }
func (ShutdownRequested) Kind() Kind { return Shutdown }

func (NewItem) sealed()           {}
func (Finished) sealed()          {}
func (PoolGrew) sealed()          {}
func (ResetQuery) sealed()        {}
func (PassStart) sealed()         {}
func (PassStartAck) sealed()      {}
func (Progress) sealed()          {}
func (PassEnd) sealed()           {}
func (QueryChanged) sealed()      {}
func (KeysQueued) sealed()        {}
func (InvalidInput) sealed()      {}
func (Resized) sealed()           {}
func (ShutdownRequested) sealed() {}
