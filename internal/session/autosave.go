package session

import (
	"sync"
	"time"

	"bingo/internal/model"

	"github.com/google/uuid"
)

// DefaultQuietPeriod is how long a board must sit without new edits before
// a scheduled auto-save fires.
const DefaultQuietPeriod = 5 * time.Second

type saveFunc func(boardID uuid.UUID, patch *model.BoardPatch) error

// Autosaver coalesces board edits into debounced, single-flight saves.
// Each edit resets the board's quiet-period timer; when it fires, the
// pending patch is persisted. At most one save per board is ever in
// flight, and edits arriving mid-flight are queued into exactly one
// follow-up save, so the latest write always wins and a stale save can
// never overwrite newer data.
type Autosaver struct {
	mu      sync.Mutex
	quiet   time.Duration
	save    saveFunc
	onError func(boardID uuid.UUID, err error)
	entries map[uuid.UUID]*saveEntry
}

type saveEntry struct {
	timer    *time.Timer
	pending  *model.BoardPatch
	inFlight bool
}

func NewAutosaver(quiet time.Duration, save saveFunc, onError func(uuid.UUID, error)) *Autosaver {
	return &Autosaver{
		quiet:   quiet,
		save:    save,
		onError: onError,
		entries: make(map[uuid.UUID]*saveEntry),
	}
}

// Edit merges patch into the board's pending save and resets its timer.
func (a *Autosaver) Edit(boardID uuid.UUID, patch *model.BoardPatch) {
	a.mu.Lock()
	defer a.mu.Unlock()

	e := a.entries[boardID]
	if e == nil {
		e = &saveEntry{}
		a.entries[boardID] = e
	}
	e.pending = mergePatch(e.pending, patch)

	if e.timer != nil {
		e.timer.Stop()
	}
	e.timer = time.AfterFunc(a.quiet, func() {
		if err := a.run(boardID); err != nil && a.onError != nil {
			a.onError(boardID, err)
		}
	})
}

// Flush cancels the board's timer and persists its pending patch
// immediately. If a save is already in flight the pending edits ride the
// queued follow-up instead, and Flush returns nil.
func (a *Autosaver) Flush(boardID uuid.UUID) error {
	a.mu.Lock()
	if e := a.entries[boardID]; e != nil && e.timer != nil {
		e.timer.Stop()
	}
	a.mu.Unlock()
	return a.run(boardID)
}

// Cancel drops any pending edits and timer for the board. Used after a
// board is deleted.
func (a *Autosaver) Cancel(boardID uuid.UUID) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if e := a.entries[boardID]; e != nil {
		if e.timer != nil {
			e.timer.Stop()
		}
		delete(a.entries, boardID)
	}
}

// Close stops every timer. Pending edits are not persisted.
func (a *Autosaver) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	for id, e := range a.entries {
		if e.timer != nil {
			e.timer.Stop()
		}
		delete(a.entries, id)
	}
}

func (a *Autosaver) run(boardID uuid.UUID) error {
	a.mu.Lock()
	e := a.entries[boardID]
	if e == nil || e.pending == nil || e.inFlight {
		// Nothing to do, or the in-flight save will pick the pending
		// patch up as its follow-up.
		a.mu.Unlock()
		return nil
	}
	patch := e.pending
	e.pending = nil
	e.inFlight = true
	a.mu.Unlock()

	err := a.save(boardID, patch)

	a.mu.Lock()
	e.inFlight = false
	again := e.pending != nil
	a.mu.Unlock()

	if again {
		if ferr := a.run(boardID); err == nil {
			err = ferr
		}
	}
	return err
}

// mergePatch overlays next onto base, field by field. Later edits win.
func mergePatch(base, next *model.BoardPatch) *model.BoardPatch {
	if base == nil {
		base = &model.BoardPatch{}
	}
	if next == nil {
		return base
	}
	if next.Title != nil {
		base.Title = next.Title
	}
	if next.Description != nil {
		base.Description = next.Description
	}
	if next.ColorScheme != nil {
		base.ColorScheme = next.ColorScheme
	}
	if next.HeaderImageURL != nil {
		base.HeaderImageURL = next.HeaderImageURL
	}
	if next.FooterImageURL != nil {
		base.FooterImageURL = next.FooterImageURL
	}
	if next.CenterImageURL != nil {
		base.CenterImageURL = next.CenterImageURL
	}
	if next.Squares != nil {
		base.Squares = next.Squares
	}
	if next.IsArchived != nil {
		base.IsArchived = next.IsArchived
	}
	return base
}
