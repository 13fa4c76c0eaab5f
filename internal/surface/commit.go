package surface

// Hooks lets shell roles plug role-specific validation into the
// generic commit algorithm without the surface package depending on
// them (§4.3 steps 1 and 6: pre-commit / post-commit hooks).
type Hooks struct {
	// PreCommit runs before any state is promoted. Returning a non-nil
	// error aborts the commit entirely (e.g. "unconfigured toplevel").
	PreCommit func(s *Surface) error
	// PostCommit runs after current state has been swapped in.
	PostCommit func(s *Surface)
}

// CommitResult reports what a single surface's commit produced, for the
// caller (the scene manager) to fold into per-output damage and
// frame-callback bookkeeping (§4.3 steps 4-5).
type CommitResult struct {
	Surface        ID
	Damage         []Rect // surface-local, already transform/scale-applied
	FrameCallbacks []uint32
	ReleasedBuffer *releaseHandle
}

// releaseHandle defers a buffer's release until the scene manager
// confirms the frame that superseded it has been presented (§4.3 step 3:
// "schedule a release event... after the next frame fence is signalled").
type releaseHandle struct {
	fire func()
}

// Fire releases the buffer. The scene manager calls this once the frame
// that made the buffer obsolete has been confirmed presented.
func (h *releaseHandle) Fire() {
	if h != nil && h.fire != nil {
		h.fire()
	}
}

// Commit runs the commit algorithm of §4.3 for a single client-issued
// wl_surface.commit request. Synchronized subsurfaces only cache their
// state (step 2); everything else promotes pending -> current
// immediately and recursively flushes any synchronized children's cached
// state first, so that "once P commits, the entire cached chain of
// synchronized descendants becomes visible atomically."
func (t *Tree) Commit(id ID, hooks Hooks) ([]CommitResult, error) {
	s := t.Get(id)
	if s == nil {
		return nil, nil
	}
	if s.Role == RoleSubsurface && s.Synchronized {
		if hooks.PreCommit != nil {
			if err := hooks.PreCommit(s); err != nil {
				return nil, err
			}
		}
		cached := s.pending.clone()
		s.cached = &cached
		s.pending = newState()
		return nil, nil
	}
	return t.commitSubtree(s, hooks, fromPending)
}

type commitSource int

const (
	fromPending commitSource = iota
	fromCached
)

func (t *Tree) commitSubtree(s *Surface, hooks Hooks, src commitSource) ([]CommitResult, error) {
	var results []CommitResult

	for _, childID := range s.Children {
		child := t.Get(childID)
		if child == nil {
			continue
		}
		if child.Role == RoleSubsurface && child.Synchronized {
			if child.cached == nil {
				continue // nothing new committed since the parent's last commit
			}
			childResults, err := t.commitSubtree(child, hooks, fromCached)
			if err != nil {
				return results, err
			}
			results = append(results, childResults...)
		}
	}

	if hooks.PreCommit != nil {
		if err := hooks.PreCommit(s); err != nil {
			return results, err
		}
	}

	var promoted State
	if src == fromCached {
		promoted = *s.cached
		s.cached = nil
	} else {
		promoted = s.pending
	}

	var release *releaseHandle
	if promoted.Buffer != s.current.Buffer && s.current.Buffer != nil {
		old := s.current.Buffer
		release = &releaseHandle{fire: old.Release}
	}
	if promoted.Buffer != nil {
		extent := promoted.Extent()
		promoted.ClipDamageToExtent(extent)
		promoted.Opaque = ClipRegionToExtent(promoted.Opaque, extent)
		promoted.Input = ClipRegionToExtent(promoted.Input, extent)
	}

	callbacks := promoted.FrameCallbacks
	damage := append([]Rect(nil), promoted.SurfaceDamage...)

	promoted.SurfaceDamage = nil
	promoted.BufferDamage = nil
	promoted.FrameCallbacks = nil

	s.current = promoted
	if src == fromPending {
		s.pending = newState()
		// viewport destination, unlike damage/callbacks, is sticky: keep
		// scale-to-destination across commits until the client clears it.
		s.pending.ViewportDstW = promoted.ViewportDstW
		s.pending.ViewportDstH = promoted.ViewportDstH
		s.pending.BufferScale = promoted.BufferScale
		s.pending.BufferTransform = promoted.BufferTransform
	}

	if hooks.PostCommit != nil {
		hooks.PostCommit(s)
	}

	results = append(results, CommitResult{
		Surface:        s.id,
		Damage:         damage,
		FrameCallbacks: callbacks,
		ReleasedBuffer: release,
	})
	return results, nil
}
