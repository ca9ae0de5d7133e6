package recording

import "sync"

// PropertyID identifies a named shader parameter. IDs are stable for the
// lifetime of the process, so callers resolve names once and keep the IDs.
type PropertyID uint32

var (
	propertyMu    sync.RWMutex
	propertyIDs   = make(map[string]PropertyID)
	propertyNames []string
)

// PropertyToID returns the ID for a shader parameter name, assigning a new
// one the first time a name is seen.
func PropertyToID(name string) PropertyID {
	propertyMu.RLock()
	id, ok := propertyIDs[name]
	propertyMu.RUnlock()
	if ok {
		return id
	}

	propertyMu.Lock()
	defer propertyMu.Unlock()
	if id, ok := propertyIDs[name]; ok {
		return id
	}
	// #nosec G115 -- the number of distinct parameter names is tiny
	id = PropertyID(uint32(len(propertyNames)))
	propertyIDs[name] = id
	propertyNames = append(propertyNames, name)
	return id
}

// String returns the parameter name the ID was created from.
func (id PropertyID) String() string {
	propertyMu.RLock()
	defer propertyMu.RUnlock()
	if int(id) < len(propertyNames) {
		return propertyNames[id]
	}
	return "Unknown"
}

// Well-known parameters understood by the stamp backends.
var (
	PropMainTex    = PropertyToID("_MainTex")
	PropBrushAlpha = PropertyToID("_BrushAlpha")
)
