package registry

import (
	"github.com/gostonefire/omflib/internal/model"
	"sort"
)

// Symbol - One named symbol and the record kinds it has been seen in
type Symbol struct {
	Name  string
	Flags model.SymbolFlag
}

// Registry - Collection of symbols kept in ascending byte order of their names, with at most one entry per name.
// The registry owns its symbols; nothing is removed except by Drain or Reset.
type Registry struct {
	symbols []*Symbol
}

// NewRegistry - Returns a pointer to a new empty Registry
func NewRegistry() *Registry {
	return &Registry{}
}

// InsertOrMerge - Adds name with flag, or ORs flag into the existing entry if name is already present.
//   - name is the symbol name, copied into the registry
//   - flag is the record kind flag(s) to record
func (R *Registry) InsertOrMerge(name []byte, flag model.SymbolFlag) {
	key := string(name)
	i := R.search(key)
	if i < len(R.symbols) && R.symbols[i].Name == key {
		R.symbols[i].Flags |= flag
		return
	}

	R.symbols = append(R.symbols, nil)
	copy(R.symbols[i+1:], R.symbols[i:])
	R.symbols[i] = &Symbol{Name: key, Flags: flag}
}

// Lookup - Returns the flags of name and whether it is present
func (R *Registry) Lookup(name string) (flags model.SymbolFlag, ok bool) {
	i := R.search(name)
	if i < len(R.symbols) && R.symbols[i].Name == name {
		return R.symbols[i].Flags, true
	}

	return
}

// Range - Calls fn for each symbol in ascending order until fn returns false.
// fn may change Flags but not Name.
func (R *Registry) Range(fn func(symbol *Symbol) bool) {
	for _, s := range R.symbols {
		if !fn(s) {
			return
		}
	}
}

// Names - Returns all names in ascending order
func (R *Registry) Names() (names []string) {
	names = make([]string, 0, len(R.symbols))
	for _, s := range R.symbols {
		names = append(names, s.Name)
	}

	return
}

// Len - Returns the number of symbols
func (R *Registry) Len() int {
	return len(R.symbols)
}

// Drain - Returns copies of all symbols in ascending order and empties the registry
func (R *Registry) Drain() (symbols []Symbol) {
	symbols = make([]Symbol, 0, len(R.symbols))
	for _, s := range R.symbols {
		symbols = append(symbols, *s)
	}
	R.Reset()

	return
}

// Reset - Empties the registry
func (R *Registry) Reset() {
	R.symbols = nil
}

// search - Returns the index of the first symbol whose name is not less than name
func (R *Registry) search(name string) int {
	return sort.Search(len(R.symbols), func(i int) bool { return R.symbols[i].Name >= name })
}
