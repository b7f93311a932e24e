// 10 Feb 2026
// The old format has no notion of an entity, so we reconstruct one:
// chains whose declared SEQRES sequences are identical are taken to
// be the same molecular species.

package pdb

import "strconv"

// entitySetter accumulates entities while reading and settles chain
// to entity pointers at the end.
type entitySetter struct {
	st         *Structure
	chainToEnt map[string]*Entity
}

func newEntitySetter(st *Structure) *entitySetter {
	return &entitySetter{st: st, chainToEnt: make(map[string]*Entity)}
}

// setForChain returns the entity registered under a chain name,
// creating one of the given type the first time the name shows up.
// A later, different type hint for a known name is ignored.
func (es *entitySetter) setForChain(name string, typ EntityType) *Entity {
	if ent, ok := es.chainToEnt[name]; ok {
		return ent
	}
	ent := &Entity{Type: typ}
	es.st.Entities = append(es.st.Entities, ent)
	es.chainToEnt[name] = ent
	return ent
}

// sameSeq is strict equality of monomer lists. Empty never matches
// empty, or every chain without a SEQRES would collapse into one
// entity.
func sameSeq(a, b []string) bool {
	if len(a) == 0 || len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// finalize merges entities with identical sequences, keeping the
// earlier one, gives every chain an entity (Unknown if nothing was
// declared for its name) and hands out the serial ids. Quadratic over
// entities, which is fine; nobody deposits a hundred distinct chains.
func (es *entitySetter) finalize() {
	ents := es.st.Entities
	for i := 0; i < len(ents); i++ {
		for j := i + 1; j < len(ents); j++ {
			if !sameSeq(ents[j].Sequence, ents[i].Sequence) {
				continue
			}
			for name, ent := range es.chainToEnt {
				if ent == ents[j] {
					es.chainToEnt[name] = ents[i]
				}
			}
			ents = append(ents[:j], ents[j+1:]...)
			j--
		}
	}
	es.st.Entities = ents
	for _, mdl := range es.st.Models {
		for _, ch := range mdl.Chains {
			ch.Entity = es.setForChain(ch.Name, EntUnknown)
		}
	}
	for i, ent := range es.st.Entities {
		ent.Id = strconv.Itoa(i + 1)
	}
}
