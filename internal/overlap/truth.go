package overlap

import "github.com/banshee-data/l1track/internal/stub"

// CommonTruthParticle returns the first truth particle of s1, in
// association order, that s2 is also matched to. It returns nil if
// either stub is not genuine or they share no particle.
func CommonTruthParticle(s1, s2 *stub.Stub) *stub.TruthParticle {
	if !s1.Genuine() || !s2.Genuine() {
		return nil
	}
	for _, tp := range s1.TruthParticles {
		if s2.HasTruthParticle(tp) {
			return tp
		}
	}
	return nil
}

// FirstTruthParticle returns the first truth particle of s, or nil.
func FirstTruthParticle(s *stub.Stub) *stub.TruthParticle {
	if !s.Genuine() {
		return nil
	}
	return s.TruthParticles[0]
}

// CommonTruthParticle is the Resolver form of the package function.
func (r *Resolver) CommonTruthParticle(s1, s2 *stub.Stub) *stub.TruthParticle {
	return CommonTruthParticle(s1, s2)
}

// FirstTruthParticle is the Resolver form of the package function.
func (r *Resolver) FirstTruthParticle(s *stub.Stub) *stub.TruthParticle {
	return FirstTruthParticle(s)
}
