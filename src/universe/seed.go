package universe

import "math/bits"

//seeding recurrence: k = k * seedMultiplier mod seedModulus, the cell is alive when k mod seedAliveDivisor == 0
const (
	seedStart        = 1
	seedMultiplier   = 1234567890
	seedModulus      = 9999999999
	seedAliveDivisor = 5
)

//seedSequence generates the accumulator values of the seeding recurrence
type seedSequence struct {
	k uint64
}

func newSeedSequence() *seedSequence {
	return &seedSequence{k: seedStart}
}

//next updates the accumulator and returns the new value
//k < seedModulus fits 64 bits but the product does not, so it is reduced in 128 bit precision
func (s *seedSequence) next() uint64 {
	hi, lo := bits.Mul64(s.k, seedMultiplier)
	s.k = bits.Rem64(hi, lo, seedModulus)
	return s.k
}

//seed populates the universe walking the buffer in linear order
func (u *Universe) seed() {
	seq := newSeedSequence()
	for i := range u.cells {
		if seq.next()%seedAliveDivisor == 0 {
			u.cells[i] = Alive
		} else {
			u.cells[i] = Dead
		}
	}
}
