// Package effect decodes and encodes the three mini-languages found inside
// table cells and dilemma options:
//
//   - pair lists:     ECONOMY,1.5;WELFARE,0.8            (multiplier columns)
//   - grudge calls:   CreateGrudge(Farmers,10,-5);...     (dilemma OnImplement)
//   - quoted tuples:  "GDP,0.1*x","Crime,-0.2*x,4"        (policy effects region)
//
// Every decoder is total: input it does not recognize comes back as a
// core.RawToken holding the original text. Every encoder is the structural
// inverse of its decoder and preserves input order.
package effect
