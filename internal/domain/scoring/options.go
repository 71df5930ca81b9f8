package scoring

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithFactorWeights sets per-factor weights. A zero weight switches the
// factor off. Unknown factors and negative weights are ignored; unset
// factors keep weight 1.
func WithFactorWeights(weights map[string]float64) Option {
	return func(s *Scorer) {
		for name, w := range weights {
			if _, ok := s.weights[name]; ok && w >= 0 {
				s.weights[name] = w
			}
		}
	}
}
