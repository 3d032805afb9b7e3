package scoring

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithRules replaces the whole point table.
func WithRules(r Rules) Option {
	return func(e *Engine) {
		e.rules = r
	}
}

// WithPOTMBonus sets the player of the match bonus.
func WithPOTMBonus(points int) Option {
	return func(e *Engine) {
		if points >= 0 {
			e.rules.POTM = points
		}
	}
}

// WithFieldingWeights sets per-dismissal fielding points.
func WithFieldingWeights(catch, stumping, runOut int) Option {
	return func(e *Engine) {
		e.rules.Catch = catch
		e.rules.Stumping = stumping
		e.rules.RunOut = runOut
	}
}
