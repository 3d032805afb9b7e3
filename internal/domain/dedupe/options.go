package dedupe

// Option applies a configuration option to the checkpoint.
type Option func(*checkpoint)

// WithSeed pre-records ids, typically the processed matches loaded from the store.
func WithSeed(ids ...string) Option {
	return func(d *checkpoint) {
		d.seed = append(d.seed, ids...)
	}
}
