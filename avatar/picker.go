package avatar

import "math/rand/v2"

// Picker makes the random per-load presentation choices
type Picker struct {
	rng      *rand.Rand
	skyboxes []string
	clips    []string
}

// NewPicker creates a picker over the configured lists; a nil rng is seeded randomly
func NewPicker(rng *rand.Rand, skyboxes, clips []string) *Picker {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Picker{rng: rng, skyboxes: skyboxes, clips: clips}
}

// Skybox returns a uniformly chosen skybox, false when none are configured
func (p *Picker) Skybox() (string, bool) {
	return p.pick(p.skyboxes)
}

// Clip returns a uniformly chosen animation clip, false when none are configured
func (p *Picker) Clip() (string, bool) {
	return p.pick(p.clips)
}

func (p *Picker) pick(items []string) (string, bool) {
	if len(items) == 0 {
		return "", false
	}
	return items[p.rng.IntN(len(items))], true
}
